package xt

import (
	"github.com/mistergrinvalds/xt/internal/formats/json"
	"github.com/mistergrinvalds/xt/internal/formats/msgpack"
	"github.com/mistergrinvalds/xt/internal/formats/toml"
	"github.com/mistergrinvalds/xt/internal/formats/yaml"
	"github.com/mistergrinvalds/xt/internal/stream"
	"github.com/mistergrinvalds/xt/internal/xtype"
)

// detect runs each format's input_matches probe in the fixed order spec.md
// §4.4 requires: MessagePack (most restrictive, binary, checked first so no
// text probe is misled), JSON (strictly stricter than YAML/TOML for
// well-formed text), YAML (collection-restricted), then TOML (last resort,
// must fully buffer to decide). Each probe gets its own BorrowMut, so a
// probe never advances a later probe's view of the handle.
func detect(handle *stream.Handle) (xtype.Format, bool, error) {
	if ok, err := msgpack.InputMatches(handle.BorrowMut()); err != nil {
		return 0, false, err
	} else if ok {
		return xtype.FormatMsgpack, true, nil
	}

	if ok, err := json.InputMatches(handle.BorrowMut()); err != nil {
		return 0, false, err
	} else if ok {
		return xtype.FormatJSON, true, nil
	}

	if ok, err := yaml.InputMatches(handle.BorrowMut()); err != nil {
		return 0, false, err
	} else if ok {
		return xtype.FormatYAML, true, nil
	}

	if ok, err := toml.InputMatches(handle.BorrowMut()); err != nil {
		return 0, false, err
	} else if ok {
		return xtype.FormatTOML, true, nil
	}

	return 0, false, nil
}
