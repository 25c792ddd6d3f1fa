// Package xt translates a serialized input stream — JSON, YAML 1.2, TOML,
// or MessagePack — into an equivalent stream in a different format.
//
// It decodes each document in the input into a generic value and re-encodes
// it with the target format's codec, rather than piping a shared
// deserializer/serializer event stream straight through: Go's json, yaml,
// toml, and msgpack codec libraries don't share a serde-style streaming
// interface the way the Rust crate this package generalizes does. See
// DESIGN.md's "Open Question decisions" for the detailed rationale.
package xt

import (
	"io"

	"github.com/mistergrinvalds/xt/internal/formats/json"
	"github.com/mistergrinvalds/xt/internal/formats/msgpack"
	"github.com/mistergrinvalds/xt/internal/formats/toml"
	"github.com/mistergrinvalds/xt/internal/formats/yaml"
	"github.com/mistergrinvalds/xt/internal/stream"
	"github.com/mistergrinvalds/xt/internal/xtype"
)

// Format is the closed set of serialization formats xt translates between.
type Format = xtype.Format

// Format values, re-exported from internal/xtype so callers never need to
// import that package directly.
const (
	FormatJSON    = xtype.FormatJSON
	FormatMsgpack = xtype.FormatMsgpack
	FormatTOML    = xtype.FormatTOML
	FormatYAML    = xtype.FormatYAML
)

// Error is xt's structured error type, re-exported from internal/xtype.
type Error = xtype.Error

// Error codes, re-exported from internal/xtype.
const (
	ErrCodeIO                     = xtype.ErrCodeIO
	ErrCodeInvalidData            = xtype.ErrCodeInvalidData
	ErrCodeFormatNotDetected      = xtype.ErrCodeFormatNotDetected
	ErrCodeUnsupportedCardinality = xtype.ErrCodeUnsupportedCardinality
	ErrCodeUnsupportedEncoding    = xtype.ErrCodeUnsupportedEncoding
)

// Translator owns one output sink, chosen at construction from the target
// format. Calling its translate methods repeatedly logically concatenates
// every document from every input into that one sink: if the output format
// doesn't support multiple documents (TOML), the second document — from the
// same call or a later one — fails with ErrCodeUnsupportedCardinality.
//
// A Translator is not safe for concurrent use from multiple goroutines;
// independent Translator instances are independent.
type Translator struct {
	to     xtype.Format
	output xtype.Output
}

// NewTranslator creates a Translator that writes to out in format to.
func NewTranslator(out io.Writer, to xtype.Format) *Translator {
	return &Translator{to: to, output: newOutput(to, out)}
}

func newOutput(to xtype.Format, w io.Writer) xtype.Output {
	switch to {
	case xtype.FormatJSON:
		return json.NewWriter(w)
	case xtype.FormatMsgpack:
		return msgpack.NewWriter(w)
	case xtype.FormatTOML:
		return toml.NewWriter(w)
	case xtype.FormatYAML:
		return yaml.NewWriter(w)
	default:
		return json.NewWriter(w)
	}
}

// TranslateSlice translates the documents in input. If from is nil, the
// format is detected; if detection fails, the result is
// ErrCodeFormatNotDetected.
func (t *Translator) TranslateSlice(input []byte, from *xtype.Format) error {
	return t.translate(stream.FromSlice(input), from)
}

// TranslateReader translates the documents read from r. If from is nil, the
// format is detected; if detection fails, the result is
// ErrCodeFormatNotDetected.
func (t *Translator) TranslateReader(r io.Reader, from *xtype.Format) error {
	return t.translate(stream.FromReader(r), from)
}

func (t *Translator) translate(handle *stream.Handle, from *xtype.Format) error {
	f, err := resolveFormat(handle, from)
	if err != nil {
		return err
	}

	switch f {
	case xtype.FormatJSON:
		return json.Transcode(handle, t.output)
	case xtype.FormatMsgpack:
		return msgpack.Transcode(handle, t.output)
	case xtype.FormatTOML:
		return toml.Transcode(handle, t.output)
	case xtype.FormatYAML:
		return yaml.Transcode(handle, t.output)
	default:
		return xtype.NewError(xtype.ErrCodeFormatNotDetected, "unable to detect input format")
	}
}

func resolveFormat(handle *stream.Handle, from *xtype.Format) (xtype.Format, error) {
	if from != nil {
		return *from, nil
	}
	f, ok, err := detect(handle)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, xtype.NewError(xtype.ErrCodeFormatNotDetected, "unable to detect input format")
	}
	return f, nil
}

// Flush flushes the translator's output sink.
func (t *Translator) Flush() error {
	return t.output.Flush()
}

// TranslateSlice translates input (in format from, or detected if from is
// nil) to format to, writing the result to out.
func TranslateSlice(input []byte, from *xtype.Format, to xtype.Format, out io.Writer) error {
	t := NewTranslator(out, to)
	if err := t.TranslateSlice(input, from); err != nil {
		return err
	}
	return t.Flush()
}

// TranslateReader translates the documents read from r (in format from, or
// detected if from is nil) to format to, writing the result to out.
func TranslateReader(r io.Reader, from *xtype.Format, to xtype.Format, out io.Writer) error {
	t := NewTranslator(out, to)
	if err := t.TranslateReader(r, from); err != nil {
		return err
	}
	return t.Flush()
}
