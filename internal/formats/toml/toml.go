// Package toml bridges xt's stream/Handle abstraction to TOML, using
// github.com/pelletier/go-toml/v2. TOML has no notion of a document stream:
// a TOML file is always exactly one table, so this bridge always fully
// buffers its input and never emits more than one document.
package toml

import (
	"bufio"
	"errors"
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/mistergrinvalds/xt/internal/stream"
	"github.com/mistergrinvalds/xt/internal/xtype"
)

// InputMatches reports whether ref's input, taken in full, parses as a
// well-formed TOML document. TOML is tried last in the detection order (see
// spec.md §4.4), after MessagePack, JSON, and YAML have all failed to
// match, so fully buffering the candidate here costs nothing extra: TOML
// would need the whole input buffered for Transcode regardless.
func InputMatches(ref *stream.Ref) (bool, error) {
	b, err := fullBytes(ref)
	if err != nil {
		return false, err
	}
	var v map[string]interface{}
	if err := toml.Unmarshal(b, &v); err != nil {
		return false, nil // malformed data probes as "not matched", not fatal
	}
	return true, nil
}

// Transcode decodes handle's input as a single TOML document and writes it
// to output. TOML input always holds exactly one document, so this bridge
// produces one document per call. The one-document limit on TOML output,
// across repeated calls to the same Translator, is enforced by Writer.
func Transcode(handle *stream.Handle, output xtype.Output) error {
	b, err := handle.ToSlice()
	if err != nil {
		return xtype.WrapError(xtype.ErrCodeIO, err)
	}
	var v map[string]interface{}
	if err := toml.Unmarshal(b, &v); err != nil {
		return wrapInvalidTOML(err)
	}
	return output.TranscodeValue(v)
}

// wrapInvalidTOML wraps a TOML decode error as ErrCodeInvalidData, attaching
// the line number go-toml/v2 reports on a *toml.DecodeError (it exposes
// position as a row/column pair rather than a byte offset; the row number is
// what xtype.Error.Position carries here) so callers see spec.md §7's
// "position where the underlying parser supplies one".
func wrapInvalidTOML(err error) error {
	wrapped := xtype.WrapError(xtype.ErrCodeInvalidData, err)
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, _ := decodeErr.Position()
		return wrapped.WithPosition(int64(row))
	}
	return wrapped
}

func fullBytes(ref *stream.Ref) ([]byte, error) {
	if ref.IsSlice() {
		b, err := ref.Prefix(0)
		if err != nil {
			return nil, xtype.WrapError(xtype.ErrCodeIO, err)
		}
		return b, nil
	}
	b, err := io.ReadAll(ref.Reader())
	if err != nil {
		return nil, xtype.WrapError(xtype.ErrCodeIO, err)
	}
	return b, nil
}

// Writer is the TOML xtype.Output. TOML allows exactly one document: a
// second TranscodeValue call fails with ErrCodeUnsupportedCardinality
// rather than silently concatenating or overwriting.
type Writer struct {
	buffered *bufio.Writer
	wrote    bool
}

// NewWriter creates a Writer that emits a single TOML document to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buffered: bufio.NewWriterSize(w, 64*1024)}
}

// TranscodeValue implements xtype.Output.
func (wr *Writer) TranscodeValue(v any) error {
	if wr.wrote {
		return xtype.NewError(xtype.ErrCodeUnsupportedCardinality, "TOML output accepts only one document")
	}
	enc := toml.NewEncoder(wr.buffered)
	if err := enc.Encode(v); err != nil {
		return xtype.WrapError(xtype.ErrCodeInvalidData, err)
	}
	wr.wrote = true
	return nil
}

// Flush implements xtype.Output.
func (wr *Writer) Flush() error {
	return wr.buffered.Flush()
}
