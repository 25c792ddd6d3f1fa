// Package json bridges xt's stream/Handle abstraction to JSON, using
// github.com/goccy/go-json as a drop-in, faster replacement for the standard
// library's encoding/json — it implements the same Decoder/Encoder surface,
// so the streaming idiom below carries over unchanged.
package json

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/mistergrinvalds/xt/internal/stream"
	"github.com/mistergrinvalds/xt/internal/xtype"
)

// InputMatches reports whether ref's input begins with a single well-formed
// JSON value. Unlike YAML and MessagePack, JSON detection is not restricted
// to collection-rooted values: a bare string, number, or literal is valid
// JSON and matches.
func InputMatches(ref *stream.Ref) (bool, error) {
	r, err := refReader(ref)
	if err != nil {
		return false, err
	}
	dec := gojson.NewDecoder(r)
	var v any
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			return false, nil
		}
		if stream.IsIOError(err) {
			return false, xtype.WrapError(xtype.ErrCodeIO, err)
		}
		return false, nil // malformed data probes as "not matched", not fatal
	}
	return true, nil
}

// Transcode decodes every document in handle's input as JSON (back-to-back
// values, as produced by xt's own Writer or by NDJSON-style tooling) and
// writes each one to output in turn.
func Transcode(handle *stream.Handle, output xtype.Output) error {
	in := handle.ToInput()
	var r io.Reader
	if in.IsSlice() {
		r = bytes.NewReader(in.Slice())
	} else {
		r = stream.TagIOErrors(in.Reader())
	}

	// Decoding into float64 rather than json.Number keeps the decoded value
	// a plain numeric type every target encoder (YAML, TOML, MessagePack)
	// already knows how to re-encode as a number, at the cost of the exact
	// integer/float tagging distinction spec.md §8 property 7 explicitly
	// allows transcoding to lose.
	dec := gojson.NewDecoder(r)
	for {
		var v any
		err := dec.Decode(&v)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if stream.IsIOError(err) {
				return xtype.WrapError(xtype.ErrCodeIO, err)
			}
			return wrapInvalidJSON(err)
		}
		if err := output.TranscodeValue(v); err != nil {
			return err
		}
	}
}

// wrapInvalidJSON wraps a JSON decode error as ErrCodeInvalidData, attaching
// the byte offset goccy/go-json reports on a *gojson.SyntaxError (it mirrors
// encoding/json.SyntaxError's Offset field) so callers see spec.md §7's
// "position where the underlying parser supplies one".
func wrapInvalidJSON(err error) error {
	wrapped := xtype.WrapError(xtype.ErrCodeInvalidData, err)
	var syntaxErr *gojson.SyntaxError
	if errors.As(err, &syntaxErr) {
		return wrapped.WithPosition(syntaxErr.Offset)
	}
	return wrapped
}

func refReader(ref *stream.Ref) (io.Reader, error) {
	if ref.IsSlice() {
		b, err := ref.Prefix(0)
		if err != nil {
			return nil, xtype.WrapError(xtype.ErrCodeIO, err)
		}
		return bytes.NewReader(b), nil
	}
	return stream.TagIOErrors(ref.Reader()), nil
}

// Writer is the JSON xtype.Output: successive TranscodeValue calls emit
// back-to-back JSON values, each followed by the newline Encoder.Encode
// appends and no other separator, mirroring how xt's JSON reader consumes
// them on the other end via Decoder.Decode in a loop.
type Writer struct {
	buffered *bufio.Writer
	enc      *gojson.Encoder
}

// NewWriter creates a Writer that emits compact JSON to w.
func NewWriter(w io.Writer) *Writer {
	buffered := bufio.NewWriterSize(w, 64*1024)
	return &Writer{buffered: buffered, enc: gojson.NewEncoder(buffered)}
}

// TranscodeValue implements xtype.Output.
func (wr *Writer) TranscodeValue(v any) error {
	if err := wr.enc.Encode(v); err != nil {
		return xtype.WrapError(xtype.ErrCodeInvalidData, err)
	}
	return nil
}

// Flush implements xtype.Output.
func (wr *Writer) Flush() error {
	return wr.buffered.Flush()
}
