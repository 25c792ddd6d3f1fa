// Package msgpack bridges xt's stream/Handle abstraction to MessagePack,
// using github.com/vmihailenco/msgpack/v5 for decoding and encoding.
package msgpack

import (
	"bufio"
	"bytes"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mistergrinvalds/xt/internal/stream"
	"github.com/mistergrinvalds/xt/internal/xtype"
)

// InputMatches reports whether ref's input begins with a well-formed
// MessagePack value whose top-level type is a map or array. Bare scalars
// (ints, strings, booleans) are excluded per spec.md §4.4.1: MessagePack's
// compact integer and fixstr encodings overlap with plausible prefixes of
// the other formats too often to trust on their own.
func InputMatches(ref *stream.Ref) (bool, error) {
	r, err := refReader(ref)
	if err != nil {
		return false, err
	}
	dec := msgpack.NewDecoder(r)
	v, err := dec.DecodeInterface()
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		if stream.IsIOError(err) {
			return false, xtype.WrapError(xtype.ErrCodeIO, err)
		}
		return false, nil // malformed data probes as "not matched", not fatal
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return true, nil
	default:
		return false, nil
	}
}

// Transcode decodes every document in handle's input as MessagePack
// (back-to-back values) and writes each one to output in turn.
func Transcode(handle *stream.Handle, output xtype.Output) error {
	in := handle.ToInput()
	var r io.Reader
	if in.IsSlice() {
		r = bytes.NewReader(in.Slice())
	} else {
		r = stream.TagIOErrors(in.Reader())
	}

	dec := msgpack.NewDecoder(r)
	for {
		v, err := dec.DecodeInterface()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if stream.IsIOError(err) {
				return xtype.WrapError(xtype.ErrCodeIO, err)
			}
			return xtype.WrapError(xtype.ErrCodeInvalidData, err)
		}
		if err := output.TranscodeValue(v); err != nil {
			return err
		}
	}
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

// Writer is the MessagePack xtype.Output: successive TranscodeValue calls
// emit back-to-back encoded values with no separator, which is how
// MessagePack readers (including this package's own Transcode) expect to
// consume a multi-document stream.
type Writer struct {
	buffered *bufio.Writer
	enc      *msgpack.Encoder
}

// NewWriter creates a Writer that emits MessagePack to w.
func NewWriter(w io.Writer) *Writer {
	buffered := bufio.NewWriterSize(w, 64*1024)
	return &Writer{buffered: buffered, enc: msgpack.NewEncoder(buffered)}
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
