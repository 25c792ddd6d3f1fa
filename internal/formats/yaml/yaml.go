// Package yaml bridges xt's stream/Handle abstraction to YAML 1.2: encoding
// detection and normalization, document chunking, and transcoding through
// gopkg.in/yaml.v3, which (like the Rust crate's serde_yaml before it) can
// only parse or emit one complete, buffered document at a time.
package yaml

import (
	"bufio"
	"bytes"
	"io"

	goyaml "gopkg.in/yaml.v3"

	"github.com/mistergrinvalds/xt/internal/stream"
	"github.com/mistergrinvalds/xt/internal/xtype"
)

// InputMatches reports whether ref's input looks like YAML whose first
// document's top-level value is a collection (block/flow mapping or
// sequence) rather than a bare scalar — the restriction spec.md §4.4.3
// places on YAML detection to avoid a bare word or number probing positive
// as "YAML". Only the first document is inspected.
func InputMatches(ref *stream.Ref) (bool, error) {
	r, err := refReader(ref)
	if err != nil {
		return false, err
	}

	decoded, err := sniffAndDecode(r)
	if err != nil {
		return false, err
	}

	doc, err := NewChunker(decoded).Next()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		if stream.IsIOError(err) {
			return false, xtype.WrapError(xtype.ErrCodeIO, err)
		}
		if isEncodingError(err) {
			return false, xtype.WrapError(xtype.ErrCodeUnsupportedEncoding, err)
		}
		return false, nil // treat malformed YAML content as "not matched", not fatal
	}
	return doc.Collection, nil
}

// Transcode decodes every document in handle's input as YAML and writes each
// one to output in turn.
func Transcode(handle *stream.Handle, output xtype.Output) error {
	in := handle.ToInput()
	var r io.Reader
	if in.IsSlice() {
		r = bytes.NewReader(in.Slice())
	} else {
		r = stream.TagIOErrors(in.Reader())
	}

	decoded, err := sniffAndDecode(r)
	if err != nil {
		return err
	}

	chunker := NewChunker(decoded)
	for {
		doc, err := chunker.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if stream.IsIOError(err) {
				return xtype.WrapError(xtype.ErrCodeIO, err)
			}
			if isEncodingError(err) {
				return xtype.WrapError(xtype.ErrCodeUnsupportedEncoding, err)
			}
			return xtype.WrapError(xtype.ErrCodeIO, err)
		}

		var v any
		if err := goyaml.Unmarshal(doc.Content, &v); err != nil {
			return xtype.WrapError(xtype.ErrCodeInvalidData, err)
		}
		if v == nil {
			// An empty or "---\n---\n" document decodes to nil; nothing to
			// transcode.
			continue
		}
		if err := output.TranscodeValue(v); err != nil {
			return err
		}
	}
}

// refReader adapts a detection Ref to a plain io.Reader, regardless of
// whether it's slice- or reader-backed. Reader-backed refs are wrapped so a
// genuine source failure downstream of sniffAndDecode's transcoding layer is
// still recognizable as an I/O error rather than a decode error.
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

// sniffAndDecode reads DetectLen leading bytes from r to classify its
// character encoding, then returns an io.Reader that replays those bytes and
// the remainder of r, transcoded to UTF-8.
func sniffAndDecode(r io.Reader) (io.Reader, error) {
	head := make([]byte, DetectLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, xtype.WrapError(xtype.ErrCodeIO, err)
	}
	enc := Detect(head[:n])
	combined := io.MultiReader(bytes.NewReader(head[:n]), r)
	return enc.NewReader(combined), nil
}

// Writer is the YAML xtype.Output. Per spec.md §6, every document — the
// first one included — is prefixed with its own "---\n" marker line, so
// each TranscodeValue call opens a fresh gopkg.in/yaml.v3 Encoder rather
// than relying on one long-lived encoder's own separator behavior.
type Writer struct {
	buffered *bufio.Writer
}

// NewWriter creates a Writer that emits YAML 1.2 with two-space indentation
// to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buffered: bufio.NewWriterSize(w, 64*1024)}
}

// TranscodeValue implements xtype.Output.
func (wr *Writer) TranscodeValue(v any) error {
	if _, err := wr.buffered.WriteString("---\n"); err != nil {
		return xtype.WrapError(xtype.ErrCodeIO, err)
	}
	enc := goyaml.NewEncoder(wr.buffered)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return xtype.WrapError(xtype.ErrCodeInvalidData, err)
	}
	if err := enc.Close(); err != nil {
		return xtype.WrapError(xtype.ErrCodeIO, err)
	}
	return nil
}

// Flush implements xtype.Output.
func (wr *Writer) Flush() error {
	return wr.buffered.Flush()
}
