package json

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mistergrinvalds/xt/internal/stream"
	"github.com/mistergrinvalds/xt/internal/xtype"
)

// erroringReader yields data once, then a fixed non-EOF error on every
// subsequent read — simulating a genuine source failure partway through a
// document, as distinct from the source simply running out of well-formed
// JSON bytes.
type erroringReader struct {
	data []byte
	err  error
	done bool
}

func (r *erroringReader) Read(buf []byte) (int, error) {
	if !r.done {
		r.done = true
		n := copy(buf, r.data)
		return n, nil
	}
	return 0, r.err
}

func TestInputMatchesObject(t *testing.T) {
	h := stream.FromSlice([]byte(`{"a": 1}`))
	ok, err := InputMatches(h.BorrowMut())
	if err != nil {
		t.Fatalf("InputMatches: %v", err)
	}
	if !ok {
		t.Fatal("expected a JSON object to match")
	}
}

func TestInputMatchesBareScalar(t *testing.T) {
	h := stream.FromSlice([]byte(`42`))
	ok, err := InputMatches(h.BorrowMut())
	if err != nil {
		t.Fatalf("InputMatches: %v", err)
	}
	if !ok {
		t.Fatal("expected a bare JSON number to match (JSON detection is not collection-restricted)")
	}
}

func TestInputMatchesMalformedNotFatal(t *testing.T) {
	h := stream.FromSlice([]byte(`{not json`))
	ok, err := InputMatches(h.BorrowMut())
	if err != nil {
		t.Fatalf("InputMatches should not return an error for malformed input: %v", err)
	}
	if ok {
		t.Fatal("expected malformed input not to match")
	}
}

// TestInputMatchesPropagatesGenuineIOError covers spec.md §4.4/§7: a real
// reader failure partway through a document must be reported as ErrCodeIO,
// not swallowed as "not matched" the way a malformed-data decode error is.
func TestInputMatchesPropagatesGenuineIOError(t *testing.T) {
	wantErr := errors.New("boom")
	h := stream.FromReader(&erroringReader{data: []byte(`{"a":`), err: wantErr})
	_, err := InputMatches(h.BorrowMut())
	if err == nil {
		t.Fatal("expected a genuine reader error to propagate")
	}
	xerr, ok := err.(*xtype.Error)
	if !ok {
		t.Fatalf("got error of type %T, want *xtype.Error", err)
	}
	if xerr.Code != xtype.ErrCodeIO {
		t.Fatalf("got code %q, want %q", xerr.Code, xtype.ErrCodeIO)
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the wrapped error to unwrap to %v", wantErr)
	}
}

// TestTranscodePropagatesGenuineIOError is TestInputMatchesPropagatesGenuineIOError's
// Transcode-side counterpart.
func TestTranscodePropagatesGenuineIOError(t *testing.T) {
	wantErr := errors.New("boom")
	h := stream.FromReader(&erroringReader{data: []byte(`{"a":`), err: wantErr})
	out := &captureOutput{}
	err := Transcode(h, out)
	if err == nil {
		t.Fatal("expected a genuine reader error to propagate")
	}
	xerr, ok := err.(*xtype.Error)
	if !ok {
		t.Fatalf("got error of type %T, want *xtype.Error", err)
	}
	if xerr.Code != xtype.ErrCodeIO {
		t.Fatalf("got code %q, want %q", xerr.Code, xtype.ErrCodeIO)
	}
}

type captureOutput struct {
	values []any
}

func (c *captureOutput) TranscodeValue(v any) error {
	c.values = append(c.values, v)
	return nil
}

func (c *captureOutput) Flush() error { return nil }

func TestTranscodeMultipleDocuments(t *testing.T) {
	h := stream.FromSlice([]byte(`{"a":1}{"b":2}`))
	out := &captureOutput{}
	if err := Transcode(h, out); err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if len(out.values) != 2 {
		t.Fatalf("got %d documents, want 2", len(out.values))
	}
}

func TestWriterEmitsBackToBackValues(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.TranscodeValue(map[string]any{"a": 1}); err != nil {
		t.Fatalf("TranscodeValue: %v", err)
	}
	if err := w.TranscodeValue(map[string]any{"b": 2}); err != nil {
		t.Fatalf("TranscodeValue: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	got := buf.String()
	if !bytes.Contains([]byte(got), []byte(`"a":1`)) || !bytes.Contains([]byte(got), []byte(`"b":2`)) {
		t.Fatalf("got %q, want both documents present", got)
	}
}
