package msgpack

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mistergrinvalds/xt/internal/stream"
	"github.com/mistergrinvalds/xt/internal/xtype"
)

// erroringReader yields a truncated MessagePack map header once, then a
// fixed non-EOF error on every subsequent read — msgpack/v5 exposes no
// distinguishing error type for this case, so InputMatches/Transcode must
// rely on the source reader itself having been tagged.
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

// TestInputMatchesPropagatesGenuineIOError covers spec.md §4.4/§7: a real
// reader failure partway through a document must be reported as ErrCodeIO,
// not swallowed as "not matched" the way malformed MessagePack bytes are.
func TestInputMatchesPropagatesGenuineIOError(t *testing.T) {
	full, err := msgpack.Marshal(map[string]interface{}{"a": 1, "bb": 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	wantErr := errors.New("boom")
	h := stream.FromReader(&erroringReader{data: full[:1], err: wantErr})
	_, matchErr := InputMatches(h.BorrowMut())
	if matchErr == nil {
		t.Fatal("expected a genuine reader error to propagate")
	}
	xerr, ok := matchErr.(*xtype.Error)
	if !ok {
		t.Fatalf("got error of type %T, want *xtype.Error", matchErr)
	}
	if xerr.Code != xtype.ErrCodeIO {
		t.Fatalf("got code %q, want %q", xerr.Code, xtype.ErrCodeIO)
	}
}

func TestInputMatchesMap(t *testing.T) {
	b, err := msgpack.Marshal(map[string]interface{}{"a": 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	h := stream.FromSlice(b)
	ok, err := InputMatches(h.BorrowMut())
	if err != nil {
		t.Fatalf("InputMatches: %v", err)
	}
	if !ok {
		t.Fatal("expected a MessagePack map to match")
	}
}

func TestInputMatchesBareScalarExcluded(t *testing.T) {
	b, err := msgpack.Marshal(42)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	h := stream.FromSlice(b)
	ok, err := InputMatches(h.BorrowMut())
	if err != nil {
		t.Fatalf("InputMatches: %v", err)
	}
	if ok {
		t.Fatal("expected a bare MessagePack integer not to match")
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

func TestTranscodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.TranscodeValue(map[string]interface{}{"a": int8(1)}); err != nil {
		t.Fatalf("TranscodeValue: %v", err)
	}
	if err := w.TranscodeValue([]interface{}{int8(1), int8(2)}); err != nil {
		t.Fatalf("TranscodeValue: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	h := stream.FromSlice(buf.Bytes())
	out := &captureOutput{}
	if err := Transcode(h, out); err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if len(out.values) != 2 {
		t.Fatalf("got %d documents, want 2", len(out.values))
	}
}
