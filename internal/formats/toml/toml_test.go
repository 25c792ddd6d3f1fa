package toml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mistergrinvalds/xt/internal/stream"
	"github.com/mistergrinvalds/xt/internal/xtype"
)

func TestInputMatchesTable(t *testing.T) {
	h := stream.FromSlice([]byte("title = \"hello\"\n[owner]\nname = \"x\"\n"))
	ok, err := InputMatches(h.BorrowMut())
	if err != nil {
		t.Fatalf("InputMatches: %v", err)
	}
	if !ok {
		t.Fatal("expected a well-formed TOML document to match")
	}
}

func TestInputMatchesMalformed(t *testing.T) {
	h := stream.FromSlice([]byte("this is not = = toml::valid"))
	ok, err := InputMatches(h.BorrowMut())
	if err != nil {
		t.Fatalf("InputMatches should not return an error for malformed input: %v", err)
	}
	if ok {
		t.Fatal("expected malformed input not to match")
	}
}

func TestTranscodeSingleDocument(t *testing.T) {
	h := stream.FromSlice([]byte("title = \"hello\"\n"))
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := Transcode(h, w); err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWriterRejectsSecondDocument(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.TranscodeValue(map[string]any{"a": 1}); err != nil {
		t.Fatalf("first TranscodeValue: %v", err)
	}
	err := w.TranscodeValue(map[string]any{"b": 2})
	if err == nil {
		t.Fatal("expected the second document to be rejected")
	}
	xerr, ok := err.(*xtype.Error)
	if !ok {
		t.Fatalf("got error of type %T, want *xtype.Error", err)
	}
	if xerr.Code != xtype.ErrCodeUnsupportedCardinality {
		t.Fatalf("got code %q, want %q", xerr.Code, xtype.ErrCodeUnsupportedCardinality)
	}
}
