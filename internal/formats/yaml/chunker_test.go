package yaml

import (
	"io"
	"strings"
	"testing"
)

func collectDocs(t *testing.T, src string) []*Document {
	t.Helper()
	c := NewChunker(strings.NewReader(src))
	var docs []*Document
	for {
		doc, err := c.Next()
		if err == io.EOF {
			return docs
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		docs = append(docs, doc)
	}
}

func TestChunkerSingleDocument(t *testing.T) {
	docs := collectDocs(t, "key: value\nother: 1\n")
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if !docs[0].Collection {
		t.Fatal("expected a block mapping to be classified as a collection")
	}
}

func TestChunkerMultipleDocumentsWithDashMarkers(t *testing.T) {
	src := "---\nfirst: 1\n---\nsecond: 2\n"
	docs := collectDocs(t, src)
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if strings.TrimSpace(string(docs[0].Content)) != "first: 1" {
		t.Fatalf("got %q", docs[0].Content)
	}
	if strings.TrimSpace(string(docs[1].Content)) != "second: 2" {
		t.Fatalf("got %q", docs[1].Content)
	}
}

func TestChunkerEndMarker(t *testing.T) {
	src := "a: 1\n...\nb: 2\n"
	docs := collectDocs(t, src)
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
}

func TestChunkerScalarDocument(t *testing.T) {
	docs := collectDocs(t, "--- just a scalar\n")
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if docs[0].Collection {
		t.Fatal("expected a bare scalar document not to be classified as a collection")
	}
}

// TestChunkerMarkerInsideDoubleQuote covers spec.md §4.6: a "---" appearing
// inside a quoted scalar must not be treated as a document boundary.
func TestChunkerMarkerInsideDoubleQuote(t *testing.T) {
	src := "key: \"a multi-line value\n---\n  continues here\"\nother: 2\n"
	docs := collectDocs(t, src)
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1 (marker was inside a quoted scalar): %#v", len(docs), docs)
	}
}

// TestChunkerMarkerInsideFlowCollection covers the same rule for a flow
// collection split across lines.
func TestChunkerMarkerInsideFlowCollection(t *testing.T) {
	src := "key: [1, 2,\n---\n3]\nother: 2\n"
	docs := collectDocs(t, src)
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1 (marker was inside a flow collection): %#v", len(docs), docs)
	}
}

// TestChunkerMarkerInsideBlockScalar covers the block-scalar rule: a line
// that merely looks like "---" but is indented under a "|" block scalar is
// part of the scalar's content, not a marker.
func TestChunkerMarkerInsideBlockScalar(t *testing.T) {
	src := "text: |\n  ---\n  still text\nother: 2\n"
	docs := collectDocs(t, src)
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1 (marker was inside a block scalar): %#v", len(docs), docs)
	}
}

// TestChunkerFlowMappingIsCollection covers classification of a flow
// mapping as the first token.
func TestChunkerFlowMappingIsCollection(t *testing.T) {
	docs := collectDocs(t, "{a: 1, b: 2}\n")
	if len(docs) != 1 || !docs[0].Collection {
		t.Fatalf("expected one collection document, got %#v", docs)
	}
}

// TestChunkerSequenceIsCollection covers classification of a block sequence
// as the first token.
func TestChunkerSequenceIsCollection(t *testing.T) {
	docs := collectDocs(t, "- 1\n- 2\n- 3\n")
	if len(docs) != 1 || !docs[0].Collection {
		t.Fatalf("expected one collection document, got %#v", docs)
	}
}

// TestChunkerLaw covers spec.md §8 property 6: every byte of a
// multi-document stream belongs to exactly one document or one marker line,
// and documents are yielded in source order.
func TestChunkerLaw(t *testing.T) {
	src := "---\na: 1\n---\nb: 2\n---\nc: 3\n"
	docs := collectDocs(t, src)
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
	want := []string{"a: 1\n", "b: 2\n", "c: 3\n"}
	for i, doc := range docs {
		if string(doc.Content) != want[i] {
			t.Fatalf("document %d: got %q, want %q", i, doc.Content, want[i])
		}
	}
}
