package yaml

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// Document is one complete, self-contained UTF-8 document yielded by a
// Chunker. Its lifetime is the iteration step only: the byte slice may be
// reused or overwritten by the next call to Next.
type Document struct {
	// Content holds exactly the source bytes of this document (after UTF-8
	// normalization), not including any "---"/"..." marker lines.
	Content []byte
	// Collection is true if the document's first non-comment,
	// non-directive, non-marker token is a block-mapping key, a
	// block-sequence dash, or a flow mapping/sequence opener.
	Collection bool
}

type quoteKind int

const (
	quoteNone quoteKind = iota
	quoteSingle
	quoteDouble
)

// Chunker splits an unbounded, UTF-8 YAML byte stream into a lazy sequence
// of buffered documents, honoring "---"/"..." markers and the quoting/
// indentation contexts in which those markers don't count as separators.
//
// It exists because gopkg.in/yaml.v3's per-value Unmarshal (like the Rust
// crate's serde_yaml Deserializer::from_str before it) parses one
// self-contained buffer at a time; feeding it a whole multi-document stream
// in one call isn't an option, so the chunker buffers one document's worth
// of bytes per step instead of the whole input.
type Chunker struct {
	br *bufio.Reader

	flowDepth         int
	quote             quoteKind
	blockScalar       bool
	blockScalarIndent int

	cur           bytes.Buffer
	curNonEmpty   bool
	tokenSeen     bool
	curCollection bool

	eof bool
}

// NewChunker creates a Chunker reading UTF-8 bytes from r.
func NewChunker(r io.Reader) *Chunker {
	return &Chunker{br: bufio.NewReaderSize(r, 4096)}
}

// Next returns the next document in the stream. It returns (nil, io.EOF)
// once the stream and any final buffered document have been exhausted.
// Any error from the underlying reader other than io.EOF is returned
// unchanged. Next does not validate UTF-8: malformed bytes are passed
// through into Document.Content as read.
func (c *Chunker) Next() (*Document, error) {
	if c.eof {
		return nil, io.EOF
	}

	for {
		line, err := c.br.ReadString('\n')
		if len(line) > 0 {
			if doc, flushed := c.consumeLine(line); flushed {
				return doc, nil
			}
		}
		if err != nil {
			c.eof = true
			if err != io.EOF {
				return nil, err
			}
			if c.curNonEmpty {
				return c.flush(), nil
			}
			return nil, io.EOF
		}
	}
}

// consumeLine feeds one line (including its trailing newline, if any) into
// the chunker's state machine. It returns a flushed document and true if
// this line was a document boundary that closed out a non-empty document.
func (c *Chunker) consumeLine(line string) (*Document, bool) {
	atBoundary := c.quote == quoteNone && c.flowDepth == 0 && !c.blockScalar
	trimmed := strings.TrimRight(line, "\r\n")

	if c.blockScalar {
		indent := leadingSpaces(trimmed)
		if strings.TrimSpace(trimmed) == "" || indent > c.blockScalarIndent {
			c.appendContent(line)
			return nil, false
		}
		c.blockScalar = false
		atBoundary = c.quote == quoteNone && c.flowDepth == 0
	}

	if atBoundary && trimmed == "" {
		c.appendContent(line)
		return nil, false
	}

	if atBoundary && isDirective(trimmed) {
		// Directives belong to the stream, not to any single document's
		// node graph; they're consumed without becoming part of Content.
		return nil, false
	}

	if atBoundary && isDocStartMarker(trimmed) {
		var doc *Document
		flushed := false
		if c.curNonEmpty {
			doc = c.flush()
			flushed = true
		} else {
			c.reset()
		}
		if rest := markerTrailer(trimmed, "---"); rest != "" {
			c.appendContent(rest + "\n")
		}
		return doc, flushed
	}

	if atBoundary && isDocEndMarker(trimmed) {
		if c.curNonEmpty {
			doc := c.flush()
			return doc, true
		}
		return nil, false
	}

	c.appendContent(line)
	c.scanLineState(trimmed)
	if !c.blockScalar && atBoundary && blockScalarIndicator(trimmed) {
		c.blockScalar = true
		c.blockScalarIndent = leadingSpaces(trimmed)
	}
	return nil, false
}

func (c *Chunker) appendContent(s string) {
	if strings.TrimSpace(s) != "" {
		c.curNonEmpty = true
		if !c.tokenSeen && !isCommentOnly(s) {
			c.tokenSeen = true
			c.curCollection = classifyToken(s)
		}
	}
	c.cur.WriteString(s)
}

func (c *Chunker) flush() *Document {
	doc := &Document{Content: append([]byte(nil), c.cur.Bytes()...), Collection: c.curCollection}
	c.reset()
	return doc
}

func (c *Chunker) reset() {
	c.cur.Reset()
	c.curNonEmpty = false
	c.tokenSeen = false
	c.curCollection = false
}

// scanLineState updates quote and flow-bracket tracking for one line,
// carrying state across lines so multi-line quoted scalars and flow
// collections are recognized correctly.
func (c *Chunker) scanLineState(line string) {
	i := 0
	for i < len(line) {
		ch := line[i]
		switch c.quote {
		case quoteDouble:
			if ch == '\\' && i+1 < len(line) {
				i += 2
				continue
			}
			if ch == '"' {
				c.quote = quoteNone
			}
			i++
			continue
		case quoteSingle:
			if ch == '\'' {
				if i+1 < len(line) && line[i+1] == '\'' {
					i += 2
					continue
				}
				c.quote = quoteNone
			}
			i++
			continue
		}

		switch ch {
		case '#':
			if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
				return // rest of line is a comment
			}
		case '"':
			c.quote = quoteDouble
		case '\'':
			c.quote = quoteSingle
		case '{', '[':
			c.flowDepth++
		case '}', ']':
			if c.flowDepth > 0 {
				c.flowDepth--
			}
		}
		i++
	}
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

func isDirective(s string) bool {
	return strings.HasPrefix(s, "%")
}

func isCommentOnly(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " "), "#")
}

func isDocStartMarker(s string) bool {
	return s == "---" || strings.HasPrefix(s, "--- ") || strings.HasPrefix(s, "---\t")
}

func isDocEndMarker(s string) bool {
	return s == "..." || strings.HasPrefix(s, "... ") || strings.HasPrefix(s, "...\t")
}

// markerTrailer returns the text following a "--- " marker on the same
// line, if any, trimmed of its leading separator.
func markerTrailer(s, marker string) string {
	if len(s) <= len(marker) {
		return ""
	}
	return strings.TrimLeft(s[len(marker):], " \t")
}

// blockScalarIndicator reports whether line introduces a literal (|) or
// folded (>) block scalar, i.e. ends (ignoring a chomping/indentation
// indicator and trailing whitespace) with one of those characters.
func blockScalarIndicator(line string) bool {
	s := strings.TrimRight(line, " \t")
	if s == "" {
		return false
	}
	// Strip an optional chomping indicator (+/-) and a single digit
	// explicit indentation indicator, in either order.
	for len(s) > 0 && (s[len(s)-1] == '+' || s[len(s)-1] == '-' || isDigitByte(s[len(s)-1])) {
		s = s[:len(s)-1]
	}
	if s == "" {
		return false
	}
	last := s[len(s)-1]
	return last == '|' || last == '>'
}

func isDigitByte(b byte) bool {
	return b >= '1' && b <= '9'
}

// classifyToken reports whether the first content-bearing line of a
// document opens a collection (block sequence dash, flow mapping/sequence,
// or a block-mapping key), per spec.md §4.6.
func classifyToken(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	trimmed = strings.TrimRight(trimmed, "\r\n")
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return false
	}
	if trimmed == "-" || strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "-\t") {
		return true
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return true
	}
	return hasTopLevelMappingColon(trimmed)
}

// hasTopLevelMappingColon reports whether line contains a ": " or
// line-ending ":" outside of any quoted scalar, which (for a line that
// isn't a sequence dash or flow opener) indicates a block-mapping key.
func hasTopLevelMappingColon(line string) bool {
	quote := quoteNone
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch quote {
		case quoteDouble:
			if ch == '\\' && i+1 < len(line) {
				i++
				continue
			}
			if ch == '"' {
				quote = quoteNone
			}
			continue
		case quoteSingle:
			if ch == '\'' {
				quote = quoteNone
			}
			continue
		}
		switch ch {
		case '"':
			quote = quoteDouble
		case '\'':
			quote = quoteSingle
		case '#':
			return false
		case ':':
			if i == len(line)-1 || line[i+1] == ' ' || line[i+1] == '\t' {
				return true
			}
		}
	}
	return false
}
