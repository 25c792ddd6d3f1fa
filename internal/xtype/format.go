// Package xtype holds the small set of types shared by xt's root package and
// every per-format bridge under internal/formats: the Format enum, the
// Output interface each bridge's sink implements, and the Error type used to
// distinguish the error kinds spec.md §7 requires. Keeping these in their
// own package lets internal/formats/* depend on them without importing the
// root xt package, avoiding an import cycle.
package xtype

// Format is the closed set of serialization formats xt translates between.
type Format int

const (
	// FormatJSON is RFC 8259 JSON. Binary: no. Streams from a reader: yes.
	// Multi-document: yes.
	FormatJSON Format = iota
	// FormatMsgpack is MessagePack. Binary: yes. Streams from a reader: yes.
	// Multi-document: yes.
	FormatMsgpack
	// FormatTOML is TOML. Binary: no. Streams from a reader: no (must
	// buffer). Multi-document: no.
	FormatTOML
	// FormatYAML is YAML 1.2. Binary: no. Streams from a reader: via the
	// chunker. Multi-document: yes.
	FormatYAML
)

// String returns the display name used in CLI output and error messages.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "JSON"
	case FormatMsgpack:
		return "MessagePack"
	case FormatTOML:
		return "TOML"
	case FormatYAML:
		return "YAML"
	default:
		return "unknown"
	}
}

// AllowsMultipleDocuments reports whether the format can carry more than one
// top-level document in a single stream.
func (f Format) AllowsMultipleDocuments() bool {
	return f != FormatTOML
}

// Output is implemented by each format's sink. A Translator drives exactly
// one Output, chosen at construction from the target format.
//
// Go has no common streaming-event interface shared by the json/yaml/toml/
// msgpack codec libraries the way Rust's serde gives every format a
// Deserializer/Serializer pair, so the transcoding bridge works through a
// decoded generic value rather than a raw event stream — see DESIGN.md's
// "Open Question decisions" for the rationale.
type Output interface {
	// TranscodeValue encodes one decoded document as a new output document.
	TranscodeValue(v any) error
	// Flush flushes any buffered output.
	Flush() error
}
