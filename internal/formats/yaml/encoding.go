package yaml

import (
	"errors"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// DetectLen is the number of leading bytes Detect needs to see to
// distinguish every encoding in the table below, per YAML 1.2's encoding
// discovery rules.
const DetectLen = 4

// Encoding identifies one of the character encodings YAML 1.2 permits.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16BE
	EncodingUTF16BEBOM
	EncodingUTF16LE
	EncodingUTF16LEBOM
	EncodingUTF32BE
	EncodingUTF32BEBOM
	EncodingUTF32LE
	EncodingUTF32LEBOM
)

// Detect inspects up to DetectLen leading bytes of a YAML stream and
// reports its encoding, per the table in spec.md §4.5. prefix may be
// shorter than DetectLen if the stream itself is shorter; detection still
// proceeds on whatever is available, matching higher-priority (longer,
// BOM-marked) patterns only when enough bytes are present to rule out a
// false match.
func Detect(prefix []byte) Encoding {
	b := func(i int) (byte, bool) {
		if i < len(prefix) {
			return prefix[i], true
		}
		return 0, false
	}
	b0, ok0 := b(0)
	b1, ok1 := b(1)
	b2, ok2 := b(2)
	b3, ok3 := b(3)

	switch {
	case ok0 && ok1 && ok2 && ok3 && b0 == 0x00 && b1 == 0x00 && b2 == 0xFE && b3 == 0xFF:
		return EncodingUTF32BEBOM
	case ok0 && ok1 && ok2 && ok3 && b0 == 0xFF && b1 == 0xFE && b2 == 0x00 && b3 == 0x00:
		return EncodingUTF32LEBOM
	case ok0 && ok1 && b0 == 0xFE && b1 == 0xFF:
		return EncodingUTF16BEBOM
	case ok0 && ok1 && b0 == 0xFF && b1 == 0xFE:
		// The UTF-32LE-with-BOM case above already claimed "FF FE 00 00";
		// anything else starting with "FF FE" is UTF-16LE with a BOM.
		return EncodingUTF16LEBOM
	case ok0 && ok1 && ok2 && b0 == 0xEF && b1 == 0xBB && b2 == 0xBF:
		return EncodingUTF8BOM
	case ok0 && ok1 && ok2 && b0 == 0x00 && b1 == 0x00 && b2 == 0x00:
		return EncodingUTF32BE
	case ok0 && ok1 && ok2 && ok3 && b1 == 0x00 && b2 == 0x00 && b3 == 0x00:
		return EncodingUTF32LE
	case ok0 && ok1 && b0 == 0x00:
		return EncodingUTF16BE
	case ok0 && ok1 && b1 == 0x00:
		return EncodingUTF16LE
	default:
		return EncodingUTF8
	}
}

// NewReader wraps r, decoding it from enc to UTF-8 and stripping a leading
// byte order mark, if the encoding expects one. For plain bom-less UTF-8 it
// returns r unchanged, since no transcoding is needed.
//
// The returned reader is robust to partial code units at buffer boundaries:
// for UTF-16/32 this is handled by golang.org/x/text/transform's internal
// carry-over buffering, and for UTF-8-with-BOM it only ever needs to skip a
// fixed 3-byte prefix.
func (e Encoding) NewReader(r io.Reader) io.Reader {
	switch e {
	case EncodingUTF8:
		return r
	case EncodingUTF8BOM:
		return &skipReader{r: r, skip: 3}
	case EncodingUTF16BE:
		return transcoded(transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()))
	case EncodingUTF16BEBOM:
		return transcoded(transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()))
	case EncodingUTF16LE:
		return transcoded(transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()))
	case EncodingUTF16LEBOM:
		return transcoded(transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()))
	case EncodingUTF32BE:
		return transcoded(transform.NewReader(r, utf32.UTF32(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()))
	case EncodingUTF32BEBOM:
		return transcoded(transform.NewReader(r, utf32.UTF32(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()))
	case EncodingUTF32LE:
		return transcoded(transform.NewReader(r, utf32.UTF32(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()))
	case EncodingUTF32LEBOM:
		return transcoded(transform.NewReader(r, utf32.UTF32(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()))
	default:
		return r
	}
}

// encodingError marks an error as having come from the UTF-*N*-to-UTF-8
// transcoding layer itself — a missing expected BOM, an invalid code unit —
// as distinct from a decode error the YAML chunker or parser raises once it
// has clean UTF-8 bytes in hand. yaml.go uses this to produce
// xtype.ErrCodeUnsupportedEncoding instead of xtype.ErrCodeInvalidData.
type encodingError struct {
	err error
}

func (e *encodingError) Error() string { return e.err.Error() }
func (e *encodingError) Unwrap() error { return e.err }

// transcoded wraps r (a golang.org/x/text/transform reader decoding one of
// the UTF-*N* variants) so any error it returns other than io.EOF is
// recognizable by isEncodingError.
func transcoded(r io.Reader) io.Reader {
	return &transcodingReader{r: r}
}

type transcodingReader struct {
	r io.Reader
}

func (t *transcodingReader) Read(buf []byte) (int, error) {
	n, err := t.r.Read(buf)
	if err != nil && err != io.EOF {
		return n, &encodingError{err: err}
	}
	return n, err
}

// isEncodingError reports whether err, or something it wraps, was tagged by
// transcoded as a UTF-*N* transcoding failure.
func isEncodingError(err error) bool {
	var tagged *encodingError
	return errors.As(err, &tagged)
}

// skipReader discards the first skip bytes of r, then forwards reads
// unchanged. Used only for the fixed-width UTF-8 BOM, which needs no actual
// character transcoding.
type skipReader struct {
	r    io.Reader
	skip int
}

func (s *skipReader) Read(buf []byte) (int, error) {
	for s.skip > 0 {
		tmp := make([]byte, s.skip)
		n, err := s.r.Read(tmp)
		s.skip -= n
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
	}
	return s.r.Read(buf)
}
