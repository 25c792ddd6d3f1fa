package stream

import (
	"errors"
	"io"
)

// taggedIOError marks an error as having come from the source reader itself
// rather than from a decode/parse layer built on top of it. Per-format
// InputMatches probes use this distinction to implement spec.md §4.4's
// propagation policy: malformed data is "not matched" and probing continues,
// but a genuine I/O failure is fatal and must not be swallowed — mirroring
// the original crate's `err.kind() == io::ErrorKind::InvalidData` check,
// which Go's decode libraries give no equivalent way to perform by
// inspecting the error value alone.
type taggedIOError struct {
	err error
}

func (e *taggedIOError) Error() string { return e.err.Error() }
func (e *taggedIOError) Unwrap() error { return e.err }

// TagIOErrors wraps r so any error it returns other than io.EOF is
// recognizable by IsIOError as a source-reader failure, not a decode error
// raised by a format library reading through r.
func TagIOErrors(r io.Reader) io.Reader {
	return &ioTaggingReader{r: r}
}

type ioTaggingReader struct {
	r io.Reader
}

func (t *ioTaggingReader) Read(buf []byte) (int, error) {
	n, err := t.r.Read(buf)
	if err != nil && err != io.EOF {
		return n, &taggedIOError{err: err}
	}
	return n, err
}

// IsIOError reports whether err, or something it wraps, was tagged by
// TagIOErrors as a genuine source-reader failure rather than a decode error.
func IsIOError(err error) bool {
	var tagged *taggedIOError
	return errors.As(err, &tagged)
}
