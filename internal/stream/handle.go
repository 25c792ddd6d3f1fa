package stream

import "io"

// FusedReader forwards reads to an inner reader until that reader returns
// zero bytes for a non-empty request, at which point it drops the inner
// reader and returns zero forever. As the first half of an io.MultiReader
// chain, it releases the wrapped reader's memory the moment the chain moves
// on to the second reader, rather than waiting for the whole chain to be
// garbage collected.
type FusedReader struct {
	inner io.Reader
}

// NewFusedReader wraps inner in a FusedReader.
func NewFusedReader(inner io.Reader) *FusedReader {
	return &FusedReader{inner: inner}
}

// Read implements io.Reader.
func (f *FusedReader) Read(buf []byte) (int, error) {
	if f.inner == nil {
		return 0, io.EOF
	}
	n, err := f.inner.Read(buf)
	if n == 0 && len(buf) != 0 {
		f.inner = nil
		if err == nil {
			err = io.EOF
		}
	}
	return n, err
}

// Handle is a reusable container for xt's input: either a borrowed slice or
// an owned reader guarded by a CaptureReader. It forms a strict tree —
// handle owns capture, capture owns source — with no shared ownership.
type Handle struct {
	slice  []byte
	hasRdr bool
	rdr    *CaptureReader
}

// FromSlice creates a handle over a borrowed byte slice.
func FromSlice(b []byte) *Handle {
	return &Handle{slice: b}
}

// FromReader creates a handle over an owned reader.
func FromReader(r io.Reader) *Handle {
	return &Handle{hasRdr: true, rdr: NewCaptureReader(r)}
}

// Ref is a transient, scoped borrow of a Handle's input, produced by
// BorrowMut and valid only for the duration of one detection probe. A
// forgotten Ref never corrupts the handle: the next BorrowMut always starts
// again from byte zero.
type Ref struct {
	slice []byte // non-nil (possibly empty) when this ref wraps a slice
	isSl  bool
	rdr   *CaptureReader
}

// IsSlice reports whether this Ref is backed by a plain byte slice rather
// than a reader.
func (rf *Ref) IsSlice() bool {
	return rf.isSl
}

// Prefix returns a prefix of the input. For reader refs not yet exhausted,
// sizeHint is the minimum number of bytes the call should try to capture
// from the source; the result may be smaller (source EOF) or larger (more
// was already captured) than sizeHint. For slice refs and exhausted reader
// refs, the full input is returned regardless of sizeHint.
func (rf *Ref) Prefix(sizeHint int) ([]byte, error) {
	if rf.isSl {
		return rf.slice, nil
	}
	if err := rf.rdr.CaptureUpToSize(sizeHint); err != nil {
		return nil, err
	}
	return rf.rdr.Captured(), nil
}

// Reader returns the underlying CaptureReader for a reader-backed Ref,
// allowing probes that need actual streaming (rather than just a prefix) to
// read through it. It returns nil for a slice-backed Ref.
func (rf *Ref) Reader() io.Reader {
	if rf.isSl {
		return nil
	}
	return rf.rdr
}

// BorrowMut produces a temporary Ref over the handle's input. For a reader
// handle, this rewinds the capture first — rewinding is mandatory before
// every borrow, which is what makes multiple sequential BorrowMut calls each
// see a logical view from byte zero regardless of how much a previous Ref
// consumed.
func (h *Handle) BorrowMut() *Ref {
	if !h.hasRdr {
		return &Ref{slice: h.slice, isSl: true}
	}
	h.rdr.Rewind()
	if h.rdr.IsSourceEOF() {
		return &Ref{slice: h.rdr.Captured(), isSl: true}
	}
	return &Ref{rdr: h.rdr}
}

// ToSlice consumes the handle and returns the entire input as a byte slice,
// buffering a reader input fully if necessary.
func (h *Handle) ToSlice() ([]byte, error) {
	if !h.hasRdr {
		return h.slice, nil
	}
	h.rdr.Rewind()
	if err := h.rdr.CaptureToEnd(); err != nil {
		return nil, err
	}
	return h.rdr.Captured(), nil
}

// Input is a non-reusable, owned view of xt's input, produced by consuming a
// Handle. Format bridges that can stream use the Reader variant; bridges
// that must fully buffer use the Slice variant.
type Input struct {
	slice  []byte
	isSl   bool
	reader io.Reader
}

// IsSlice reports whether this Input is backed by a plain byte slice.
func (in *Input) IsSlice() bool {
	return in.isSl
}

// Slice returns the backing byte slice. It panics if the Input is
// reader-backed; callers should check IsSlice first.
func (in *Input) Slice() []byte {
	if !in.isSl {
		panic("stream: Slice called on a reader-backed Input")
	}
	return in.slice
}

// Reader returns the backing reader. It panics if the Input is
// slice-backed; callers should check IsSlice first.
func (in *Input) Reader() io.Reader {
	if in.isSl {
		panic("stream: Reader called on a slice-backed Input")
	}
	return in.reader
}

// ToInput consumes the handle and returns the input in whichever shape is
// cheapest: a plain slice for slice handles and for reader handles whose
// source has already reached EOF; the raw source reader when nothing was
// captured; or a FusedReader-wrapped capture chained with the live source
// otherwise.
func (h *Handle) ToInput() *Input {
	if !h.hasRdr {
		return &Input{slice: h.slice, isSl: true}
	}

	h.rdr.Rewind()
	sourceEOF := h.rdr.IsSourceEOF()
	captured, source := h.rdr.IntoInner()

	if sourceEOF {
		return &Input{slice: captured, isSl: true}
	}
	if len(captured) == 0 {
		return &Input{reader: source}
	}
	prefix := NewFusedReader(newSliceReader(captured))
	return &Input{reader: io.MultiReader(prefix, source)}
}

// sliceReader is a minimal io.Reader over a byte slice, used instead of
// bytes.Reader so the prefix half of the ToInput chain carries no extra
// seek/size machinery it will never use.
type sliceReader struct {
	b   []byte
	pos int
}

func newSliceReader(b []byte) *sliceReader {
	return &sliceReader{b: b}
}

func (s *sliceReader) Read(buf []byte) (int, error) {
	if s.pos >= len(s.b) {
		return 0, io.EOF
	}
	n := copy(buf, s.b[s.pos:])
	s.pos += n
	return n, nil
}
