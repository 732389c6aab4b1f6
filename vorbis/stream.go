package vorbis

import (
	"errors"
	"io"
	"syscall"
)

// fillBuffer performs one logical read from r on behalf of the engine,
// retrying interrupted reads. Partial reads are surfaced as-is; the engine
// issues follow-up reads itself. io.EOF is a clean end of stream and reports
// (0, nil); any other failure reports (0, err) for the caller to park in the
// pending-error slot.
func fillBuffer(r io.Reader, buf []byte) (int, error) {
	for {
		n, err := r.Read(buf)
		if n > 0 {
			// Defer any accompanying error; the engine will call again and
			// the reader reports it on the next read.
			return n, nil
		}
		switch {
		case err == nil, errors.Is(err, io.EOF):
			// Nothing read and nothing broken: end of data.
			return 0, nil
		case errors.Is(err, syscall.EINTR):
			// Transient interruption; retry.
		default:
			return 0, err
		}
	}
}

// seekWhence maps the engine's SEEK_SET/SEEK_CUR/SEEK_END code to an
// io.Seeker whence value.
func seekWhence(code int) (int, bool) {
	switch code {
	case 0:
		return io.SeekStart, true
	case 1:
		return io.SeekCurrent, true
	case 2:
		return io.SeekEnd, true
	}
	return 0, false
}

// streamPosition reports the current offset of s via a zero-length relative
// seek, or -1 when the stream cannot tell.
func streamPosition(s io.Seeker) int64 {
	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return pos
}
