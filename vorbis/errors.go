package vorbis

import (
	"errors"
	"fmt"
)

// Engine result codes from <vorbis/codec.h>. Mirrored here instead of going
// through cgo so the mapping stays testable without linking the engine.
const (
	codeHole      = -3   // OV_HOLE
	codeRead      = -128 // OV_EREAD
	codeFault     = -129 // OV_EFAULT
	codeInval     = -131 // OV_EINVAL
	codeNotVorbis = -132 // OV_ENOTVORBIS
	codeBadHeader = -133 // OV_EBADHEADER
	codeVersion   = -134 // OV_EVERSION
)

// ErrClosed is returned by operations on a decoder whose engine resources
// have already been released.
var ErrClosed = errors.New("decoder is closed")

// Decode-time failure kinds.
var (
	ErrRead            = errors.New("read from stream failed")
	ErrNotVorbis       = errors.New("bitstream does not contain any Vorbis data")
	ErrVersionMismatch = errors.New("vorbis version mismatch")
	ErrBadHeader       = errors.New("invalid Vorbis bitstream header")
	ErrHeadersCorrupt  = errors.New("initial stream headers are corrupt")
	ErrHole            = errors.New("interruption of data")
	ErrCommentFormat   = errors.New("invalid comment format")
	ErrCommentEncoding = errors.New("invalid comment character encoding")
)

// checkCode translates an engine result code into the error taxonomy. Zero is
// success. OV_EFAULT signals heap or stack corruption inside the engine and an
// unknown code a broken engine contract; neither is returnable as a value, so
// both abort.
func checkCode(code int32) error {
	switch code {
	case 0:
		return nil
	case codeNotVorbis:
		return ErrNotVorbis
	case codeVersion:
		return ErrVersionMismatch
	case codeBadHeader:
		return ErrBadHeader
	case codeInval:
		return ErrHeadersCorrupt
	case codeHole:
		return ErrHole
	case codeRead:
		return ErrRead
	case codeFault:
		panic("vorbis: internal engine fault (memory corruption)")
	default:
		panic(fmt.Sprintf("vorbis: unknown engine error code %d", code))
	}
}

// readFailure wraps a stream I/O fault so that errors.Is matches both ErrRead
// and the underlying cause.
func readFailure(cause error) error {
	return fmt.Errorf("%w: %w", ErrRead, cause)
}

// encodingFailure tags a text-decoding fault with what failed to decode.
func encodingFailure(what string) error {
	return fmt.Errorf("%w: %s is not valid UTF-8", ErrCommentEncoding, what)
}
