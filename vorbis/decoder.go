// Package vorbis decodes Ogg Vorbis bitstreams pulled from any readable,
// seekable byte source. Decoding itself is done by libvorbisfile; this package
// is the safe bridge: it feeds the engine through its callback protocol,
// translates its error codes, and exposes packets and comment metadata through
// Go interfaces.
package vorbis

/*
#cgo pkg-config: vorbisfile
#include <stdint.h>
#include <stdlib.h>
#include <vorbis/vorbisfile.h>

extern size_t vorbisShimRead(void *ptr, size_t size, size_t nmemb, void *datasource);
extern int vorbisShimSeek(void *datasource, ogg_int64_t offset, int whence);
extern long vorbisShimTell(void *datasource);

static int vorbis_shim_open(uintptr_t handle, OggVorbis_File *vf) {
	ov_callbacks cb;
	cb.read_func = vorbisShimRead;
	cb.seek_func = vorbisShimSeek;
	cb.tell_func = vorbisShimTell;
	cb.close_func = NULL;
	return ov_open_callbacks((void *)handle, vf, NULL, 0, cb);
}
*/
import "C"

import (
	"io"
	"iter"
	"log/slog"
	"runtime/cgo"
	"unicode/utf8"
	"unsafe"
)

// decoderState is the engine-facing record behind a Decoder. The
// OggVorbis_File lives on the C heap so its address never changes once
// ov_open_callbacks has seen it. Go-side state is reached from the callbacks
// through a cgo.Handle, never a raw Go pointer.
type decoderState struct {
	vf        *C.OggVorbis_File
	stream    io.ReadSeeker
	handle    cgo.Handle
	bitstream C.int // logical bitstream last reported by the decode loop
	// readErr holds the most recent stream failure observed by the read
	// callback until the packet loop drains it. A second failure before the
	// drain overwrites the first.
	readErr error
}

// takeReadErr drains the pending-error slot.
func (s *decoderState) takeReadErr() error {
	err := s.readErr
	s.readErr = nil
	return err
}

// Decoder decodes an Ogg Vorbis bitstream from a caller-supplied stream. It
// is not safe for concurrent use: packet production mutates the active
// bitstream index that the metadata queries read. Close releases the engine
// resources and must be called when done, unless IntoPackets took over;
// operations on a closed decoder return ErrClosed.
type Decoder struct {
	state  *decoderState
	closed bool
}

// New binds stream to the decoding engine. The engine parses the stream
// headers during the call, so failures here include both structural errors
// (ErrNotVorbis, ErrBadHeader, ...) and ErrRead when the stream itself failed.
func New(stream io.ReadSeeker) (*Decoder, error) {
	state := &decoderState{
		stream: stream,
		vf:     (*C.OggVorbis_File)(C.calloc(1, C.sizeof_OggVorbis_File)),
	}
	state.handle = cgo.NewHandle(state)

	slog.Debug("opening vorbis stream")

	rc := C.vorbis_shim_open(C.uintptr_t(state.handle), state.vf)
	if rc != 0 {
		state.handle.Delete()
		C.free(unsafe.Pointer(state.vf))
		err := checkCode(int32(rc))
		// The callback protocol reports stream failures as end-of-data, so
		// the engine's own code may be misleading; the mailbox has the truth.
		if cause := state.takeReadErr(); cause != nil {
			err = readFailure(cause)
		}
		slog.Debug("vorbis open failed", "code", int32(rc), "error", err)
		return nil, err
	}

	slog.Debug("vorbis stream opened")
	return &Decoder{state: state}, nil
}

// Close releases the engine handle. The engine is torn down exactly once;
// further calls are no-ops.
func (d *Decoder) Close() error {
	if d.closed {
		slog.Debug("vorbis decoder already closed")
		return nil
	}
	d.closed = true

	C.ov_clear(d.state.vf)
	C.free(unsafe.Pointer(d.state.vf))
	d.state.vf = nil
	d.state.handle.Delete()

	slog.Debug("vorbis decoder closed")
	return nil
}

// TimeSeek repositions the decoder to an absolute playback time in seconds.
func (d *Decoder) TimeSeek(seconds float64) error {
	if d.closed {
		return ErrClosed
	}
	rc := C.ov_time_seek(d.state.vf, C.double(seconds))
	if rc != 0 {
		if cause := d.state.takeReadErr(); cause != nil {
			return readFailure(cause)
		}
		return checkCode(int32(rc))
	}
	slog.Debug("vorbis time seek", "seconds", seconds)
	return nil
}

// TimeTell reports the current playback time in seconds. The engine does not
// fail here by contract, but a reported error is still forwarded.
func (d *Decoder) TimeTell() (float64, error) {
	if d.closed {
		return 0, ErrClosed
	}
	v := C.ov_time_tell(d.state.vf)
	if v < 0 {
		return 0, checkCode(int32(v))
	}
	return float64(v), nil
}

// Vendor returns the vendor string of the current logical container.
func (d *Decoder) Vendor() (string, error) {
	if d.closed {
		return "", ErrClosed
	}
	vc := C.ov_comment(d.state.vf, -1)
	if vc == nil || vc.vendor == nil {
		return "", ErrHeadersCorrupt
	}
	vendor := C.GoString(vc.vendor)
	if !utf8.ValidString(vendor) {
		return "", encodingFailure("vendor string")
	}
	return vendor, nil
}

// CommentAt returns the comment at index for the initial logical bitstream.
// The second return is false when index is out of range or the decoder is
// closed.
func (d *Decoder) CommentAt(index int) (Comment, bool) {
	if d.closed {
		return Comment{}, false
	}
	vc := C.ov_comment(d.state.vf, 0)
	if vc == nil || index < 0 || index >= int(vc.comments) {
		return Comment{}, false
	}
	lengths := unsafe.Slice(vc.comment_lengths, int(vc.comments))
	ptrs := unsafe.Slice(vc.user_comments, int(vc.comments))
	raw := unsafe.Slice((*byte)(unsafe.Pointer(ptrs[index])), int(lengths[index]))
	return newComment(raw), true
}

// Comments returns an iterator over the comments of the initial logical
// bitstream in storage order. Every call starts a fresh cursor at the first
// comment; iterating never mutates decoder state.
func (d *Decoder) Comments() iter.Seq[Comment] {
	return func(yield func(Comment) bool) {
		for i := 0; ; i++ {
			c, ok := d.CommentAt(i)
			if !ok || !yield(c) {
				return
			}
		}
	}
}

// GetComment returns the decoded values of every comment whose key equals key
// byte-for-byte, in storage order. The scan aborts at the first comment whose
// key or value cannot be decoded.
func (d *Decoder) GetComment(key string) ([]string, error) {
	keyBytes := []byte(key)
	var values []string
	for c := range d.Comments() {
		match, err := c.HasKey(keyBytes)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}
		v, err := c.Value()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// FoldComments folds fn over every comment of d in storage order, single
// pass, without materializing the comment list.
func FoldComments[T any](d *Decoder, seed T, fn func(T, Comment) T) T {
	for c := range d.Comments() {
		seed = fn(seed, c)
	}
	return seed
}
