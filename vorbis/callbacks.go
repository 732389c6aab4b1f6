package vorbis

/*
#include <vorbis/vorbisfile.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

// The engine drives all stream I/O through these three trampolines, which
// match the ov_callbacks signatures. The datasource argument carries the
// cgo.Handle minted in New, so each entry first recovers the decoder state and
// then delegates to the caller's stream. The engine only ever calls back
// synchronously from inside a Decoder method, which guarantees the handle is
// still live.

//export vorbisShimRead
func vorbisShimRead(ptr unsafe.Pointer, size, nmemb C.size_t, datasource unsafe.Pointer) C.size_t {
	// libvorbisfile reads in 1-byte units. Anything else means the engine
	// protocol changed underneath us and no amount of error mapping helps.
	if size != 1 {
		panic("vorbis: engine requested a read unit larger than one byte")
	}

	state := stateFromHandle(datasource)
	buf := unsafe.Slice((*byte)(ptr), int(nmemb))

	n, err := fillBuffer(state.stream, buf)
	if err != nil {
		// No error channel in the protocol: park the fault and report
		// end-of-data. The packet loop disambiguates via the mailbox.
		state.readErr = err
		return 0
	}
	return C.size_t(n)
}

//export vorbisShimSeek
func vorbisShimSeek(datasource unsafe.Pointer, offset C.ogg_int64_t, whence C.int) C.int {
	state := stateFromHandle(datasource)

	w, ok := seekWhence(int(whence))
	if !ok {
		return -1
	}
	if _, err := state.stream.Seek(int64(offset), w); err != nil {
		// The protocol has no channel for the error detail.
		return -1
	}
	return 0
}

//export vorbisShimTell
func vorbisShimTell(datasource unsafe.Pointer) C.long {
	state := stateFromHandle(datasource)
	return C.long(streamPosition(state.stream))
}

func stateFromHandle(datasource unsafe.Pointer) *decoderState {
	return cgo.Handle(uintptr(datasource)).Value().(*decoderState)
}
