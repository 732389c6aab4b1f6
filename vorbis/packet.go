package vorbis

/*
#include <vorbis/vorbisfile.h>
*/
import "C"

import (
	"io"
	"iter"
	"log/slog"
	"unsafe"
)

// packetSamples is the capacity of the decode buffer in 16-bit sample slots,
// 4096 bytes per engine read. Fixed at build time; a bigger buffer trades
// latency for call overhead.
const packetSamples = 2048

// Packet is one decoded run of interleaved signed 16-bit samples together
// with the format of the logical bitstream it came from. With two channels
// the samples alternate: left, right, left, right.
type Packet struct {
	Data           []int16
	Channels       int
	Rate           int64
	BitrateUpper   int64
	BitrateNominal int64
	BitrateLower   int64
	BitrateWindow  int64
}

// ReadPacket decodes the next packet. It returns io.EOF at a clean end of
// stream, and ErrRead (wrapping the stream's fault) when the source failed
// mid-decode. After a decode error the engine's state for the current
// bitstream is undefined; seek before pulling again.
func (d *Decoder) ReadPacket() (*Packet, error) {
	if d.closed {
		return nil, ErrClosed
	}
	s := d.state
	buf := make([]int16, packetSamples)

	// 16-bit signed little-endian samples, bitstream index updated in place
	// as the engine crosses chain boundaries.
	n := C.ov_read(s.vf, (*C.char)(unsafe.Pointer(&buf[0])), C.int(len(buf)*2), 0, 2, 1, &s.bitstream)
	switch {
	case n == 0:
		if cause := s.takeReadErr(); cause != nil {
			return nil, readFailure(cause)
		}
		return nil, io.EOF
	case n < 0:
		return nil, checkCode(int32(n))
	}

	info := C.ov_info(s.vf, s.bitstream)
	if info == nil {
		return nil, ErrBadHeader
	}

	pkt := &Packet{
		Data:           buf[:int(n)/2],
		Channels:       int(info.channels),
		Rate:           int64(info.rate),
		BitrateUpper:   int64(info.bitrate_upper),
		BitrateNominal: int64(info.bitrate_nominal),
		BitrateLower:   int64(info.bitrate_lower),
		BitrateWindow:  int64(info.bitrate_window),
	}
	slog.Debug("decoded packet",
		"samples", len(pkt.Data),
		"channels", pkt.Channels,
		"rate", pkt.Rate,
		"bitstream", int(s.bitstream))
	return pkt, nil
}

// Packets returns an iterator over decoded packets. The caller keeps
// ownership of the decoder and remains responsible for Close. The iterator
// ends at a clean end of stream; error items are yielded one by one and do
// not end it, the caller decides whether to keep pulling.
func (d *Decoder) Packets() iter.Seq2[*Packet, error] {
	return func(yield func(*Packet, error) bool) {
		for {
			pkt, err := d.ReadPacket()
			if err == io.EOF {
				return
			}
			if !yield(pkt, err) {
				return
			}
		}
	}
}

// IntoPackets is Packets with ownership: the decoder is closed when the loop
// exits, whether by exhaustion or early break, so the sequence can outlive
// the binding that created the decoder.
func (d *Decoder) IntoPackets() iter.Seq2[*Packet, error] {
	return func(yield func(*Packet, error) bool) {
		defer d.Close()
		for pkt, err := range d.Packets() {
			if !yield(pkt, err) {
				return
			}
		}
	}
}
