// Package player plays a decoded vorbis packet stream through the default
// output device via malgo.
package player

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gen2brain/malgo"

	"vorbio.click/vorbis"
)

// Player owns a malgo context for the duration of one or more playbacks.
type Player struct {
	ctx    *malgo.AllocatedContext
	volume float32
	mutex  sync.RWMutex
	closed bool
}

// NewPlayer initializes the audio context.
func NewPlayer() (*Player, error) {
	slog.Debug("initializing audio context")

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		slog.Debug("malgo internal", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("initialize audio context: %w", err)
	}

	slog.Debug("audio context initialized")
	return &Player{ctx: ctx, volume: 1.0}, nil
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *Player) SetVolume(volume float32) error {
	if volume < 0.0 || volume > 1.0 {
		return fmt.Errorf("invalid volume: %f (must be 0.0-1.0)", volume)
	}
	p.mutex.Lock()
	p.volume = volume
	p.mutex.Unlock()
	return nil
}

// Play decodes d to the end and plays it on the default output device. The
// stream format is taken from the first packet; ctx cancels playback early.
// The decoder stays open and owned by the caller.
func (p *Player) Play(ctx context.Context, d *vorbis.Decoder) error {
	p.mutex.RLock()
	if p.closed {
		p.mutex.RUnlock()
		return fmt.Errorf("player is closed")
	}
	p.mutex.RUnlock()

	first, err := d.ReadPacket()
	if err == io.EOF {
		slog.Debug("nothing to play, stream is empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode first packet: %w", err)
	}

	stream := &packetStream{decoder: d, pending: first.Data}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(first.Channels)
	deviceConfig.SampleRate = uint32(first.Rate)
	deviceConfig.Alsa.NoMMap = 1

	slog.Debug("playback device configuration",
		"channels", first.Channels,
		"sample_rate", first.Rate)

	done := make(chan error, 1)
	var once sync.Once
	finish := func(err error) {
		once.Do(func() { done <- err })
	}

	onSamples := func(pOutput, _ []byte, framecount uint32) {
		err := p.renderInto(stream, pOutput)
		if err == io.EOF {
			finish(nil)
		} else if err != nil {
			finish(err)
		}
	}

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSamples})
	if err != nil {
		return fmt.Errorf("initialize playback device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}
	defer device.Stop()

	slog.Debug("playback started")

	select {
	case err := <-done:
		slog.Debug("playback finished", "error", err)
		return err
	case <-ctx.Done():
		slog.Debug("playback cancelled")
		return ctx.Err()
	}
}

// renderInto fills out from the stream, zero-pads the unfilled tail and scales
// the filled samples by the current volume. Volume covers the final partial
// buffer too: the last fill of a stream returns data together with io.EOF.
func (p *Player) renderInto(stream *packetStream, out []byte) error {
	n, err := stream.fill(out)
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	p.applyVolume(out[:n])
	return err
}

func (p *Player) applyVolume(out []byte) {
	p.mutex.RLock()
	volume := p.volume
	p.mutex.RUnlock()
	if volume == 1.0 {
		return
	}
	for i := 0; i+1 < len(out); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(out[i:]))
		sample = int16(float32(sample) * volume)
		binary.LittleEndian.PutUint16(out[i:], uint16(sample))
	}
}

// Close releases the audio context.
func (p *Player) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.ctx.Uninit(); err != nil {
		return fmt.Errorf("uninitialize audio context: %w", err)
	}
	p.ctx.Free()
	slog.Debug("audio context closed")
	return nil
}

// packetSource is the slice of the decoder the playback path needs; it keeps
// the byte plumbing testable without an engine.
type packetSource interface {
	ReadPacket() (*vorbis.Packet, error)
}

// packetStream adapts the decoder's packet pull into the byte fills the device
// callback wants. Samples stay 16-bit little-endian interleaved.
type packetStream struct {
	decoder packetSource
	pending []int16
}

// fill copies decoded samples into out, pulling packets as needed. It returns
// the bytes written and io.EOF once the stream is fully drained.
func (s *packetStream) fill(out []byte) (int, error) {
	written := 0
	for written+1 < len(out) {
		if len(s.pending) == 0 {
			pkt, err := s.decoder.ReadPacket()
			if err != nil {
				return written, err
			}
			s.pending = pkt.Data
			continue
		}
		sample := s.pending[0]
		s.pending = s.pending[1:]
		binary.LittleEndian.PutUint16(out[written:], uint16(sample))
		written += 2
	}
	return written, nil
}
