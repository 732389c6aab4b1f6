// Package wavout writes decoded vorbis packets as a 16-bit PCM WAV stream.
package wavout

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"vorbio.click/vorbis"
)

// Writer encodes packets into a WAV container. The format is fixed by the
// first packet; a chained stream that changes channel count or rate mid-way
// cannot be represented in a single WAV file and is rejected.
type Writer struct {
	enc     *wav.Encoder
	format  *audio.Format
	samples int
}

// NewWriter starts a WAV stream on out with the given packet format.
func NewWriter(out io.WriteSeeker, channels int, rate int64) *Writer {
	slog.Debug("starting WAV output", "channels", channels, "rate", rate)
	return &Writer{
		enc: wav.NewEncoder(out, int(rate), 16, channels, 1),
		format: &audio.Format{
			NumChannels: channels,
			SampleRate:  int(rate),
		},
	}
}

// WritePacket appends one packet's interleaved samples.
func (w *Writer) WritePacket(p *vorbis.Packet) error {
	if p.Channels != w.format.NumChannels || int(p.Rate) != w.format.SampleRate {
		return fmt.Errorf("stream format changed mid-decode: %dch/%dHz -> %dch/%dHz",
			w.format.NumChannels, w.format.SampleRate, p.Channels, p.Rate)
	}

	data := make([]int, len(p.Data))
	for i, s := range p.Data {
		data[i] = int(s)
	}

	buf := &audio.IntBuffer{
		Format:         w.format,
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := w.enc.Write(buf); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	w.samples += len(p.Data)
	return nil
}

// Samples reports the number of interleaved samples written so far.
func (w *Writer) Samples() int {
	return w.samples
}

// Close finalizes the RIFF header. Required for a playable file.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finalize wav file: %w", err)
	}
	slog.Debug("WAV output finalized", "samples", w.samples)
	return nil
}
