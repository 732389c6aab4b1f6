package player

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vorbio.click/vorbis"
)

// fakeSource serves a scripted packet sequence.
type fakeSource struct {
	packets []*vorbis.Packet
	err     error
}

func (s *fakeSource) ReadPacket() (*vorbis.Packet, error) {
	if len(s.packets) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	pkt := s.packets[0]
	s.packets = s.packets[1:]
	return pkt, nil
}

func TestPacketStreamFill(t *testing.T) {
	src := &fakeSource{packets: []*vorbis.Packet{
		{Data: []int16{0x0102, -1}},
		{Data: []int16{0x7FFF}},
	}}
	stream := &packetStream{decoder: src}

	out := make([]byte, 6)
	n, err := stream.fill(out)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	// Little-endian 16-bit interleave across packet boundaries.
	assert.Equal(t, []byte{0x02, 0x01, 0xFF, 0xFF, 0xFF, 0x7F}, out)
}

func TestPacketStreamFillDrainsToEOF(t *testing.T) {
	src := &fakeSource{packets: []*vorbis.Packet{{Data: []int16{1}}}}
	stream := &packetStream{decoder: src}

	out := make([]byte, 8)
	n, err := stream.fill(out)
	assert.Equal(t, 2, n)
	assert.Equal(t, io.EOF, err)
}

func TestPacketStreamFillCarriesPending(t *testing.T) {
	src := &fakeSource{packets: []*vorbis.Packet{{Data: []int16{1, 2, 3}}}}
	stream := &packetStream{decoder: src}

	out := make([]byte, 4)
	n, err := stream.fill(out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Len(t, stream.pending, 1)

	n, err = stream.fill(out)
	assert.Equal(t, 2, n)
	assert.Equal(t, io.EOF, err)
}

func TestPacketStreamFillSurfacesDecodeError(t *testing.T) {
	cause := errors.New("stream died")
	src := &fakeSource{err: cause}
	stream := &packetStream{decoder: src}

	_, err := stream.fill(make([]byte, 4))
	assert.ErrorIs(t, err, cause)
}

func TestPlayerVolumeValidation(t *testing.T) {
	p := &Player{volume: 1.0}

	require.NoError(t, p.SetVolume(0.5))
	assert.InDelta(t, 0.5, p.volume, 0.001)

	assert.Error(t, p.SetVolume(-0.1))
	assert.Error(t, p.SetVolume(1.5))
}

func TestRenderIntoScalesFinalPartialBuffer(t *testing.T) {
	// The last fill of a stream hands back data together with io.EOF; those
	// samples must still be scaled, or playback ends on a loud blip.
	src := &fakeSource{packets: []*vorbis.Packet{{Data: []int16{0x0100}}}}
	stream := &packetStream{decoder: src}
	p := &Player{volume: 0.5}

	out := []byte{0xAA, 0xAA, 0xAA, 0xAA}
	err := p.renderInto(stream, out)
	assert.Equal(t, io.EOF, err)

	// One sample scaled, the rest zero-padded.
	assert.Equal(t, []byte{0x80, 0x00, 0x00, 0x00}, out)
}

func TestApplyVolume(t *testing.T) {
	p := &Player{volume: 0.5}

	// 0x0100 = 256 halves to 128 = 0x0080.
	out := []byte{0x00, 0x01}
	p.applyVolume(out)
	assert.Equal(t, []byte{0x80, 0x00}, out)
}
