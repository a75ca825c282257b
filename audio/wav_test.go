package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missolin/duck-image-tool/models"
)

func makeTone(n int) []int {
	samples := make([]int, n)
	for i := range samples {
		switch i % 4 {
		case 1:
			samples[i] = 8192
		case 3:
			samples[i] = -16384
		}
	}
	return samples
}

func TestEncodeProbeWAV(t *testing.T) {
	meta := &models.AudioMetadata{SampleRate: 8000, Channels: 2}
	wavData, err := EncodeWAV(makeTone(16000), meta)
	require.NoError(t, err)
	require.Equal(t, "RIFF", string(wavData[:4]))
	require.Equal(t, "WAVE", string(wavData[8:12]))

	info, err := ProbeWAV(wavData)
	require.NoError(t, err)
	assert.Equal(t, "wav", info.Format)
	assert.Equal(t, 8000, info.SampleRate)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, 16, info.BitDepth)
	assert.InDelta(t, 1.0, info.Duration, 0.001)
	assert.InDelta(t, 0.5, info.Peak, 0.0001)
	assert.Equal(t, len(wavData), info.TotalBytes)
}

func TestEncodeWAVRequiresFormat(t *testing.T) {
	_, err := EncodeWAV([]int{1, 2}, &models.AudioMetadata{Channels: 1})
	assert.Error(t, err)

	_, err = EncodeWAV([]int{1, 2}, nil)
	assert.Error(t, err)
}

func TestProbeWAVRejectsOtherData(t *testing.T) {
	_, err := ProbeWAV([]byte("definitely not a wave file at all"))
	assert.ErrorIs(t, err, ErrNotWAV)
}

func TestPCM16ToSamples(t *testing.T) {
	samples, err := PCM16ToSamples([]byte{0x01, 0x00, 0xFF, 0xFF, 0x00, 0x80, 0xFF, 0x7F})
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1, -32768, 32767}, samples)

	_, err = PCM16ToSamples([]byte{0x01})
	assert.Error(t, err)
}

func TestPeak(t *testing.T) {
	assert.Zero(t, peak(nil, 16))
	assert.Equal(t, 1.0, peak([]int{-32768}, 16))
	assert.InDelta(t, 0.25, peak([]int{32, -8}, 8), 1e-9)
}
