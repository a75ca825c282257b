// Package audio inspects and produces the audio payloads users hide in ducks.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/missolin/duck-image-tool/models"
)

const (
	PCMFormat      = 1
	DefaultDepth   = 16
	bytesPerSample = 2
)

var ErrNotWAV = errors.New("audio: not a RIFF/WAVE file")

// ProbeWAV reads the format chunk and PCM samples of a WAV file.
func ProbeWAV(data []byte) (*models.AudioMetadata, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		return nil, ErrNotWAV
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV samples: %w", err)
	}

	channels := int(decoder.NumChans)
	sampleRate := int(decoder.SampleRate)
	duration := 0.0
	if sampleRate > 0 {
		duration = float64(len(buf.Data)/channels) / float64(sampleRate)
	}

	return &models.AudioMetadata{
		Format:     "wav",
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   int(decoder.BitDepth),
		Duration:   duration,
		Peak:       peak(buf.Data, int(decoder.BitDepth)),
		TotalBytes: len(data),
	}, nil
}

// peak is the largest absolute sample as a fraction of full scale.
func peak(samples []int, bitDepth int) float64 {
	if bitDepth <= 0 || len(samples) == 0 {
		return 0
	}
	largest := 0
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		largest = max(largest, s)
	}
	fullScale := float64(int(1) << (bitDepth - 1))
	return min(float64(largest)/fullScale, 1)
}

// PCM16ToSamples splits little-endian 16-bit PCM into signed samples.
func PCM16ToSamples(pcm []byte) ([]int, error) {
	if len(pcm)%bytesPerSample != 0 {
		return nil, fmt.Errorf("PCM data length must be even for 16-bit samples")
	}

	samples := make([]int, len(pcm)/bytesPerSample)
	for i := range samples {
		samples[i] = int(int16(uint16(pcm[i*2]) | uint16(pcm[i*2+1])<<8))
	}
	return samples, nil
}

// EncodeWAV wraps interleaved samples into a PCM WAV file. BitDepth defaults
// to 16 when meta leaves it unset.
func EncodeWAV(samples []int, meta *models.AudioMetadata) ([]byte, error) {
	if meta == nil || meta.SampleRate <= 0 || meta.Channels <= 0 {
		return nil, fmt.Errorf("sample rate and channel count are required")
	}
	depth := meta.BitDepth
	if depth == 0 {
		depth = DefaultDepth
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: meta.Channels,
			SampleRate:  meta.SampleRate,
		},
		Data:           samples,
		SourceBitDepth: depth,
	}

	// wav.NewEncoder needs an io.WriteSeeker to patch chunk sizes on Close
	tempFile, err := os.CreateTemp("", "duck_*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	encoder := wav.NewEncoder(tempFile, meta.SampleRate, depth, meta.Channels, PCMFormat)
	if err := encoder.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to close WAV encoder: %w", err)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind WAV data: %w", err)
	}
	wavData, err := io.ReadAll(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV data: %w", err)
	}
	return wavData, nil
}
