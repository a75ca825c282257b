package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/missolin/duck-image-tool/models"
)

const (
	id3v2HeaderSize    = 10
	frameHeaderSize    = 4
	samplesPerL3Frame  = 1152
	mpeg1VersionID     = 3
	layer3ID           = 1
	minFramesForProbe  = 1
	maxResyncLookahead = 64 * 1024
)

var ErrNotMP3 = errors.New("audio: no MPEG-1 Layer III frames found")

// lookup tables (MPEG1 Layer III only)
var (
	bitrateTable    = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	sampleRateTable = [4]int{44100, 48000, 32000, 0}
	channelModes    = [4]string{"stereo", "joint_stereo", "dual_channel", "mono"}
)

// FrameHeader is a decoded MPEG-1 Layer III frame header.
type FrameHeader struct {
	Bitrate     int
	SampleRate  int
	Padding     bool
	ChannelMode int
	FrameLength int
}

// read syncsafe int for ID3v2 size
func syncSafeToInt(b []byte) int {
	return int(b[0]&0x7F)<<21 |
		int(b[1]&0x7F)<<14 |
		int(b[2]&0x7F)<<7 |
		int(b[3]&0x7F)
}

// skipID3v2 returns the offset of the first byte after an ID3v2 tag, or 0.
func skipID3v2(data []byte) int {
	if len(data) < id3v2HeaderSize || string(data[:3]) != "ID3" {
		return 0
	}
	end := id3v2HeaderSize + syncSafeToInt(data[6:10])
	if data[5]&0x10 != 0 {
		end += id3v2HeaderSize // footer
	}
	return min(end, len(data))
}

// ParseFrameHeader decodes the 4 header bytes at the start of b.
func ParseFrameHeader(b []byte) (*FrameHeader, error) {
	if len(b) < frameHeaderSize {
		return nil, fmt.Errorf("short frame header")
	}
	header := binary.BigEndian.Uint32(b)

	if header&0xFFE00000 != 0xFFE00000 {
		return nil, fmt.Errorf("invalid sync word: 0x%08X", header)
	}
	versionID := int((header >> 19) & 0x3)
	layer := int((header >> 17) & 0x3)
	if versionID != mpeg1VersionID || layer != layer3ID {
		return nil, fmt.Errorf("unsupported MPEG version %d layer %d", versionID, layer)
	}

	bitrate := bitrateTable[(header>>12)&0xF] * 1000
	sampleRate := sampleRateTable[(header>>10)&0x3]
	if bitrate == 0 || sampleRate == 0 {
		return nil, fmt.Errorf("unsupported bitrate or samplerate")
	}
	padding := (header>>9)&0x1 == 1

	return &FrameHeader{
		Bitrate:     bitrate,
		SampleRate:  sampleRate,
		Padding:     padding,
		ChannelMode: int((header >> 6) & 0x3),
		FrameLength: (144*bitrate)/sampleRate + btoi(padding),
	}, nil
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ProbeMP3 walks the frame headers of an MP3 file, skipping any leading
// ID3v2 tag and resynchronising over junk between frames.
func ProbeMP3(data []byte) (*models.AudioMetadata, error) {
	pos := skipID3v2(data)

	var first *FrameHeader
	frames, bitrateSum := 0, 0
	duration := 0.0

	for pos+frameHeaderSize <= len(data) {
		h, err := ParseFrameHeader(data[pos:])
		if err != nil || pos+h.FrameLength > len(data) {
			next := resync(data, pos+1)
			if next < 0 {
				break
			}
			pos = next
			continue
		}
		if first == nil {
			first = h
		}
		frames++
		bitrateSum += h.Bitrate
		duration += float64(samplesPerL3Frame) / float64(h.SampleRate)
		pos += h.FrameLength
	}

	if frames < minFramesForProbe {
		return nil, ErrNotMP3
	}

	channels := 2
	if first.ChannelMode == 3 {
		channels = 1
	}
	return &models.AudioMetadata{
		Format:      "mp3",
		SampleRate:  first.SampleRate,
		Channels:    channels,
		Bitrate:     bitrateSum / frames,
		Frames:      frames,
		Duration:    duration,
		TotalBytes:  len(data),
		ChannelMode: channelModes[first.ChannelMode],
	}, nil
}

// resync finds the next 0xFF sync byte at or after from, or -1.
func resync(data []byte, from int) int {
	if from >= len(data) {
		return -1
	}
	limit := min(len(data), from+maxResyncLookahead)
	i := bytes.IndexByte(data[from:limit], 0xFF)
	if i < 0 {
		if limit == len(data) {
			return -1
		}
		return limit
	}
	return from + i
}
