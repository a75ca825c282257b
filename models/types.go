// Package models contain needed models
package models

// EncodeRequest represents the form fields of an encode upload
type EncodeRequest struct {
	Password string `form:"password"`
	Title    string `form:"title"`
	Compress int    `form:"compress"`
	Zstd     bool   `form:"zstd"`
	Format   string `form:"format"`
}

// DecodeRequest represents the form fields of a decode upload
type DecodeRequest struct {
	Password string `form:"password"`
}

// ErrorResponse is returned whenever a request fails
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// CapacityReport describes how much a carrier can hold
type CapacityReport struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Watermark  Region      `json:"watermark"`
	Capacities []BitsUsage `json:"capacities"`
}

type Region struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BitsUsage is the payload room at one bit depth
type BitsUsage struct {
	Bits         int  `json:"bits"`
	CapacityBits int  `json:"capacity_bits"`
	MaxPayload   int  `json:"max_payload_bytes"`
	Decodes      bool `json:"decodes,omitempty"`
}

// HideOptions configures one hide call
type HideOptions struct {
	Data     []byte
	Ext      string
	Password string
	Title    string
	Bits     int
	Compress bool
	Format   string
	// MinSide and FixedSide size the canvas; zero means defaults.
	MinSide   int
	FixedSide int
}

// HideResult is the rendered carrier file
type HideResult struct {
	Image       []byte
	Format      string
	ContentType string
	Ext         string
	Bits        int
	Side        int
	StreamBytes int
	PSNR        float64
}

// RevealResult is the recovered payload after all transforms are undone
type RevealResult struct {
	Data        []byte
	Ext         string
	StoredExt   string
	ContentType string
	Bits        int
	Text        string
	Media       *MediaInfo
}

// MediaInfo describes a recovered payload when its format is recognised
type MediaInfo struct {
	Kind   string         `json:"kind"`
	Width  int            `json:"width,omitempty"`
	Height int            `json:"height,omitempty"`
	Audio  *AudioMetadata `json:"audio,omitempty"`
}

// AudioMetadata represents metadata about an audio file
type AudioMetadata struct {
	Format      string  `json:"format"`
	SampleRate  int     `json:"sample_rate"`
	Channels    int     `json:"channels"`
	BitDepth    int     `json:"bit_depth,omitempty"`
	Bitrate     int     `json:"bitrate,omitempty"`
	Frames      int     `json:"frames,omitempty"`
	Duration    float64 `json:"duration"`
	Peak        float64 `json:"peak,omitempty"`
	TotalBytes  int     `json:"total_bytes"`
	ChannelMode string  `json:"channel_mode,omitempty"`
}
