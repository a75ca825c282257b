// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/missolin/duck-image-tool/imageio"
	"github.com/missolin/duck-image-tool/media"
	"github.com/missolin/duck-image-tool/stego"
)

type Config struct {
	Port              string
	MaxUploadMB       int
	AllowedOrigins    []string
	LogLevel          string
	LogFormat         string
	CarrierFormat     string
	MinCanvasSide     int
	AllowedExtensions map[string]bool
}

const (
	DefaultPort        = "8888"
	DefaultMaxUploadMB = 100
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
)

var DefaultAllowedExtensions = []string{
	"png", "jpg", "jpeg", "bmp", "webp", "gif",
	"mp4", "avi", "mov", "txt", "wav", "mp3",
}

// Load reads the environment, falling back to defaults for unset variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", DefaultPort),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "*")),
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:      strings.ToLower(getenv("LOG_FORMAT", DefaultLogFormat)),
	}

	var err error
	if cfg.MaxUploadMB, err = getInt("MAX_UPLOAD_MB", DefaultMaxUploadMB); err != nil {
		return nil, err
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	if cfg.MinCanvasSide, err = getInt("MIN_CANVAS_SIDE", stego.DefaultMinCanvasSide); err != nil {
		return nil, err
	}
	if cfg.MinCanvasSide <= 0 {
		return nil, fmt.Errorf("MIN_CANVAS_SIDE must be positive, got %d", cfg.MinCanvasSide)
	}

	if cfg.CarrierFormat, err = imageio.NormalizeFormat(getenv("CARRIER_FORMAT", imageio.DefaultFormat)); err != nil {
		return nil, fmt.Errorf("CARRIER_FORMAT: %w", err)
	}

	exts := DefaultAllowedExtensions
	if v := os.Getenv("ALLOWED_EXTENSIONS"); v != "" {
		exts = splitList(v)
	}
	cfg.AllowedExtensions = make(map[string]bool, len(exts))
	for _, ext := range exts {
		cfg.AllowedExtensions[media.NormalizeExt(ext)] = true
	}

	return cfg, nil
}

// MaxUploadBytes is the multipart memory limit.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// ExtensionAllowed reports whether uploads with ext may be hidden.
// An allowlist containing "*" accepts everything.
func (c *Config) ExtensionAllowed(ext string) bool {
	return c.AllowedExtensions["*"] || c.AllowedExtensions[media.NormalizeExt(ext)]
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
