package media

import (
	"fmt"
	"strings"
	"unicode"
)

const defaultVideoExt = "mp4"

var videoExts = map[string]bool{
	"mp4":  true,
	"avi":  true,
	"mov":  true,
	"mkv":  true,
	"webm": true,
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
	"qoi":  "image/qoi",
	"txt":  "text/plain; charset=utf-8",
	"mp4":  "video/mp4",
	"avi":  "video/x-msvideo",
	"mov":  "video/quicktime",
	"mkv":  "video/x-matroska",
	"webm": "video/webm",
	"wav":  "audio/wav",
	"mp3":  "audio/mpeg",
}

// NormalizeExt lowercases ext and strips leading dots.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(ext), "."))
}

// SafeExt reduces an extension read back from a carrier to dot-separated
// runs of letters, digits, '-' and '_', so it can never name a directory
// or climb out of one.
func SafeExt(ext string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '.' || r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, NormalizeExt(ext))

	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' })
	return strings.Join(parts, ".")
}

func IsVideo(ext string) bool {
	return videoExts[NormalizeExt(ext)]
}

// ContentType is the MIME type served for a recovered file.
func ContentType(ext string) string {
	if ct, ok := contentTypes[NormalizeExt(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Pack turns a file into payload bytes plus the extension tag stored in the
// header. Videos become binpng images; compress adds a zstd layer.
func Pack(data []byte, ext string, compress bool) ([]byte, string, error) {
	ext = NormalizeExt(ext)
	out := data

	if IsVideo(ext) {
		png, err := BytesToBinPNG(out, BinPNGWidth)
		if err != nil {
			return nil, "", err
		}
		out = png
		ext += BinPNGSuffix
	}

	if compress {
		z, err := Compress(out)
		if err != nil {
			return nil, "", err
		}
		out = z
		ext += ZstdSuffix
	}

	return out, ext, nil
}

// Unpack reverses Pack using only the stored extension tag. The returned
// extension is passed through SafeExt.
func Unpack(data []byte, storedExt string) ([]byte, string, error) {
	ext := storedExt
	out := data

	if strings.HasSuffix(ext, ZstdSuffix) {
		raw, err := Decompress(out)
		if err != nil {
			return nil, "", err
		}
		out = raw
		ext = strings.TrimSuffix(ext, ZstdSuffix)
	}

	if strings.HasSuffix(ext, BinPNGSuffix) {
		raw, err := BinPNGToBytes(out)
		if err != nil {
			return nil, "", fmt.Errorf("failed to unpack %q payload: %w", storedExt, err)
		}
		out = raw
		ext = strings.TrimSuffix(ext, BinPNGSuffix)
		if NormalizeExt(ext) == "" {
			ext = defaultVideoExt
		}
	}

	return out, SafeExt(ext), nil
}
