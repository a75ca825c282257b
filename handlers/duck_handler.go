// Package handlers is made to handle requests
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/missolin/duck-image-tool/config"
	"github.com/missolin/duck-image-tool/duck"
	"github.com/missolin/duck-image-tool/imageio"
	"github.com/missolin/duck-image-tool/media"
	"github.com/missolin/duck-image-tool/models"
	"github.com/missolin/duck-image-tool/stego"
)

var errBadRequest = errors.New("bad request")

type DuckHandler struct {
	cfg *config.Config
}

func NewDuckHandler(cfg *config.Config) *DuckHandler {
	return &DuckHandler{cfg: cfg}
}

func (h *DuckHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Version: duck.Version,
	})
}

// Encode hides the uploaded file in a new duck image.
func (h *DuckHandler) Encode(c *gin.Context) {
	var req models.EncodeRequest
	data, filename, err := h.readUpload(c, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	ext := media.NormalizeExt(filepath.Ext(filename))
	if !h.cfg.ExtensionAllowed(ext) {
		h.fail(c, fmt.Errorf("%w: file type %q is not allowed", errBadRequest, ext))
		return
	}

	format := req.Format
	if format == "" {
		format = h.cfg.CarrierFormat
	}

	result, err := duck.Hide(models.HideOptions{
		Data:     data,
		Ext:      ext,
		Password: req.Password,
		Title:    req.Title,
		Bits:     stego.BitsForCompress(req.Compress),
		Compress: req.Zstd,
		Format:   format,
		MinSide:  h.cfg.MinCanvasSide,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", attachment("duck_payload."+result.Format))
	c.Header("Content-Length", strconv.Itoa(len(result.Image)))
	c.Header("X-Duck-Bits", strconv.Itoa(result.Bits))
	c.Header("X-Duck-Canvas", fmt.Sprintf("%dx%d", result.Side, result.Side))
	c.Header("X-Duck-PSNR", fmt.Sprintf("%.2f", result.PSNR))

	c.Data(http.StatusOK, result.ContentType, result.Image)
}

// Decode recovers the file hidden in an uploaded duck image.
func (h *DuckHandler) Decode(c *gin.Context) {
	var req models.DecodeRequest
	data, _, err := h.readUpload(c, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := duck.Reveal(data, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	filename := "recovered"
	if result.Ext != "" {
		filename += "." + result.Ext
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", attachment(filename))
	c.Header("Content-Length", strconv.Itoa(len(result.Data)))
	c.Header("X-Duck-Ext", result.Ext)
	c.Header("X-Duck-Bits", strconv.Itoa(result.Bits))
	setMediaHeaders(c, result.Media)

	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// Inspect reports carrier capacity without decoding.
func (h *DuckHandler) Inspect(c *gin.Context) {
	data, _, err := h.readUpload(c, nil)
	if err != nil {
		h.fail(c, err)
		return
	}

	report, err := duck.Inspect(data)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// readUpload parses the multipart form, binds its fields into req when
// non-nil and returns the bytes of the "file" part.
func (h *DuckHandler) readUpload(c *gin.Context, req any) ([]byte, string, error) {
	limit := h.cfg.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)
	if err := c.Request.ParseMultipartForm(limit); err != nil {
		return nil, "", fmt.Errorf("%w: failed to parse form: %w", errBadRequest, err)
	}
	if req != nil {
		if err := c.ShouldBind(req); err != nil {
			return nil, "", fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("%w: file is required", errBadRequest)
	}
	defer file.Close()

	if header.Size > limit {
		return nil, "", &stego.Error{
			Kind:    stego.KindCapacity,
			Message: fmt.Sprintf("upload exceeds %d MB", h.cfg.MaxUploadMB),
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, header.Filename, nil
}

// attachment builds a Content-Disposition value with filename quoted or
// encoded as needed.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func setMediaHeaders(c *gin.Context, info *models.MediaInfo) {
	if info == nil {
		return
	}
	c.Header("X-Duck-Media", info.Kind)
	if info.Width > 0 {
		c.Header("X-Duck-Dimensions", fmt.Sprintf("%dx%d", info.Width, info.Height))
	}
	if a := info.Audio; a != nil {
		c.Header("X-Duck-Audio-Format", a.Format)
		c.Header("X-Duck-Sample-Rate", strconv.Itoa(a.SampleRate))
		c.Header("X-Duck-Channels", strconv.Itoa(a.Channels))
		c.Header("X-Duck-Duration", fmt.Sprintf("%.3f", a.Duration))
	}
}

// statusFor maps an error to the HTTP status returned to the client.
func statusFor(err error) int {
	switch stego.KindOf(err) {
	case stego.KindCapacity:
		return http.StatusRequestEntityTooLarge
	case stego.KindPasswordRequired:
		return http.StatusUnauthorized
	case stego.KindWrongPassword:
		return http.StatusForbidden
	case stego.KindHeaderCorrupt, stego.KindDataLengthMismatch:
		return http.StatusUnprocessableEntity
	case stego.KindInvalidBits:
		return http.StatusBadRequest
	}

	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, duck.ErrInvalidOptions),
		errors.Is(err, imageio.ErrUnsupportedFormat),
		errors.Is(err, imageio.ErrDecode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *DuckHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("path", c.FullPath()).
		Msg("request failed")

	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    string(stego.KindOf(err)),
	})
}
