package duck

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missolin/duck-image-tool/imageio"
	"github.com/missolin/duck-image-tool/models"
	"github.com/missolin/duck-image-tool/stego"
)

func TestHideBatchSharesSide(t *testing.T) {
	frames := []models.HideOptions{
		{Data: []byte("small"), Ext: "txt", Title: "Trip"},
		{Data: bytes.Repeat([]byte{0x5A, 0xA5, 0x3C}, 12000), Ext: "bin", Title: "Trip", Password: "pw"},
		{Data: []byte("middle sized frame"), Ext: "txt", Title: "Trip", Bits: 8, Format: "bmp"},
	}

	results, err := HideBatch(frames)
	require.NoError(t, err)
	require.Len(t, results, len(frames))

	// the large frame decides the side for everyone
	single, err := Hide(frames[1])
	require.NoError(t, err)
	assert.Greater(t, single.Side, stego.DefaultMinCanvasSide)

	for i, res := range results {
		assert.Equal(t, single.Side, res.Side, "item %d", i)

		cfg, _, err := imageio.DecodeConfig(res.Image)
		require.NoError(t, err)
		assert.Equal(t, single.Side, cfg.Width)
		assert.Equal(t, single.Side, cfg.Height)

		revealed, err := Reveal(res.Image, frames[i].Password)
		require.NoError(t, err, "item %d", i)
		assert.Equal(t, frames[i].Data, revealed.Data)
		assert.Equal(t, frames[i].Ext, revealed.Ext)
	}
	assert.Equal(t, 8, results[2].Bits)
	assert.Equal(t, "bmp", results[2].Format)
}

func TestHideBatchSingleItemMatchesHide(t *testing.T) {
	opts := models.HideOptions{Data: []byte("only"), Ext: "txt", Title: "Solo"}

	results, err := HideBatch([]models.HideOptions{opts})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, stego.DefaultMinCanvasSide, results[0].Side)
}

func TestHideBatchRejects(t *testing.T) {
	_, err := HideBatch(nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = HideBatch([]models.HideOptions{
		{Data: []byte("ok")},
		{Data: []byte("bad"), Bits: 3},
	})
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.ErrorContains(t, err, "item 2")
}

func TestBatchTitle(t *testing.T) {
	assert.Equal(t, "Trip", BatchTitle("Trip", 0, 1))
	assert.Equal(t, "Trip (1/3)", BatchTitle("Trip", 0, 3))
	assert.Equal(t, "Trip (3/3)", BatchTitle("Trip", 2, 3))
	assert.Equal(t, "(2/2)", BatchTitle("", 1, 2))
}
