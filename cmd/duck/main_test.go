package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missolin/duck-image-tool/imageio"
	"github.com/missolin/duck-image-tool/stego"
)

func ptr[T any](v T) *T { return &v }

func newHideArgs(input, output string) *HideArgs {
	return &HideArgs{
		input:      ptr([]string{input}),
		output:     ptr(output),
		password:   ptr(""),
		title:      ptr(""),
		bits:       ptr(2),
		zstd:       ptr(false),
		format:     ptr("png"),
		pcm:        ptr(false),
		sampleRate: ptr(44100),
		channels:   ptr(2),
	}
}

func TestHideRevealFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(input, []byte("quack\n"), 0o644))

	args := newHideArgs(input, filepath.Join(dir, "duck.qoi"))
	args.password = ptr("pw")
	args.bits = ptr(6)
	args.zstd = ptr(true)
	args.format = ptr("qoi")

	var out bytes.Buffer
	require.NoError(t, hide(args, &out))
	assert.Contains(t, out.String(), `"txt.zst"`)
	assert.Contains(t, out.String(), "k=6")

	out.Reset()
	base := filepath.Join(dir, "back")
	require.NoError(t, reveal(&RevealArgs{
		input:    ptr(filepath.Join(dir, "duck.qoi")),
		output:   ptr(base),
		password: ptr("pw"),
	}, &out))

	got, err := os.ReadFile(base + ".txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("quack\n"), got)
	assert.Contains(t, out.String(), "quack")

	out.Reset()
	require.NoError(t, inspect(&InspectArgs{input: ptr(filepath.Join(dir, "duck.qoi"))}, &out))
	assert.Contains(t, out.String(), "Image: 128x128, watermark region 51x10")
	assert.Contains(t, out.String(), "k=6")
}

func TestHidePCM(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tone.raw")
	pcm := make([]byte, 8000*2)
	for i := 0; i < len(pcm); i += 4 {
		pcm[i+1] = 0x40
	}
	require.NoError(t, os.WriteFile(input, pcm, 0o644))

	args := newHideArgs(input, filepath.Join(dir, "duck.png"))
	args.pcm = ptr(true)
	args.sampleRate = ptr(8000)
	args.channels = ptr(1)

	var out bytes.Buffer
	require.NoError(t, hide(args, &out))
	assert.Contains(t, out.String(), `"wav"`)

	out.Reset()
	base := filepath.Join(dir, "clip")
	require.NoError(t, reveal(&RevealArgs{
		input:    ptr(filepath.Join(dir, "duck.png")),
		output:   ptr(base),
		password: ptr(""),
	}, &out))
	assert.Contains(t, out.String(), "wav audio: 8000 Hz, 1 ch, 1.00s")

	_, err := os.Stat(base + ".wav")
	assert.NoError(t, err)
}

func TestRevealWrongPassword(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "secret.bin")
	require.NoError(t, os.WriteFile(input, []byte{1, 2, 3}, 0o644))

	args := newHideArgs(input, filepath.Join(dir, "duck.png"))
	args.password = ptr("right")
	args.bits = ptr(8)
	require.NoError(t, hide(args, &bytes.Buffer{}))

	err := reveal(&RevealArgs{
		input:    ptr(filepath.Join(dir, "duck.png")),
		output:   ptr(filepath.Join(dir, "out")),
		password: ptr("wrong"),
	}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "Wrong password")
}

func TestHideMissingInput(t *testing.T) {
	err := hide(newHideArgs(filepath.Join(t.TempDir(), "nope"), ""), &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateBits(t *testing.T) {
	for _, k := range []string{"2", "6", "8"} {
		assert.NoError(t, validateBits([]string{k}), k)
	}
	for _, k := range []string{"1", "3", "7", "9", "x"} {
		assert.Error(t, validateBits([]string{k}), k)
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "duck_payload.png", outputName("", "png", 0, 1))
	assert.Equal(t, "duck_payload_2.qoi", outputName("", "qoi", 1, 3))
	assert.Equal(t, "out/trip_3.bmp", outputName("out/trip.bmp", "bmp", 2, 3))
	assert.Equal(t, "trip.png", outputName("trip.png", "png", 0, 1))
}

func TestHideBatchFiles(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for i, body := range [][]byte{[]byte("one"), bytes.Repeat([]byte("two "), 9000), []byte("three")} {
		path := filepath.Join(dir, []string{"a.txt", "b.log", "c.txt"}[i])
		require.NoError(t, os.WriteFile(path, body, 0o644))
		inputs = append(inputs, path)
	}

	args := newHideArgs("", filepath.Join(dir, "trip.png"))
	args.input = ptr(inputs)
	args.title = ptr("Trip")

	var out bytes.Buffer
	require.NoError(t, hide(args, &out))

	var sides []string
	for i, want := range []string{"one", "", "three"} {
		img := filepath.Join(dir, fmt.Sprintf("trip_%d.png", i+1))
		require.FileExists(t, img)

		var report bytes.Buffer
		require.NoError(t, inspect(&InspectArgs{input: ptr(img)}, &report))
		sides = append(sides, strings.SplitN(report.String(), ",", 2)[0])

		base := filepath.Join(dir, fmt.Sprintf("back_%d", i+1))
		require.NoError(t, reveal(&RevealArgs{input: ptr(img), output: ptr(base), password: ptr("")}, &bytes.Buffer{}))
		if want != "" {
			got, err := os.ReadFile(base + ".txt")
			require.NoError(t, err)
			assert.Equal(t, want, string(got))
		}
	}
	assert.Equal(t, sides[0], sides[1])
	assert.Equal(t, sides[1], sides[2])
	assert.NotEqual(t, "Image: 128x128", sides[0])
}

func TestRevealStaysInOutputDir(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	c := stego.NewCanvas(64)
	require.NoError(t, stego.EncodeInto(c, []byte("boo"), "", "/../../x", 2))
	carrier, err := imageio.Encode(c, "png")
	require.NoError(t, err)
	img := filepath.Join(dir, "duck.png")
	require.NoError(t, os.WriteFile(img, carrier, 0o644))

	base := filepath.Join(outDir, "r")
	require.NoError(t, reveal(&RevealArgs{input: ptr(img), output: ptr(base), password: ptr("")}, &bytes.Buffer{}))

	got, err := os.ReadFile(base + ".x")
	require.NoError(t, err)
	assert.Equal(t, []byte("boo"), got)
	assert.NoFileExists(t, filepath.Join(dir, "x"))
}
