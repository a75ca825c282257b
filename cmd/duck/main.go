package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/akamensky/argparse"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/missolin/duck-image-tool/audio"
	"github.com/missolin/duck-image-tool/duck"
	"github.com/missolin/duck-image-tool/models"
)

func main() {
	parser := argparse.NewParser("duck", "Hide files in duck images")
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "Debug logging"})
	hideCommand, hideArgs := initHideCommand(parser)
	revealCommand, revealArgs := initRevealCommand(parser)
	inspectCommand, inspectArgs := initInspectCommand(parser)

	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(2)
	}
	setupLogging(*verbose)

	var err error
	switch {
	case hideCommand.Happened():
		err = hide(hideArgs, os.Stdout)
	case revealCommand.Happened():
		err = reveal(revealArgs, os.Stdout)
	case inspectCommand.Happened():
		err = inspect(inspectArgs, os.Stdout)
	}
	if err != nil {
		log.Error().Err(err).Msg("duck failed")
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func readHideInput(path string, args *HideArgs) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	if !*args.pcm {
		return data, filepath.Ext(path), nil
	}

	samples, err := audio.PCM16ToSamples(data)
	if err != nil {
		return nil, "", err
	}
	data, err = audio.EncodeWAV(samples, &models.AudioMetadata{
		SampleRate: *args.sampleRate,
		Channels:   *args.channels,
		BitDepth:   audio.DefaultDepth,
	})
	if err != nil {
		return nil, "", err
	}
	return data, "wav", nil
}

// outputName numbers outputs when more than one image is written:
// duck.png becomes duck_1.png, duck_2.png, ...
func outputName(output, format string, i, n int) string {
	if output == "" {
		output = "duck_payload." + format
	}
	if n <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(output, ext), i+1, ext)
}

func hide(args *HideArgs, out io.Writer) error {
	inputs := *args.input
	items := make([]models.HideOptions, len(inputs))
	for i, path := range inputs {
		data, ext, err := readHideInput(path, args)
		if err != nil {
			return err
		}
		items[i] = models.HideOptions{
			Data:     data,
			Ext:      ext,
			Password: *args.password,
			Title:    *args.title,
			Bits:     *args.bits,
			Compress: *args.zstd,
			Format:   *args.format,
		}
	}

	var results []*models.HideResult
	if len(items) == 1 {
		result, err := duck.Hide(items[0])
		if err != nil {
			return err
		}
		results = append(results, result)
	} else {
		var err error
		if results, err = duck.HideBatch(items); err != nil {
			return err
		}
	}

	for i, result := range results {
		output := outputName(*args.output, result.Format, i, len(results))
		if err := os.WriteFile(output, result.Image, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(out, "Hid %s as %q in %s (%dx%d, k=%d, PSNR %.2f dB)\n",
			humanize.Bytes(uint64(len(items[i].Data))), result.Ext, output,
			result.Side, result.Side, result.Bits, result.PSNR)
	}
	return nil
}

func reveal(args *RevealArgs, out io.Writer) error {
	img, err := os.ReadFile(*args.input)
	if err != nil {
		return err
	}

	result, err := duck.Reveal(img, *args.password)
	if err != nil {
		return err
	}

	output := *args.output
	if result.Ext != "" {
		output += "." + result.Ext
	}
	if err := os.WriteFile(output, result.Data, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(out, "Recovered %s to %s (k=%d)\n", humanize.Bytes(uint64(len(result.Data))), output, result.Bits)
	if result.Text != "" {
		fmt.Fprintln(out, strings.TrimRight(result.Text, "\n"))
	}
	if m := result.Media; m != nil && m.Audio != nil {
		fmt.Fprintf(out, "%s audio: %d Hz, %d ch, %.2fs\n", m.Audio.Format, m.Audio.SampleRate, m.Audio.Channels, m.Audio.Duration)
	} else if m != nil && m.Width > 0 {
		fmt.Fprintf(out, "image: %dx%d\n", m.Width, m.Height)
	}
	return nil
}

func inspect(args *InspectArgs, out io.Writer) error {
	img, err := os.ReadFile(*args.input)
	if err != nil {
		return err
	}

	report, err := duck.Inspect(img)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Image: %dx%d, watermark region %dx%d\n",
		report.Width, report.Height, report.Watermark.Width, report.Watermark.Height)
	for _, c := range report.Capacities {
		marker := ""
		if c.Decodes {
			marker = "  <- header found"
		}
		fmt.Fprintf(out, "  k=%d: %s bits, up to %s payload%s\n",
			c.Bits, humanize.Comma(int64(c.CapacityBits)), humanize.Bytes(uint64(c.MaxPayload)), marker)
	}
	return nil
}
