package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/akamensky/argparse"

	"github.com/missolin/duck-image-tool/stego"
)

type HideArgs struct {
	input      *[]string
	output     *string
	password   *string
	title      *string
	bits       *int
	zstd       *bool
	format     *string
	pcm        *bool
	sampleRate *int
	channels   *int
}

type RevealArgs struct {
	input    *string
	output   *string
	password *string
}

type InspectArgs struct {
	input *string
}

// validateBits only admits the depths reveal tries.
func validateBits(args []string) error {
	k, err := strconv.Atoi(args[0])
	if err != nil || !slices.Contains(stego.CandidateBits, k) {
		return fmt.Errorf("bits must be one of %v", stego.CandidateBits)
	}
	return nil
}

func initHideCommand(parser *argparse.Parser) (*argparse.Command, *HideArgs) {
	cmd := parser.NewCommand("hide", "Hide a file inside a new duck image")
	args := &HideArgs{
		input: cmd.StringList("i", "input", &argparse.Options{
			Required: true,
			Help:     "File to hide; repeat for a numbered set of images that share one size",
		}),
		output:   cmd.String("o", "output", &argparse.Options{Help: "Output image path (default duck_payload.<format>)"}),
		password: cmd.String("p", "password", &argparse.Options{Help: "Optional password"}),
		title:    cmd.String("t", "title", &argparse.Options{Help: "Title drawn in the corner of the duck"}),
		bits: cmd.Int("k", "bits", &argparse.Options{
			Default:  2,
			Validate: validateBits,
			Help:     "Low bits used per channel byte: 2, 6 or 8",
		}),
		zstd:   cmd.Flag("z", "zstd", &argparse.Options{Help: "Compress the payload with zstd first"}),
		format: cmd.Selector("f", "format", []string{"png", "bmp", "qoi"}, &argparse.Options{Default: "png", Help: "Carrier image format"}),
		pcm:    cmd.Flag("w", "pcm", &argparse.Options{Help: "Input is raw 16-bit little-endian PCM; wrap it as WAV"}),
		sampleRate: cmd.Int("r", "sample-rate", &argparse.Options{
			Default: 44100,
			Help:    "Sample rate of --pcm input",
		}),
		channels: cmd.Int("c", "channels", &argparse.Options{Default: 2, Help: "Channel count of --pcm input"}),
	}
	return cmd, args
}

func initRevealCommand(parser *argparse.Parser) (*argparse.Command, *RevealArgs) {
	cmd := parser.NewCommand("reveal", "Recover the file hidden in a duck image")
	args := &RevealArgs{
		input:    cmd.String("i", "input", &argparse.Options{Required: true, Help: "Duck image"}),
		output:   cmd.String("o", "output", &argparse.Options{Default: "recovered", Help: "Output base name; the stored extension is appended"}),
		password: cmd.String("p", "password", &argparse.Options{Help: "Password, if the payload has one"}),
	}
	return cmd, args
}

func initInspectCommand(parser *argparse.Parser) (*argparse.Command, *InspectArgs) {
	cmd := parser.NewCommand("inspect", "Report the capacity of an image")
	args := &InspectArgs{
		input: cmd.String("i", "input", &argparse.Options{Required: true, Help: "Image to inspect"}),
	}
	return cmd, args
}
