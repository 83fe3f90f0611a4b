// Command rustyzipper drives the pipeline driver from the command line:
// -e encodes a file through a declared stage sequence, -d decodes one
// back. See SPEC_FULL.md §6 for the exact flag grammar.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aandreu7/rustyzipper-go/internal/codec"
	"github.com/aandreu7/rustyzipper-go/internal/keyhash"
	"github.com/aandreu7/rustyzipper-go/internal/pipeline"
	"github.com/aandreu7/rustyzipper-go/internal/source"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "-e":
		err = runEncode(os.Args[2:])
	case "-d":
		err = runDecode(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rustyzipper -e <codec-flag> [key] ... <input-path>")
	fmt.Fprintln(os.Stderr, "       rustyzipper -d [key ...] <input-path>")
}

// runEncode parses a stage/key/... input-path argument list and runs
// every path the input argument resolves to (a single file, or every
// match of a glob pattern) through the declared pipeline.
func runEncode(args []string) error {
	stages, keys, inputArg, err := parseEncodeArgs(args)
	if err != nil {
		return err
	}

	paths, err := source.Resolve(inputArg)
	if err != nil {
		return err
	}

	d := pipeline.NewDriver()
	if len(paths) == 1 {
		outPath, err := d.EncodeFile(paths[0], stages, keys)
		if err != nil {
			return err
		}
		slog.Info("encoded", "input", paths[0], "output", outPath)
		return nil
	}

	outPaths, err := d.EncodeFileBatch(paths, stages, keys)
	if err != nil {
		return err
	}
	for i, outPath := range outPaths {
		slog.Info("encoded", "input", paths[i], "output", outPath)
	}
	return nil
}

// runDecode parses a [key ...] input-path argument list, recovering
// which and how many keys are expected from the container's own stage
// list rather than requiring the caller to repeat stage flags.
func runDecode(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("rustyzipper: -d requires an input path")
	}

	inputArg := args[len(args)-1]
	keys := make([]keyhash.Key, 0, len(args)-1)
	for _, raw := range args[:len(args)-1] {
		keys = append(keys, keyhash.ParseASCII(raw))
	}

	d := pipeline.NewDriver()
	outPath, err := d.DecodeFile(inputArg, keys)
	if err != nil {
		return err
	}
	slog.Info("decoded", "input", inputArg, "output", outPath)
	return nil
}

// parseEncodeArgs walks a codec-flag/[key]/... list followed by a
// trailing input path, returning the declared stage sequence, the keys
// belonging to keyed stages in declared order, and the input path or
// glob pattern.
func parseEncodeArgs(args []string) (stages []codec.ID, keys []keyhash.Key, inputArg string, err error) {
	if len(args) < 2 {
		return nil, nil, "", fmt.Errorf("rustyzipper: -e requires at least one codec flag and an input path")
	}

	i := 0
	for i < len(args)-1 {
		flag := args[i]
		i++

		var id codec.ID
		var keyed bool
		switch flag {
		case "--huffman":
			id = codec.Huffman
		case "--rle":
			id = codec.RLE
		case "--caesar":
			id, keyed = codec.Caesar, true
		case "--aes":
			id, keyed = codec.AES128, true
		default:
			return nil, nil, "", fmt.Errorf("rustyzipper: unrecognized codec flag %q", flag)
		}

		stages = append(stages, id)
		if keyed {
			if i >= len(args)-1 {
				return nil, nil, "", fmt.Errorf("rustyzipper: flag %q requires a key", flag)
			}
			keys = append(keys, keyhash.ParseASCII(args[i]))
			i++
		}
	}

	if len(stages) == 0 {
		return nil, nil, "", fmt.Errorf("rustyzipper: -e requires at least one codec flag")
	}

	return stages, keys, args[len(args)-1], nil
}
