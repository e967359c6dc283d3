package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alnah/go-cmsblocks"
)

// runIcon recolors an SVG icon into a data URI, or strips its fills.
func runIcon(args []string, env *Environment) error {
	flags, positional, err := parseIconFlags(args, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) != 1 {
		return usageError("icon takes exactly one SVG file or '-', got %d arguments", len(positional))
	}
	if flags.stripFills && (flags.background != "" || flags.foreground != "") {
		return usageError("--strip-fills cannot be combined with --bg or --fg")
	}

	var data []byte
	if positional[0] == stdinInput {
		data, err = io.ReadAll(env.Stdin)
	} else {
		data, err = os.ReadFile(positional[0]) // #nosec G304 -- user-provided path
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadBlock, err)
	}

	var out string
	if flags.stripFills {
		out, err = cmsblocks.RemoveSVGFills(string(data))
	} else {
		out, err = cmsblocks.RecolorSVG(string(data), flags.background, flags.foreground)
	}
	if err != nil {
		return err
	}

	if flags.output != "" {
		return writeOutput(flags.output, []byte(out))
	}
	_, err = fmt.Fprintln(env.Stdout, out)
	return err
}
