package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logLevel  string
	logFormat string
}

// assetFlags holds template and stylesheet flags.
type assetFlags struct {
	style       string // Name, path or CSS content
	templateSet string
	assetPath   string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	assets    assetFlags
	output    string
	workers   int
	timeout   time.Duration
	fullPage  bool
	title     string
	baseURL   string
	preview   bool
	viewports []string
	watch     bool
}

// validateFlags holds flags for the validate command.
type validateFlags struct {
	common commonFlags
	json   bool
}

// iconFlags holds flags for the icon command.
type iconFlags struct {
	background string
	foreground string
	stripFills bool
	output     string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common  commonFlags
	assets  assetFlags
	addr    string
	workers int
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	config string
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "site config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: json, console")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.templateSet, "template", "", "template set name or directory path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := newFlagSet("render", printRenderUsage, stderr)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "preview capture timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.fullPage, "full-page", false, "wrap each block into a standalone HTML page")
	fs.StringVar(&f.title, "title", "", "page title (default: block id)")
	fs.StringVar(&f.baseURL, "base-url", "", "resolve relative URLs against this URL")
	fs.BoolVar(&f.preview, "preview", false, "capture PNG previews (requires Chrome)")
	fs.StringSliceVar(&f.viewports, "viewport", nil, "preview viewport WIDTHxHEIGHT (repeatable)")
	fs.BoolVar(&f.watch, "watch", false, "re-render when block files change")

	addCommonFlags(fs, &f.common)
	addAssetFlags(fs, &f.assets)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseValidateFlags parses validate command flags.
func parseValidateFlags(args []string, stderr io.Writer) (*validateFlags, []string, error) {
	fs := newFlagSet("validate", printValidateUsage, stderr)
	f := &validateFlags{}

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseIconFlags parses icon command flags.
func parseIconFlags(args []string, stderr io.Writer) (*iconFlags, []string, error) {
	fs := newFlagSet("icon", printIconUsage, stderr)
	f := &iconFlags{}

	fs.StringVar(&f.background, "bg", "", "fill of the first path (icon background)")
	fs.StringVar(&f.foreground, "fg", "", "fill of the other paths")
	fs.BoolVar(&f.stripFills, "strip-fills", false, "remove fills instead of recoloring, print SVG")
	fs.StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	fs := newFlagSet("serve", printServeUsage, stderr)
	f := &serveFlags{}

	fs.StringVar(&f.addr, "addr", "", "listen address (default :8080)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "renderers for previews (0 = auto)")
	addCommonFlags(fs, &f.common)
	addAssetFlags(fs, &f.assets)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, usageError("serve takes no arguments, got %q", fs.Args())
	}
	return f, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	fs := newFlagSet("doctor", printDoctorUsage, stderr)
	f := &doctorFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "also check this site config")
	fs.BoolVar(&f.json, "json", false, "print results as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
