package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cmsblocks <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render block documents to HTML (and PNG previews)")
	fmt.Fprintln(w, "  validate   Check block settings and list invalid fields")
	fmt.Fprintln(w, "  icon       Recolor an SVG bullet icon into a data URI")
	fmt.Fprintln(w, "  serve      Run the block rendering HTTP service")
	fmt.Fprintln(w, "  doctor     Check the system for preview capture")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'cmsblocks help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Site config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>      json, console")
}

func printAssetUsage(w io.Writer) {
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --style <s>           CSS style name or file path")
	fmt.Fprintln(w, "      --template <s>        Template set name or directory")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cmsblocks render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render block documents (.yaml, .yml, .json) to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Block file or directory, '-' reads one block from stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --full-page           Wrap each block into a standalone page")
	fmt.Fprintln(w, "      --title <s>           Page title (default: block id)")
	fmt.Fprintln(w, "      --base-url <url>      Resolve relative URLs against this URL")
	fmt.Fprintln(w, "      --watch               Re-render when block files change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Previews:")
	fmt.Fprintln(w, "      --preview             Capture PNG previews (requires Chrome)")
	fmt.Fprintln(w, "      --viewport <WxH>      Preview viewport, repeatable (default 1280x800, 375x812)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Preview capture timeout (e.g., 30s)")
	fmt.Fprintln(w)
	printAssetUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printValidateUsage prints usage for the validate command.
func printValidateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cmsblocks validate <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validate block settings against the site character limits.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printIconUsage prints usage for the icon command.
func printIconUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cmsblocks icon <file.svg|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recolor an SVG icon: the first path takes the background color,")
	fmt.Fprintln(w, "every other path the icon color. Prints a base64 data URI.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --bg <color>          Background fill")
	fmt.Fprintln(w, "      --fg <color>          Icon fill")
	fmt.Fprintln(w, "      --strip-fills         Remove fills instead, print SVG")
	fmt.Fprintln(w, "  -o, --output <path>       Write to file instead of stdout")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cmsblocks serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve block rendering over HTTP:")
	fmt.Fprintln(w, "  POST /v1/blocks/render     Block document -> HTML")
	fmt.Fprintln(w, "  POST /v1/blocks/preview    Block document -> PNG")
	fmt.Fprintln(w, "  POST /v1/blocks/validate   Block document -> field errors")
	fmt.Fprintln(w, "  POST /v1/icons/recolor     SVG and colors -> data URI")
	fmt.Fprintln(w, "  GET  /healthz, /metrics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default :8080)")
	fmt.Fprintln(w, "  -w, --workers <n>         Renderers for previews (0 = auto)")
	fmt.Fprintln(w)
	printAssetUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cmsblocks doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, the environment and optionally a site config.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case cmdRender:
		printRenderUsage(env.Stdout)
	case cmdValidate:
		printValidateUsage(env.Stdout)
	case cmdIcon:
		printIconUsage(env.Stdout)
	case cmdServe:
		printServeUsage(env.Stdout)
	case cmdDoctor:
		printDoctorUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: cmsblocks version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: cmsblocks help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
