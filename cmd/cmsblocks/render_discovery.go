package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// stdinInput names standard input as a render or validate argument.
const stdinInput = "-"

// blockExtensions lists the file extensions of block documents.
var blockExtensions = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// blockFile is a single block document to process.
type blockFile struct {
	InputPath  string
	OutputPath string // HTML destination, empty for validate
}

func isBlockFile(path string) bool {
	return blockExtensions[strings.ToLower(filepath.Ext(path))]
}

// discoverInputs expands files and directories into block files. Directories
// are walked recursively. Explicit files must carry a block extension.
func discoverInputs(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, in := range inputs {
		if in == stdinInput {
			add(in)
			continue
		}
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadBlock, err)
		}
		if !info.IsDir() {
			if !isBlockFile(in) {
				return nil, usageError("%s: block files must end in .yaml, .yml or .json", in)
			}
			add(in)
			continue
		}

		var found []string
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isBlockFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: walking %s: %w", ErrReadBlock, in, err)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no block files found in %s", ErrNoInput, strings.Join(inputs, ", "))
	}
	return out, nil
}

// planOutputs assigns an HTML output path to every input. output may name a
// single .html file (one input only) or a directory. Without output, HTML
// lands next to its input, and stdin goes to stdout.
func planOutputs(inputs []string, output string) ([]blockFile, error) {
	files := make([]blockFile, len(inputs))
	toFile := strings.EqualFold(filepath.Ext(output), ".html")
	if toFile && len(inputs) > 1 {
		return nil, usageError("--output %s names a file but %d blocks were given", output, len(inputs))
	}

	for i, in := range inputs {
		f := blockFile{InputPath: in}
		switch {
		case toFile:
			f.OutputPath = output
		case in == stdinInput && output == "":
			f.OutputPath = stdinInput
		case in == stdinInput:
			f.OutputPath = filepath.Join(output, "block.html")
		case output == "":
			f.OutputPath = htmlPath(in)
		default:
			f.OutputPath = filepath.Join(output, filepath.Base(htmlPath(in)))
		}
		files[i] = f
	}
	return files, nil
}

func htmlPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".html"
}

// previewPath returns the PNG path of a preview next to the HTML output.
func previewPath(htmlOutput, viewport string) string {
	return strings.TrimSuffix(htmlOutput, filepath.Ext(htmlOutput)) + "-" + viewport + ".png"
}
