package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alnah/go-cmsblocks"
	"github.com/alnah/go-cmsblocks/internal/site"
)

// fieldReport is one invalid setting.
type fieldReport struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validateReport is the outcome of validating one block file.
type validateReport struct {
	File   string        `json:"file"`
	Type   string        `json:"type,omitempty"`
	Valid  bool          `json:"valid"`
	Errors []fieldReport `json:"errors,omitempty"`
	Error  string        `json:"error,omitempty"` // Read or parse failure
}

// runValidate checks block settings and lists every invalid field.
func runValidate(args []string, env *Environment) error {
	flags, positional, err := parseValidateFlags(args, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	inputs, err := discoverInputs(positional)
	if err != nil {
		return err
	}
	limits := site.Limits(cfg.CharacterLimits)

	reports := make([]validateReport, len(inputs))
	invalid := 0
	for i, in := range inputs {
		reports[i] = validateFile(in, env.Stdin, limits)
		if !reports[i].Valid {
			invalid++
		}
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	} else {
		printValidateReports(env.Stdout, env.Stderr, reports, flags.common.quiet)
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalidBlocks, invalid, len(reports))
	}
	return nil
}

func validateFile(path string, stdin io.Reader, limits cmsblocks.CharacterLimits) validateReport {
	report := validateReport{File: path}

	var data []byte
	var err error
	if path == stdinInput {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- discovered path
	}
	if err != nil {
		report.Error = err.Error()
		return report
	}

	block, err := cmsblocks.ParseBlock(data)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Type = string(block.Type)

	if err := block.Validate(limits); err != nil {
		fields := cmsblocks.FieldErrors(err)
		if fields == nil {
			report.Error = err.Error()
			return report
		}
		for _, fe := range fields {
			report.Errors = append(report.Errors, fieldReport{Field: fe.Field, Message: fe.Err.Error()})
		}
		return report
	}

	report.Valid = true
	return report
}

func printValidateReports(stdout, stderr io.Writer, reports []validateReport, quiet bool) {
	for _, r := range reports {
		switch {
		case r.Error != "":
			fmt.Fprintf(stderr, "FAILED %s: %s\n", r.File, r.Error)
		case !r.Valid:
			fmt.Fprintf(stderr, "INVALID %s (%s)\n", r.File, r.Type)
			for _, fe := range r.Errors {
				fmt.Fprintf(stderr, "  %s: %s\n", fe.Field, fe.Message)
			}
		case !quiet:
			fmt.Fprintf(stdout, "OK %s (%s)\n", r.File, r.Type)
		}
	}
}
