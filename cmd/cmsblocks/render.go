package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-cmsblocks"
	"github.com/alnah/go-cmsblocks/internal/config"
	"github.com/alnah/go-cmsblocks/internal/fileutil"
	"github.com/alnah/go-cmsblocks/internal/site"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// renderJob carries the settings shared across a render batch.
type renderJob struct {
	input    func(*cmsblocks.Block) cmsblocks.Input
	stdin    io.Reader
	stdout   io.Writer
	logger   zerolog.Logger
	readFile func(string) ([]byte, error)
}

// renderResult holds the outcome of a single block render.
type renderResult struct {
	InputPath  string
	OutputPath string
	Previews   []string
	Err        error
	Duration   time.Duration
}

// runRender renders block documents to HTML files.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if flags.watch && len(positional) == 1 && positional[0] == stdinInput {
		return usageError("--watch cannot read from stdin")
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags, cfg)

	logger, err := newLogger(cfg, flags.common, env)
	if err != nil {
		return err
	}

	inputs, err := discoverInputs(positional)
	if err != nil {
		return err
	}
	files, err := planOutputs(inputs, flags.output)
	if err != nil {
		return err
	}

	bundle, err := site.FromConfig(cfg)
	if err != nil {
		return err
	}
	preview, err := previewSettings(flags, bundle)
	if err != nil {
		return err
	}

	opts := append(site.RendererOptions(cfg, bundle), cmsblocks.WithLogger(logger))
	if flags.baseURL != "" {
		opts = append(opts, cmsblocks.WithBaseURL(flags.baseURL))
	}

	poolSize := cmsblocks.ResolvePoolSize(cfg.Render.Workers)
	if poolSize > len(files) && !flags.watch {
		poolSize = len(files)
	}
	pool := cmsblocks.NewRendererPool(poolSize, opts...)
	defer pool.Close()

	job := &renderJob{
		input: func(b *cmsblocks.Block) cmsblocks.Input {
			return cmsblocks.Input{
				Block:    b,
				FullPage: flags.fullPage,
				Title:    flags.title,
				Preview:  preview,
			}
		},
		stdin:    env.Stdin,
		stdout:   env.Stdout,
		logger:   logger,
		readFile: os.ReadFile,
	}

	results := renderBatch(ctx, pool, files, job)
	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)

	if flags.watch {
		return watchAndRender(ctx, pool, files, job, func(rs []renderResult) {
			if !flags.common.quiet {
				fmt.Fprintf(env.Stdout, "[%s] change detected\n", env.Now().Format(time.TimeOnly))
			}
			printResults(rs, flags.common.quiet, flags.common.verbose, env)
		})
	}

	if failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d blocks failed", failed, len(results))
	}
	return nil
}

// mergeRenderFlags applies CLI flags over the config (CLI wins).
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	if f.workers > 0 {
		cfg.Render.Workers = f.workers
	}
	if f.timeout > 0 {
		cfg.Render.Timeout = f.timeout
	}
	if len(f.viewports) > 0 {
		cfg.Render.Viewports = f.viewports
	}
	if f.assets.style != "" {
		cfg.Assets.Style = f.assets.style
	}
	if f.assets.templateSet != "" {
		cfg.Assets.TemplateSet = f.assets.templateSet
	}
	if f.assets.assetPath != "" {
		cfg.Assets.BasePath = f.assets.assetPath
	}
}

func previewSettings(f *renderFlags, b *site.Bundle) (*cmsblocks.PreviewSettings, error) {
	if !f.preview {
		if len(f.viewports) > 0 {
			return nil, usageError("--viewport requires --preview")
		}
		return nil, nil
	}
	ps := &cmsblocks.PreviewSettings{Viewports: b.Viewports}
	return ps, ps.Validate()
}

// renderBatch renders files concurrently, one renderer per worker.
func renderBatch(ctx context.Context, pool *cmsblocks.RendererPool, files []blockFile, job *renderJob) []renderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))
	results := make([]renderResult, len(files))
	jobs := make(chan int, len(files))
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := pool.Acquire(ctx)
			if err != nil {
				for idx := range jobs {
					results[idx] = renderResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(r)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = renderResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], job)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile renders one block file and writes its HTML and previews.
func renderFile(ctx context.Context, r *cmsblocks.Renderer, f blockFile, job *renderJob) renderResult {
	start := time.Now()
	result := renderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	fail := func(err error) renderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	data, err := readBlockInput(f.InputPath, job)
	if err != nil {
		return fail(err)
	}
	block, err := cmsblocks.ParseBlock(data)
	if err != nil {
		return fail(err)
	}

	res, err := r.Render(ctx, job.input(block))
	if err != nil {
		return fail(err)
	}

	if f.OutputPath == stdinInput {
		if _, err := job.stdout.Write(res.HTML); err != nil {
			return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
		}
	} else if err := writeOutput(f.OutputPath, res.HTML); err != nil {
		return fail(err)
	}

	base := f.OutputPath
	if base == stdinInput {
		base = "block.html"
	}
	for _, p := range res.Previews {
		path := previewPath(base, p.Viewport.String())
		if err := writeOutput(path, p.PNG); err != nil {
			return fail(err)
		}
		result.Previews = append(result.Previews, path)
	}

	result.Duration = time.Since(start)
	job.logger.Debug().
		Str("input", f.InputPath).
		Str("output", f.OutputPath).
		Dur("elapsed", result.Duration).
		Msg("block file rendered")
	return result
}

func readBlockInput(path string, job *renderJob) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinInput {
		data, err = io.ReadAll(job.stdin)
	} else {
		data, err = job.readFile(path) // #nosec G304 -- discovered path
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadBlock, err)
	}
	return data, nil
}

// writeOutput atomically replaces path with data, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %w", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// resultSummary holds the count of succeeded and failed renders.
type resultSummary struct {
	Succeeded int
	Failed    int
}

func countResults(results []renderResult) resultSummary {
	var s resultSummary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}

// printResults reports each render and returns the failure count.
func printResults(results []renderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}
		if quiet || r.OutputPath == stdinInput {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
		for _, p := range r.Previews {
			fmt.Fprintf(env.Stdout, "Created %s\n", p)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	return summary.Failed
}
