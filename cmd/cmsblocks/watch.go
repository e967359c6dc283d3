package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-cmsblocks"
)

// watchDebounce groups the bursts of events editors emit on save.
const watchDebounce = 300 * time.Millisecond

// watchAndRender re-renders files whenever they change, until ctx is done.
// Parent directories are watched so files replaced by rename are still seen.
func watchAndRender(ctx context.Context, pool *cmsblocks.RendererPool, files []blockFile, job *renderJob, report func([]renderResult)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	byPath := make(map[string]blockFile, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f.InputPath)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadBlock, err)
		}
		byPath[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	job.logger.Info().Int("files", len(files)).Int("dirs", len(dirs)).Msg("watching for changes")

	pending := make(map[string]blockFile)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if f, ok := byPath[abs]; ok {
				pending[abs] = f
				timer.Reset(watchDebounce)
			}

		case <-timer.C:
			report(renderBatch(ctx, pool, drainPending(pending), job))

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			job.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// drainPending returns the pending files in path order and clears the set.
func drainPending(pending map[string]blockFile) []blockFile {
	keys := make([]string, 0, len(pending))
	for k := range pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	batch := make([]blockFile, len(keys))
	for i, k := range keys {
		batch[i] = pending[k]
		delete(pending, k)
	}
	return batch
}
