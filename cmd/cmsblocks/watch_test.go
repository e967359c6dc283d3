package main

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-cmsblocks"
)

func TestDrainPending(t *testing.T) {
	t.Parallel()

	pending := map[string]blockFile{
		"/b.yaml": {InputPath: "b.yaml"},
		"/a.yaml": {InputPath: "a.yaml"},
	}

	got := drainPending(pending)
	if len(got) != 2 || got[0].InputPath != "a.yaml" || got[1].InputPath != "b.yaml" {
		t.Errorf("drainPending() = %v, want path order", got)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %v, want it cleared", pending)
	}
	if got := drainPending(pending); len(got) != 0 {
		t.Errorf("drainPending() on empty set = %v", got)
	}
}

func TestWatchAndRender_RerendersOnWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "spring.yaml", bannerDoc)
	files, err := planOutputs([]string{in}, "")
	if err != nil {
		t.Fatal(err)
	}

	pool := cmsblocks.NewRendererPool(1)
	defer pool.Close()

	env, _, _ := newTestEnv("")
	job := &renderJob{
		input:    func(b *cmsblocks.Block) cmsblocks.Input { return cmsblocks.Input{Block: b} },
		stdin:    env.Stdin,
		stdout:   env.Stdout,
		logger:   zerolog.Nop(),
		readFile: os.ReadFile,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reports := make(chan []renderResult, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchAndRender(ctx, pool, files, job, func(rs []renderResult) {
			select {
			case reports <- rs:
			default:
			}
		})
	}()

	// The watcher starts asynchronously; keep touching the file until a
	// render is reported.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	updated := strings.ReplaceAll(bannerDoc, "/offers", "/summer")

	var rs []renderResult
loop:
	for {
		select {
		case rs = <-reports:
			break loop
		case <-ticker.C:
			writeFile(t, dir, "spring.yaml", updated)
		case <-ctx.Done():
			t.Fatal("no re-render reported before the deadline")
		}
	}

	if len(rs) != 1 || rs[0].Err != nil {
		t.Fatalf("results = %+v, want one successful render", rs)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchAndRender() error = %v", err)
	}
}
