package cmsblocks

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/alnah/go-cmsblocks/internal/fileutil"
	"github.com/alnah/go-cmsblocks/internal/process"
)

// previewer captures screenshots of a rendered page.
type previewer interface {
	Capture(ctx context.Context, htmlContent string, viewports []Viewport) ([]Preview, error)
	Close() error
}

// pageCapturer abstracts screenshotting a local HTML file to enable testing
// without a browser.
type pageCapturer interface {
	CaptureFile(ctx context.Context, filePath string, viewports []Viewport) ([]Preview, error)
}

// rodCapturer implements pageCapturer using go-rod.
// Rod downloads Chromium on first run if no browser is found.
type rodCapturer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	logger   zerolog.Logger
}

// ensureBrowser lazily launches and connects to the browser.
func (c *rodCapturer) ensureBrowser() error {
	if c.browser != nil {
		return nil
	}

	l := launcher.New().Headless(true)

	// Pre-installed browser (Docker and containerized environments).
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}

	// Chrome refuses to start sandboxed as root inside most containers.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "true" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.launcher = l
	c.browser = browser
	c.logger.Debug().Int("pid", l.PID()).Msg("browser launched")
	return nil
}

// CaptureFile opens a local HTML file and takes one full-page screenshot per
// viewport. Returns explicit errors instead of panicking when browser
// operations fail.
func (c *rodCapturer) CaptureFile(ctx context.Context, filePath string, viewports []Viewport) ([]Preview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	page = page.Context(ctx).Timeout(timeout)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	previews := make([]Preview, 0, len(viewports))
	for _, vp := range viewports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             vp.Width,
			Height:            vp.Height,
			DeviceScaleFactor: 1,
			Mobile:            vp.Width < DesktopViewport.Width/2,
		}); err != nil {
			return nil, fmt.Errorf("%w: setting viewport %s: %v", ErrScreenshot, vp, err)
		}
		png, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrScreenshot, vp, err)
		}
		previews = append(previews, Preview{Viewport: vp, PNG: png})
	}
	return previews, nil
}

// Close releases browser resources. Chrome helper processes are killed with
// their process group so none outlive the renderer.
func (c *rodCapturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	if c.launcher != nil {
		if pid := c.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		c.launcher.Kill()
		c.launcher.Cleanup()
		c.launcher = nil
	}
	return err
}

// rodPreviewer writes the page to a temporary file and captures it with a
// pageCapturer.
type rodPreviewer struct {
	capturer pageCapturer
	closer   func() error
}

// newRodPreviewer creates a rodPreviewer backed by a lazily launched browser.
func newRodPreviewer(timeout time.Duration, logger zerolog.Logger) *rodPreviewer {
	c := &rodCapturer{timeout: timeout, logger: logger}
	return &rodPreviewer{capturer: c, closer: c.Close}
}

// Capture implements previewer.
func (p *rodPreviewer) Capture(ctx context.Context, htmlContent string, viewports []Viewport) ([]Preview, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return p.capturer.CaptureFile(ctx, tmpPath, viewports)
}

// Close implements previewer.
func (p *rodPreviewer) Close() error {
	if p.closer != nil {
		return p.closer()
	}
	return nil
}
