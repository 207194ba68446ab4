package cvpdf

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/chromedp"
)

// Job describes one résumé export.
type Job struct {
	// ContainerID is the id of the element to export. Defaults to
	// [DefaultContainerID].
	ContainerID string

	// Info names the résumé owner; it drives the output file name.
	Info PersonalInfo

	// Hints are per-element overlay overrides, merged over any hints the
	// Converter was created with.
	Hints Hints
}

func (j Job) containerID() string {
	if j.ContainerID == "" {
		return DefaultContainerID
	}
	return j.ContainerID
}

// Converter exports résumé pages rendered by a headless browser.
//
// A Converter manages a headless browser instance that is reused across
// exports. Every export runs in its own tab, so a Converter is safe for
// concurrent use.
//
// Call [Converter.Close] when the Converter is no longer needed to release
// browser resources.
type Converter struct {
	cfg           config
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewConverter creates a Converter with the given options.
//
// It starts a headless browser in the background. The caller must call
// [Converter.Close] when finished.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := newConfig(opts)

	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := resolveBrowser()
		if err != nil {
			return nil, err
		}
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", cfg.headless),
		chromedp.WindowSize(cfg.viewportWidth, cfg.viewportHeight),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("cvpdf: starting browser: %w", err)
	}
	cfg.logger.Debug("cvpdf: browser started", "chrome_path", cfg.chromePath)

	return &Converter{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the Converter, including the
// browser process. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	return nil
}

// ExportHTML loads an HTML document and exports its résumé container.
// A nil Result with a nil error means the container was not found.
func (c *Converter) ExportHTML(ctx context.Context, html string, job Job) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "cvpdf-*.html")
	if err != nil {
		return nil, fmt.Errorf("cvpdf: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return nil, fmt.Errorf("cvpdf: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("cvpdf: closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("cvpdf: resolving path: %w", err)
	}
	return c.export(ctx, "file://"+abs, job)
}

// ExportURL loads the web page at rawURL and exports its résumé container.
func (c *Converter) ExportURL(ctx context.Context, rawURL string, job Job) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("cvpdf: invalid URL %q: %w", rawURL, err)
	}
	return c.export(ctx, rawURL, job)
}

// ExportFile loads a local HTML file and exports its résumé container.
func (c *Converter) ExportFile(ctx context.Context, path string, job Job) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cvpdf: resolving path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("cvpdf: %w", err)
	}
	return c.export(ctx, "file://"+abs, job)
}

// export opens a tab, loads targetURL and runs an Exporter against it.
func (c *Converter) export(ctx context.Context, targetURL string, job Job) (*Result, error) {
	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	log := c.cfg.logger.With("url", targetURL)
	if err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(c.cfg.viewportWidth), int64(c.cfg.viewportHeight)),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return nil, exportErr(ctx, fmt.Errorf("cvpdf: loading %s: %w", targetURL, err))
	}
	log.Debug("cvpdf: page loaded")

	cfg := c.cfg
	cfg.hints = cfg.hints.merge(job.Hints)
	tab := &chromePage{}
	exp := &Exporter{dom: tab, raster: tab, cfg: cfg}

	res, err := exp.Export(tabCtx, job.containerID(), job.Info)
	if err != nil {
		return nil, exportErr(ctx, err)
	}
	return res, nil
}

// exportErr attaches the caller's deadline or cancellation to the tab
// failure it caused.
func exportErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w (%w)", err, ctxErr)
	}
	return err
}

func (c *Converter) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// --- Package-level convenience functions ---

// ExportHTML exports an HTML document using a temporary [Converter].
// This is convenient for one-off exports. For repeated use, create a
// [Converter] with [NewConverter] to reuse the browser instance.
func ExportHTML(ctx context.Context, html string, job Job, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ExportHTML(ctx, html, job)
}

// ExportURL exports a web page using a temporary [Converter].
func ExportURL(ctx context.Context, rawURL string, job Job, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ExportURL(ctx, rawURL, job)
}

// ExportFile exports a local HTML file using a temporary [Converter].
func ExportFile(ctx context.Context, path string, job Job, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ExportFile(ctx, path, job)
}
