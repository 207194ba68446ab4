package cvpdf

import (
	"image/color"
	"log/slog"
	"time"
)

// config holds internal configuration shared by [Converter] and [Exporter].
type config struct {
	chromePath     string
	timeout        time.Duration
	noSandbox      bool
	headless       string
	autoDownload   bool
	viewportWidth  int
	viewportHeight int

	logger     *slog.Logger
	marker     string
	settle     time.Duration
	scale      float64
	quality    int
	background color.RGBA
	pageSize   PageSize
	hints      Hints

	newDocument func(PageSize) Document
}

func defaultConfig() config {
	return config{
		timeout:        60 * time.Second,
		headless:       "new",
		viewportWidth:  1280,
		viewportHeight: 900,
		logger:         slog.New(slog.DiscardHandler),
		marker:         DefaultMarker,
		settle:         50 * time.Millisecond,
		scale:          2,
		quality:        80,
		background:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		pageSize:       A4,
		newDocument:    newFPDFDocument,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Option configures a [Converter] or an [Exporter].
type Option func(*config)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *config) {
		c.chromePath = path
	}
}

// WithAutoDownload downloads a compatible Chromium build when no
// executable path is configured. The binary is cached between runs.
func WithAutoDownload() Option {
	return func(c *config) {
		c.autoDownload = true
	}
}

// WithTimeout sets the maximum duration for a single export, page load
// included. Defaults to 60 seconds. A zero or negative value disables the
// timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *config) {
		c.noSandbox = true
	}
}

// WithViewport sets the browser viewport used to lay out the page before
// it is rasterized. Defaults to 1280x900.
func WithViewport(width, height int) Option {
	return func(c *config) {
		if width > 0 {
			c.viewportWidth = width
		}
		if height > 0 {
			c.viewportHeight = height
		}
	}
}

// WithLogger sets the logger for pipeline progress. Logging is discarded
// by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMarker sets the attribute that flags elements for the text overlay.
// Override attributes are read from the same prefix, for example
// "data-ats-nowrap". Defaults to [DefaultMarker].
func WithMarker(attr string) Option {
	return func(c *config) {
		if attr != "" {
			c.marker = attr
		}
	}
}

// WithSettleDelay sets how long to wait after hiding annotated elements so
// the visibility change is committed before rasterization.
func WithSettleDelay(d time.Duration) Option {
	return func(c *config) {
		c.settle = d
	}
}

// WithRasterScale sets the oversampling factor used when rasterizing the
// container. Defaults to 2.
func WithRasterScale(scale float64) Option {
	return func(c *config) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

// WithJPEGQuality sets the JPEG quality (1-100) of the page raster.
// Defaults to 80.
func WithJPEGQuality(q int) Option {
	return func(c *config) {
		if q > 0 && q <= 100 {
			c.quality = q
		}
	}
}

// WithPageSize sets the output page size. Defaults to [A4] portrait.
func WithPageSize(size PageSize) Option {
	return func(c *config) {
		if size.Width > 0 && size.Height > 0 {
			c.pageSize = size
		}
	}
}

// WithHints attaches per-element overlay overrides keyed by element key.
// Hints replace the overrides an element declares through attributes.
func WithHints(h Hints) Option {
	return func(c *config) {
		c.hints = c.hints.merge(h)
	}
}

// withDocument replaces the document builder, for tests.
func withDocument(f func(PageSize) Document) Option {
	return func(c *config) {
		c.newDocument = f
	}
}
