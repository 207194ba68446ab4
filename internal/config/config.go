// Package config loads export jobs for the cvpdf command from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	cvpdf "github.com/porticus-lab/go-cv-pdf"
	"gopkg.in/yaml.v3"
)

// Config is one export job.
type Config struct {
	// Source is a URL or a path to a local HTML file.
	Source    string `yaml:"source"`
	Container string `yaml:"container"`
	Name      string `yaml:"name"`
	OutputDir string `yaml:"output_dir"`
	PageSize  string `yaml:"page_size"`

	Browser BrowserConfig `yaml:"browser"`
	Export  ExportConfig  `yaml:"export"`

	// Hints are overlay overrides keyed by element key.
	Hints map[string]cvpdf.Overrides `yaml:"hints"`
}

// BrowserConfig controls the headless browser.
type BrowserConfig struct {
	ChromePath     string        `yaml:"chrome_path"`
	NoSandbox      bool          `yaml:"no_sandbox"`
	AutoDownload   bool          `yaml:"auto_download"`
	Timeout        time.Duration `yaml:"timeout"`
	ViewportWidth  int           `yaml:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height"`
}

// ExportConfig tunes rasterization and the overlay.
type ExportConfig struct {
	Settle  time.Duration `yaml:"settle"`
	Scale   float64       `yaml:"scale"`
	Quality int           `yaml:"quality"`
	Marker  string        `yaml:"marker"`
}

// Default returns a job with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML job file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML job and applies defaults to unset fields.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing YAML: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Container == "" {
		c.Container = cvpdf.DefaultContainerID
	}
	if c.PageSize == "" {
		c.PageSize = "a4"
	}
	if c.Browser.Timeout <= 0 {
		c.Browser.Timeout = 60 * time.Second
	}
	if c.Browser.ViewportWidth <= 0 {
		c.Browser.ViewportWidth = 1280
	}
	if c.Browser.ViewportHeight <= 0 {
		c.Browser.ViewportHeight = 900
	}
	if c.Export.Settle <= 0 {
		c.Export.Settle = 50 * time.Millisecond
	}
	if c.Export.Scale <= 0 {
		c.Export.Scale = 2
	}
	if c.Export.Quality <= 0 {
		c.Export.Quality = 80
	}
	if c.Export.Marker == "" {
		c.Export.Marker = cvpdf.DefaultMarker
	}
}

// Validate reports the first problem that would make the job fail.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("config: source is required")
	}
	if c.Name == "" {
		return errors.New("config: name is required")
	}
	if _, ok := cvpdf.LookupPageSize(c.PageSize); !ok {
		return fmt.Errorf("config: unknown page size %q", c.PageSize)
	}
	if c.Export.Quality > 100 {
		return fmt.Errorf("config: quality %d out of range 1-100", c.Export.Quality)
	}
	return nil
}

// Options converts the job into converter options.
func (c *Config) Options() []cvpdf.Option {
	opts := []cvpdf.Option{
		cvpdf.WithTimeout(c.Browser.Timeout),
		cvpdf.WithViewport(c.Browser.ViewportWidth, c.Browser.ViewportHeight),
		cvpdf.WithSettleDelay(c.Export.Settle),
		cvpdf.WithRasterScale(c.Export.Scale),
		cvpdf.WithJPEGQuality(c.Export.Quality),
		cvpdf.WithMarker(c.Export.Marker),
	}
	if c.Browser.ChromePath != "" {
		opts = append(opts, cvpdf.WithChromePath(c.Browser.ChromePath))
	}
	if c.Browser.NoSandbox {
		opts = append(opts, cvpdf.WithNoSandbox())
	}
	if c.Browser.AutoDownload {
		opts = append(opts, cvpdf.WithAutoDownload())
	}
	if size, ok := cvpdf.LookupPageSize(c.PageSize); ok {
		opts = append(opts, cvpdf.WithPageSize(size))
	}
	return opts
}

// Job converts the job into a single export request.
func (c *Config) Job() cvpdf.Job {
	return cvpdf.Job{
		ContainerID: c.Container,
		Info:        cvpdf.PersonalInfo{Name: c.Name},
		Hints:       cvpdf.Hints(c.Hints),
	}
}
