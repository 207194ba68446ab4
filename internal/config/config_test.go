package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cvpdf "github.com/porticus-lab/go-cv-pdf"
)

const sampleYAML = `
source: https://example.com/cv
name: Jane Mary Doe
output_dir: out
page_size: Letter
browser:
  no_sandbox: true
  timeout: 30s
  viewport_width: 1440
export:
  settle: 100ms
  quality: 90
hints:
  github:
    link: https://github.com/jane
    no_wrap: true
  phone:
    padding_left: 4.5
    link_offset_y: -1
  skills:
    rich_text: true
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Source != "https://example.com/cv" || cfg.Name != "Jane Mary Doe" || cfg.OutputDir != "out" {
		t.Errorf("job = %+v", cfg)
	}
	if cfg.Browser.Timeout != 30*time.Second || !cfg.Browser.NoSandbox {
		t.Errorf("browser = %+v", cfg.Browser)
	}
	if cfg.Browser.ViewportWidth != 1440 || cfg.Browser.ViewportHeight != 900 {
		t.Errorf("viewport = %dx%d, want 1440x900", cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight)
	}
	if cfg.Export.Settle != 100*time.Millisecond || cfg.Export.Quality != 90 || cfg.Export.Scale != 2 {
		t.Errorf("export = %+v", cfg.Export)
	}

	want := map[string]cvpdf.Overrides{
		"github": {Link: "https://github.com/jane", NoWrap: true},
		"phone":  {PaddingLeft: 4.5, LinkOffsetY: -1},
		"skills": {RichText: true},
	}
	for k, w := range want {
		if got := cfg.Hints[k]; got != w {
			t.Errorf("hint %q = %+v, want %+v", k, got, w)
		}
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Container != cvpdf.DefaultContainerID {
		t.Errorf("Container = %q", cfg.Container)
	}
	if cfg.Export.Marker != cvpdf.DefaultMarker || cfg.Export.Quality != 80 || cfg.Export.Scale != 2 {
		t.Errorf("export = %+v", cfg.Export)
	}
	if cfg.Browser.Timeout != time.Minute {
		t.Errorf("Timeout = %v", cfg.Browser.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"no source", func(c *Config) { c.Source = "" }, "source is required"},
		{"no name", func(c *Config) { c.Name = "" }, "name is required"},
		{"bad page size", func(c *Config) { c.PageSize = "b5" }, "unknown page size"},
		{"bad quality", func(c *Config) { c.Export.Quality = 101 }, "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Source = "cv.html"
			cfg.Name = "Jane"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestJob(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	job := cfg.Job()
	if job.ContainerID != cvpdf.DefaultContainerID || job.Info.Name != "Jane Mary Doe" {
		t.Errorf("job = %+v", job)
	}
	if job.Hints["github"].Link != "https://github.com/jane" {
		t.Errorf("job hints = %+v", job.Hints)
	}
	if len(cfg.Options()) == 0 {
		t.Error("Options returned nothing")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PageSize != "Letter" {
		t.Errorf("PageSize = %q", cfg.PageSize)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("browser: [unclosed")); err == nil {
		t.Error("Parse accepted malformed YAML")
	}
}
