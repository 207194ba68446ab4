package main

import (
	"context"
	"fmt"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	cvpdf "github.com/porticus-lab/go-cv-pdf"
	"github.com/porticus-lab/go-cv-pdf/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagConfig       string
	flagName         string
	flagContainer    string
	flagOutputDir    string
	flagPageSize     string
	flagChromePath   string
	flagNoSandbox    bool
	flagAutoDownload bool
	flagTimeout      time.Duration
)

var exportCmd = &cobra.Command{
	Use:   "export [url-or-file]",
	Short: "Export a résumé page to PDF",
	Long: `Export loads a page in headless Chrome and writes <Name>_CV.pdf for the element
with the container id. Settings come from --config, and flags override them.

Examples:
  cvpdf export http://localhost:3000/cv --name "Jane Doe"
  cvpdf export ./cv.html --name "Jane Doe" --page-size letter --output-dir out
  cvpdf export --config job.yaml --no-sandbox`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	f := exportCmd.Flags()
	f.StringVarP(&flagConfig, "config", "c", "", "YAML job file")
	f.StringVar(&flagName, "name", "", "Résumé owner's name, used for metadata and the file name")
	f.StringVar(&flagContainer, "container", "", "Id of the element to export (default \"cv-content\")")
	f.StringVarP(&flagOutputDir, "output-dir", "o", "", "Output directory (default: current directory)")
	f.StringVar(&flagPageSize, "page-size", "", "Page size: a3, a4, a5, letter or legal (default \"a4\")")
	f.StringVar(&flagChromePath, "chrome", "", "Path to the Chrome or Chromium executable")
	f.BoolVar(&flagNoSandbox, "no-sandbox", false, "Disable the Chrome sandbox (needed as root)")
	f.BoolVar(&flagAutoDownload, "auto-download", false, "Download Chromium when none is installed")
	f.DurationVar(&flagTimeout, "timeout", 0, "Timeout per export (default 1m)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := exportConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := append(cfg.Options(), cvpdf.WithLogger(newLogger(cmd.ErrOrStderr())))
	conv, err := cvpdf.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer conv.Close()

	res, err := exportSource(ctx, conv, cfg)
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("no element with id %q in %s", cfg.Container, cfg.Source)
	}

	path, err := res.Save(cfg.OutputDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s (%d pages)\n", path, res.Pages())
	return nil
}

// exportConfig merges the config file, the positional source and any flags
// the user set explicitly.
func exportConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		if cfg, err = config.Load(flagConfig); err != nil {
			return nil, err
		}
	}
	if len(args) == 1 {
		cfg.Source = args[0]
	}

	f := cmd.Flags()
	if f.Changed("name") {
		cfg.Name = flagName
	}
	if f.Changed("container") {
		cfg.Container = flagContainer
	}
	if f.Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if f.Changed("page-size") {
		cfg.PageSize = flagPageSize
	}
	if f.Changed("chrome") {
		cfg.Browser.ChromePath = flagChromePath
	}
	if f.Changed("no-sandbox") {
		cfg.Browser.NoSandbox = flagNoSandbox
	}
	if f.Changed("auto-download") {
		cfg.Browser.AutoDownload = flagAutoDownload
	}
	if f.Changed("timeout") {
		cfg.Browser.Timeout = flagTimeout
	}
	return cfg, nil
}

func exportSource(ctx context.Context, conv *cvpdf.Converter, cfg *config.Config) (*cvpdf.Result, error) {
	if isURL(cfg.Source) {
		return conv.ExportURL(ctx, cfg.Source, cfg.Job())
	}
	return conv.ExportFile(ctx, cfg.Source, cfg.Job())
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
