package main

import (
	"fmt"
	"strings"

	"github.com/porticus-lab/go-cv-pdf/flatten"
	"github.com/spf13/cobra"
)

var (
	flagFormat   string
	flagSanitize bool
)

var flattenCmd = &cobra.Command{
	Use:   "flatten [file]",
	Short: "Flatten rich-text HTML into plain-text lines",
	Long: `Flatten prints the plain text a rich-text field contributes to the PDF text
layer. It reads the file, or stdin when no file or "-" is given.

Formats:
  lines     one quoted line per row, blank lines shown as ""
  text      the lines joined with newlines (default)
  markdown  a Markdown rendering of the same HTML`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFlatten,
}

func init() {
	rootCmd.AddCommand(flattenCmd)
	flattenCmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "Output format: lines, text or markdown")
	flattenCmd.Flags().BoolVar(&flagSanitize, "sanitize", false, "Strip unsafe markup before flattening")
}

func runFlatten(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	}
	data, err := readInput(cmd, name)
	if err != nil {
		return err
	}

	src := string(data)
	if flagSanitize {
		src = flatten.Sanitize(src)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(flagFormat) {
	case "lines":
		for _, l := range flatten.Lines(src) {
			fmt.Fprintf(out, "%q\n", l)
		}
	case "text":
		fmt.Fprintln(out, flatten.Text(src))
	case "markdown", "md":
		md, err := flatten.Markdown(src)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, md)
	default:
		return fmt.Errorf("unknown format %q (want lines, text or markdown)", flagFormat)
	}
	return nil
}
