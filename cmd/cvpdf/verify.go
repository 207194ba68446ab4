package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	cvpdf "github.com/porticus-lab/go-cv-pdf"
	"github.com/spf13/cobra"
)

var flagExpect []string

var verifyCmd = &cobra.Command{
	Use:   "verify <file.pdf>",
	Short: "Show the text and links an ATS would extract from a PDF",
	Long: `Verify validates an exported PDF and prints the overlay text of each page and
every link target. With --expect it fails unless each given string appears in
the extracted text.

Examples:
  cvpdf verify Jane_Doe_CV.pdf
  cvpdf verify Jane_Doe_CV.pdf --expect "Jane Doe" --expect "github.com/jane"`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringArrayVar(&flagExpect, "expect", nil, "Text that must appear in the PDF (repeatable)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	rep, err := cvpdf.Verify(bytes.NewReader(data))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pages: %d\n", rep.Pages)
	for i, text := range rep.Text {
		fmt.Fprintf(out, "\n--- Page %d ---\n", i+1)
		if text != "" {
			fmt.Fprintln(out, text)
		}
	}
	if len(rep.Links) > 0 {
		fmt.Fprintln(out, "\nLinks:")
		for _, l := range rep.Links {
			fmt.Fprintf(out, "  %s\n", l)
		}
	}

	var missing []string
	for _, want := range flagExpect {
		if !rep.Contains(want) {
			missing = append(missing, fmt.Sprintf("%q", want))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing from text layer: %s", strings.Join(missing, ", "))
	}
	return nil
}
