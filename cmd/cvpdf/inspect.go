package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	cvpdf "github.com/porticus-lab/go-cv-pdf"
	"github.com/spf13/cobra"
)

var (
	flagInspectContainer string
	flagMarker           string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "List the annotated elements of a static HTML page",
	Long: `Inspect previews the text layer of a page without a browser. It lists every
element carrying the marker attribute inside the container, with its overrides
and the text it would contribute.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&flagInspectContainer, "container", cvpdf.DefaultContainerID, "Id of the container to inspect; empty for the whole page")
	inspectCmd.Flags().StringVar(&flagMarker, "marker", cvpdf.DefaultMarker, "Annotation attribute")
}

func runInspect(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	}
	data, err := readInput(cmd, name)
	if err != nil {
		return err
	}

	elems, err := cvpdf.Scan(bytes.NewReader(data), flagInspectContainer, flagMarker)
	if err != nil {
		return err
	}
	if len(elems) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "no %s elements in #%s\n", flagMarker, flagInspectContainer)
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTAG\tKEY\tFLAGS\tLINK\tTEXT")
	for i, e := range elems {
		text := strings.ReplaceAll(e.OverlayText(), "\n", " ⏎ ")
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i, e.Tag, orDash(e.Key), orDash(overrideFlags(e.Overrides)), orDash(e.LinkTarget()), text)
	}
	return tw.Flush()
}

func overrideFlags(o cvpdf.Overrides) string {
	var flags []string
	if o.NoWrap {
		flags = append(flags, "nowrap")
	}
	if o.RichText {
		flags = append(flags, "richtext")
	}
	if o.PaddingLeft != 0 {
		flags = append(flags, fmt.Sprintf("pad=%g", o.PaddingLeft))
	}
	if o.LinkOffsetY != 0 {
		flags = append(flags, fmt.Sprintf("linkdy=%g", o.LinkOffsetY))
	}
	return strings.Join(flags, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
