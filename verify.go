package cvpdf

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"
)

// Report describes what a text extractor such as an ATS sees in an
// exported PDF.
type Report struct {
	Pages int
	// Text holds the overlay text of each page, one line per text run.
	Text []string
	// Links lists the URI targets of link annotations in document order.
	Links []string
}

// Verify validates an exported PDF and extracts its overlay text and link
// targets. Text is decoded as Windows-1252, the encoding the exporter
// writes; characters outside it were already replaced at export time.
func Verify(r io.ReadSeeker) (*Report, error) {
	// pdfcpu otherwise installs its configuration under the user's config dir.
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(r, conf)
	if err != nil {
		return nil, fmt.Errorf("cvpdf: reading PDF: %w", err)
	}

	rep := &Report{Pages: ctx.PageCount}
	annots := pdfcpu.AnnotationsForSelectedPages(ctx, nil)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		content, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("cvpdf: reading page %d: %w", pageNr, err)
		}
		data, err := io.ReadAll(content)
		if err != nil {
			return nil, fmt.Errorf("cvpdf: reading page %d: %w", pageNr, err)
		}
		rep.Text = append(rep.Text, strings.Join(showText(data), "\n"))
		rep.Links = append(rep.Links, pageLinks(annots[pageNr])...)
	}
	return rep, nil
}

// pageLinks returns the URI targets of a page's link annotations in the
// order of its Annots array.
func pageLinks(pa model.PgAnnots) []string {
	annots, ok := pa[model.AnnLink]
	if !ok {
		return nil
	}

	var keys []int
	if annots.IndRefs != nil {
		for _, ref := range *annots.IndRefs {
			keys = append(keys, ref.ObjectNumber.Value())
		}
	}
	// Direct annotation dicts are keyed by their negated array index.
	var direct []int
	for k := range annots.Map {
		if k <= 0 {
			direct = append(direct, k)
		}
	}
	slices.Sort(direct)
	slices.Reverse(direct)
	keys = append(keys, direct...)

	var out []string
	for _, k := range keys {
		var uri string
		switch l := annots.Map[k].(type) {
		case model.LinkAnnotation:
			uri = l.URI
		case *model.LinkAnnotation:
			uri = l.URI
		}
		if uri != "" {
			out = append(out, uri)
		}
	}
	return out
}

// Contains reports whether any page's overlay text contains s.
func (r *Report) Contains(s string) bool {
	for _, t := range r.Text {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

var (
	disableConfigDir sync.Once

	// showRe matches a literal string shown with the Tj operator.
	showRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*Tj`)
)

func showText(content []byte) []string {
	var out []string
	for _, m := range showRe.FindAllSubmatch(content, -1) {
		out = append(out, decodeWinAnsi(unescapePDFString(m[1])))
	}
	return out
}

// unescapePDFString resolves the backslash escapes of a PDF literal string.
func unescapePDFString(b []byte) []byte {
	if !bytes.ContainsRune(b, '\\') {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c != '\\' || i+1 == len(b) {
			out = append(out, c)
			continue
		}
		i++
		switch e := b[i]; e {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(b) && j < i+3 && b[j] >= '0' && b[j] <= '7' {
				j++
			}
			n, _ := strconv.ParseUint(string(b[i:j]), 8, 8)
			out = append(out, byte(n))
			i = j - 1
		default:
			out = append(out, e)
		}
	}
	return out
}

// decodeWinAnsi converts the cp1252 text of the core fonts to UTF-8.
func decodeWinAnsi(b []byte) string {
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
