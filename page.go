package cvpdf

import "strings"

// PageSize represents paper dimensions in millimetres, the document units
// of every exported PDF.
type PageSize struct {
	Width  float64 // Width in millimetres.
	Height float64 // Height in millimetres.
}

// Standard portrait paper sizes.
var (
	A3     = PageSize{Width: 297, Height: 420}
	A4     = PageSize{Width: 210, Height: 297}
	A5     = PageSize{Width: 148, Height: 210}
	Letter = PageSize{Width: 215.9, Height: 279.4}
	Legal  = PageSize{Width: 215.9, Height: 355.6}
)

// pxToPt converts a CSS font size to the overlay font size in points.
// The raster is oversampled twice, so half the CSS pixel size keeps the
// overlay proportional to the page image.
func pxToPt(px float64) float64 {
	return px * 0.5
}

// pxToLineHeight converts a CSS font size to an overlay line height in
// millimetres.
func pxToLineHeight(px float64) float64 {
	return px * 0.352778
}

var pageSizes = map[string]PageSize{
	"a3":     A3,
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// LookupPageSize returns the standard size with the given case-insensitive
// name, such as "A4" or "letter".
func LookupPageSize(name string) (PageSize, bool) {
	s, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}
