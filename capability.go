package cvpdf

import (
	"context"
	"image/color"
	"io"
)

// DOM is the live document an export reads from and temporarily mutates.
//
// Implementations must make InjectStyle idempotent per id and Restore safe
// to call after a partial Hide.
type DOM interface {
	// Container reports the size of the element with the given id in CSS
	// pixels. ok is false when no such element exists.
	Container(ctx context.Context, id string) (box Box, ok bool, err error)

	// InjectStyle adds a stylesheet with the given element id unless one is
	// already present.
	InjectStyle(ctx context.Context, id, css string) error

	// Annotated snapshots every descendant of the container that carries
	// the marker attribute, in document order.
	Annotated(ctx context.Context, containerID, marker string) ([]Element, error)

	// Hide makes elements invisible while keeping their layout box.
	Hide(ctx context.Context, elems []Element) error

	// Restore puts back each element's captured markup and inline
	// visibility.
	Restore(ctx context.Context, elems []Element) error
}

// RasterOptions controls how a container is rasterized.
type RasterOptions struct {
	// Scale is the oversampling factor relative to CSS pixels.
	Scale float64
	// Background is painted behind transparent content.
	Background color.RGBA
	// Quality is the JPEG quality, 1-100.
	Quality int
	// WaitForImages waits for pending images, cross-origin ones included,
	// before capturing.
	WaitForImages bool
}

// Raster is an encoded bitmap of the whole container.
type Raster struct {
	Data   []byte
	Format string // "JPEG" or "PNG".
	Width  int    // Pixels.
	Height int    // Pixels.
}

// Rasterizer captures a bitmap of a container element.
type Rasterizer interface {
	Rasterize(ctx context.Context, containerID string, opts RasterOptions) (*Raster, error)
}

// Align is the horizontal anchoring of an overlay line.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Document builds the output PDF. All coordinates are in millimetres with
// the origin at the top-left corner of the current page.
type Document interface {
	PageSize() (width, height float64)
	SetMetadata(title, author string)
	AddPage()
	AddImage(r *Raster, x, y, w, h float64) error
	SetFontSize(pt float64)
	SetFont(bold bool)
	SetTextColor(r, g, b int)
	// Text draws s with its baseline at y. x is the left edge, centre or
	// right edge of the text depending on align.
	Text(s string, x, y float64, align Align)
	Link(x, y, w, h float64, url string)
	// SplitText wraps s into lines no wider than width at the current font.
	SplitText(s string, width float64) []string
	Output(w io.Writer) error
}
