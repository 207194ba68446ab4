package cvpdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"
)

const overlayFont = "Helvetica"

// fpdfDocument is the gofpdf-backed [Document]. Text is translated from
// UTF-8 to the cp1252 encoding of the core fonts, so bullets and Latin
// accents survive.
type fpdfDocument struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	size   float64
	bold   bool
	images map[*Raster]string
}

func newFPDFDocument(size PageSize) Document {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCreator("go-cv-pdf", true)

	d := &fpdfDocument{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		size:   12,
		images: make(map[*Raster]string),
	}
	d.applyFont()
	return d
}

func (d *fpdfDocument) PageSize() (float64, float64) {
	return d.pdf.GetPageSize()
}

func (d *fpdfDocument) SetMetadata(title, author string) {
	d.pdf.SetTitle(title, true)
	d.pdf.SetAuthor(author, true)
}

func (d *fpdfDocument) AddPage() {
	d.pdf.AddPage()
	d.applyFont()
}

func (d *fpdfDocument) AddImage(r *Raster, x, y, w, h float64) error {
	opts := gofpdf.ImageOptions{ImageType: r.Format, AllowNegativePosition: true}
	name, ok := d.images[r]
	if !ok {
		name = fmt.Sprintf("raster%d", len(d.images))
		d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(r.Data))
		d.images[r] = name
	}
	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("cvpdf: placing page image: %w", err)
	}
	return nil
}

func (d *fpdfDocument) SetFontSize(pt float64) {
	if pt > 0 {
		d.size = pt
	}
	d.applyFont()
}

func (d *fpdfDocument) SetFont(bold bool) {
	d.bold = bold
	d.applyFont()
}

// applyFont sets family, style and size together. gofpdf writes a font
// operator on SetFontSize, which is malformed before any font is chosen.
func (d *fpdfDocument) applyFont() {
	style := ""
	if d.bold {
		style = "B"
	}
	d.pdf.SetFont(overlayFont, style, d.size)
}

func (d *fpdfDocument) SetTextColor(r, g, b int) {
	d.pdf.SetTextColor(r, g, b)
}

func (d *fpdfDocument) Text(s string, x, y float64, align Align) {
	t := d.tr(s)
	switch align {
	case AlignCenter:
		x -= d.pdf.GetStringWidth(t) / 2
	case AlignRight:
		x -= d.pdf.GetStringWidth(t)
	}
	d.pdf.Text(x, y, t)
}

func (d *fpdfDocument) Link(x, y, w, h float64, url string) {
	d.pdf.LinkString(x, y, w, h, url)
}

func (d *fpdfDocument) SplitText(s string, width float64) []string {
	return wrapText(s, width, func(t string) float64 {
		return d.pdf.GetStringWidth(d.tr(t))
	})
}

func (d *fpdfDocument) Output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("cvpdf: writing document: %w", err)
	}
	return nil
}

// winAnsiEncodable reports whether s survives the cp1252 translation of the
// core fonts unchanged.
func winAnsiEncodable(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}
