package cvpdf

import (
	"math"
	"strings"

	"github.com/porticus-lab/go-cv-pdf/flatten"
)

// pageCount returns how many pages a raster of scaledHeight needs at
// pageHeight per page. A sliver below the tolerance does not start a page.
func pageCount(scaledHeight, pageHeight float64) int {
	if scaledHeight <= 0 || pageHeight <= 0 {
		return 0
	}
	return int(math.Ceil(scaledHeight/pageHeight - 1e-6))
}

// band is the vertical window of the full raster shown on one page.
type band struct {
	index int
	start float64
	end   float64
}

func pageBand(i int, pageHeight float64) band {
	start := float64(i) * pageHeight
	return band{index: i, start: start, end: start + pageHeight}
}

// pageBands returns the bands of a document with the given number of
// pages. The last band is open-ended so that nothing below the final page
// break, such as an element in the sliver pageCount ignores or lines
// running past the raster, is lost from the text layer.
func pageBands(pages int, pageHeight float64) []band {
	bands := make([]band, pages)
	for i := range bands {
		bands[i] = pageBand(i, pageHeight)
	}
	if pages > 0 {
		bands[pages-1].end = math.Inf(1)
	}
	return bands
}

func (b band) contains(y float64) bool {
	return y >= b.start && y < b.end
}

// projection maps container CSS pixels to document millimetres.
type projection struct {
	scaleX float64
	scaleY float64
}

func newProjection(pageWidth, scaledHeight float64, container Box) projection {
	return projection{
		scaleX: pageWidth / container.Width,
		scaleY: scaledHeight / container.Height,
	}
}

func (p projection) box(b Box) Box {
	return Box{
		Left:   b.Left * p.scaleX,
		Top:    b.Top * p.scaleY,
		Width:  b.Width * p.scaleX,
		Height: b.Height * p.scaleY,
	}
}

// overlay is the text and links one element contributes to one page.
type overlay struct {
	fontSize float64 // Points.
	bold     bool
	color    [3]int
	hasColor bool
	lines    []overlayLine
}

type overlayLine struct {
	text  string
	x, y  float64
	align Align
	link  *linkRect
}

type linkRect struct {
	x, y, w, h float64
	url        string
}

// splitFunc wraps text to a width in millimetres.
type splitFunc func(s string, width float64) []string

// place lays out the lines of elem that fall on page b. Lines are laid out
// from the element's projected top in document coordinates; each one is
// drawn on the page whose band holds its baseline, with y relative to that
// page. A wrapped element that crosses a page break therefore continues on
// the next page.
// place reports false when no line lands on b.
func place(elem Element, p projection, b band, split splitFunc) (overlay, bool) {
	box := p.box(elem.Box)
	if box.Top < 0 || box.Top >= b.end {
		return overlay{}, false
	}

	text := overlayText(elem)
	if strings.TrimSpace(text) == "" {
		return overlay{}, false
	}

	lineHeight := pxToLineHeight(elem.Style.FontSize)
	baseline := box.Top + lineHeight/2
	if baseline >= b.end {
		return overlay{}, false
	}

	var lines []string
	if elem.Overrides.NoWrap {
		lines = []string{strings.TrimSpace(text)}
	} else {
		lines = split(strings.TrimSpace(text), box.Width)
	}
	if last := baseline + float64(len(lines)-1)*lineHeight; last < b.start {
		return overlay{}, false
	}

	ov := overlay{
		fontSize: pxToPt(elem.Style.FontSize),
		bold:     elem.Style.FontWeight >= 600,
	}
	if r, g, bl, ok := parseColor(elem.Style.Color); ok {
		ov.color = [3]int{r, g, bl}
		ov.hasColor = true
	}

	align := AlignLeft
	x := box.Left + elem.Overrides.PaddingLeft
	switch elem.Style.TextAlign {
	case "center":
		align = AlignCenter
		x = box.Left + box.Width/2
	case "right":
		align = AlignRight
		x = box.Left + box.Width
	}

	var url string
	if elem.IsLink() {
		url = elem.LinkTarget()
	}
	for i, l := range lines {
		abs := baseline + float64(i)*lineHeight
		if !b.contains(abs) {
			continue
		}
		y := abs - b.start
		line := overlayLine{text: l, x: x, y: y, align: align}
		if url != "" && l != "" {
			line.link = &linkRect{
				x:   box.Left,
				y:   y + elem.Overrides.LinkOffsetY,
				w:   box.Width,
				h:   lineHeight,
				url: url,
			}
		}
		ov.lines = append(ov.lines, line)
	}
	return ov, len(ov.lines) > 0
}

func overlayText(elem Element) string {
	if elem.Overrides.RichText {
		return flatten.Text(elem.Markup)
	}
	return elem.Text
}

// emit draws ov onto the current page of doc.
func (ov overlay) emit(doc Document) {
	doc.SetFontSize(ov.fontSize)
	doc.SetFont(ov.bold)
	if ov.hasColor {
		doc.SetTextColor(ov.color[0], ov.color[1], ov.color[2])
	}
	for _, l := range ov.lines {
		if l.text == "" {
			continue
		}
		doc.Text(l.text, l.x, l.y, l.align)
		if l.link != nil {
			doc.Link(l.link.x, l.link.y, l.link.w, l.link.h, l.link.url)
		}
	}
}

// wrapText greedily wraps s to width using measure for string widths.
// Newlines force breaks and blank paragraphs are kept as empty lines.
// Words wider than width are broken between runes.
func wrapText(s string, width float64, measure func(string) float64) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		if width <= 0 {
			out = append(out, strings.Join(words, " "))
			continue
		}
		var cur string
		for _, w := range words {
			cand := w
			if cur != "" {
				cand = cur + " " + w
			}
			if measure(cand) <= width {
				cur = cand
				continue
			}
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			if measure(w) <= width {
				cur = w
				continue
			}
			pieces := breakWord(w, width, measure)
			out = append(out, pieces[:len(pieces)-1]...)
			cur = pieces[len(pieces)-1]
		}
		if cur != "" {
			out = append(out, cur)
		}
	}
	return out
}

func breakWord(w string, width float64, measure func(string) float64) []string {
	var out []string
	var cur strings.Builder
	for _, r := range w {
		if cur.Len() > 0 && measure(cur.String()+string(r)) > width {
			out = append(out, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
