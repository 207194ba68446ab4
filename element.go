package cvpdf

import (
	"maps"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMarker is the attribute that flags an element for the text and
// link overlay.
const DefaultMarker = "data-ats"

// Override attribute suffixes, appended to the marker with a dash.
const (
	attrNoWrap      = "nowrap"
	attrPaddingLeft = "paddingleft"
	attrLink        = "overridelink"
	attrLinkOffset  = "linkpaddingtop"
	attrRichText    = "richtext"
	attrKey         = "key"
)

// Box is an axis-aligned rectangle. Element boxes are in CSS pixels
// relative to the exported container; projected boxes are in millimetres.
type Box struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Style is the computed typography of an element, captured before the
// element is hidden.
type Style struct {
	FontSize   float64 // CSS pixels.
	FontWeight int
	Color      string // Computed colour, e.g. "rgb(29, 79, 216)".
	TextAlign  string
}

// Overrides are escape hatches for cases the geometry-to-typography
// projection cannot reproduce, such as icon-prefixed rows or custom link
// decorations.
type Overrides struct {
	// NoWrap emits the whole text as a single run even if it overflows.
	NoWrap bool `yaml:"no_wrap"`
	// PaddingLeft shifts left-aligned text right, in millimetres.
	PaddingLeft float64 `yaml:"padding_left"`
	// Link replaces the element's own href as the link target.
	Link string `yaml:"link"`
	// LinkOffsetY shifts the link hit-box vertically, in millimetres.
	LinkOffsetY float64 `yaml:"link_offset_y"`
	// RichText flattens the element's markup into lines instead of using
	// its raw text content.
	RichText bool `yaml:"rich_text"`
}

// Element is an immutable snapshot of an annotated element. Geometry,
// content and style are captured together before any mutation of the
// document.
type Element struct {
	Ref        int    // Identity in the live document, assigned at capture.
	Key        string // Hint lookup key: the key attribute, else the id.
	Tag        string // Lower-case tag name.
	Href       string
	Box        Box
	Text       string
	Markup     string
	Visibility string // Inline visibility before the export.
	Style      Style
	Overrides  Overrides
}

// IsLink reports whether the element carries a link target.
func (e Element) IsLink() bool {
	return e.Overrides.Link != "" || (e.Tag == "a" && e.Href != "")
}

// LinkTarget returns the override link if set, else the element's href.
func (e Element) LinkTarget() string {
	if e.Overrides.Link != "" {
		return e.Overrides.Link
	}
	if e.Tag == "a" {
		return e.Href
	}
	return ""
}

// Hints is a side-table of overrides keyed by element key. It lets the
// page that renders a field declare its overlay tweaks in typed form
// instead of through attributes.
type Hints map[string]Overrides

func (h Hints) merge(other Hints) Hints {
	if len(other) == 0 {
		return h
	}
	out := make(Hints, len(h)+len(other))
	maps.Copy(out, h)
	maps.Copy(out, other)
	return out
}

// apply returns elems with hinted overrides substituted.
func (h Hints) apply(elems []Element) []Element {
	if len(h) == 0 {
		return elems
	}
	out := make([]Element, len(elems))
	for i, e := range elems {
		if o, ok := h[e.Key]; ok && e.Key != "" {
			e.Overrides = o
		}
		out[i] = e
	}
	return out
}

// parseOverrides reads override attributes. attrs maps attribute names to
// values; marker is the annotation attribute the names are prefixed with.
// A boolean attribute counts as set unless its value is "false".
func parseOverrides(attrs map[string]string, marker string) Overrides {
	get := func(suffix string) (string, bool) {
		v, ok := attrs[marker+"-"+suffix]
		return strings.TrimSpace(v), ok
	}
	flag := func(suffix string) bool {
		v, ok := get(suffix)
		return ok && !strings.EqualFold(v, "false")
	}
	num := func(suffix string) float64 {
		v, ok := get(suffix)
		if !ok {
			return 0
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	}

	var o Overrides
	o.NoWrap = flag(attrNoWrap)
	o.RichText = flag(attrRichText)
	o.PaddingLeft = num(attrPaddingLeft)
	o.LinkOffsetY = num(attrLinkOffset)
	o.Link, _ = get(attrLink)
	return o
}

// elementKey picks the hint lookup key for an element.
func elementKey(attrs map[string]string, marker, id string) string {
	if k := strings.TrimSpace(attrs[marker+"-"+attrKey]); k != "" {
		return k
	}
	return id
}

var digitsRe = regexp.MustCompile(`\d+`)

// parseColor extracts an RGB triple from a computed colour string such as
// "rgb(29, 79, 216)" or "rgba(0, 0, 0, 0.5)".
func parseColor(s string) (r, g, b int, ok bool) {
	m := digitsRe.FindAllString(s, 3)
	if len(m) < 3 {
		return 0, 0, 0, false
	}
	var rgb [3]int
	for i, v := range m {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, 0, false
		}
		rgb[i] = n
	}
	return rgb[0], rgb[1], rgb[2], true
}

// parseFontSize parses a computed font size such as "14px".
func parseFontSize(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseFontWeight parses a computed font weight. Keywords map to their
// numeric equivalents.
func parseFontWeight(s string) int {
	s = strings.TrimSpace(s)
	switch s {
	case "bold", "bolder":
		return 700
	case "normal", "lighter", "":
		return 400
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 400
	}
	return int(f)
}
