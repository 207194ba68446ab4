package cvpdf

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

// Scan lists the annotated elements of a static HTML document without a
// browser. Scanned elements carry content, tag, link and overrides but no
// geometry or computed style. An empty containerID scans the whole
// document; a container that does not exist yields no elements.
func Scan(r io.Reader, containerID, marker string) ([]Element, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("cvpdf: parsing HTML: %w", err)
	}

	root := doc.Selection
	if containerID != "" {
		root = doc.Find(fmt.Sprintf("[id=%q]", containerID)).First()
		if root.Length() == 0 {
			return nil, nil
		}
	}

	var elems []Element
	root.Find("[" + marker + "]").Each(func(i int, s *goquery.Selection) {
		attrs := make(map[string]string)
		for _, a := range s.Nodes[0].Attr {
			attrs[a.Key] = a.Val
		}
		markup, _ := s.Html()
		elems = append(elems, Element{
			Ref:       i,
			Key:       elementKey(attrs, marker, s.AttrOr("id", "")),
			Tag:       goquery.NodeName(s),
			Href:      s.AttrOr("href", ""),
			Text:      s.Text(),
			Markup:    markup,
			Overrides: parseOverrides(attrs, marker),
		})
	})
	return elems, nil
}

// OverlayText returns the text an element contributes to the overlay:
// its flattened markup when marked as rich text, else its text content.
func (e Element) OverlayText() string {
	return overlayText(e)
}
