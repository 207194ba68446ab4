// Package flatten reduces rich-text HTML to plain-text lines suitable for
// machine-readable output such as a PDF text layer or an ATS-friendly block.
//
// Lines is the core routine:
//
//	flatten.Lines("Intro<ul><li>Go</li><li>SQL</li></ul>")
//	// ["Intro", "", "• Go", "", "• SQL"]
//
// Unordered list items are bulleted and each is preceded by a blank line.
// Ordered list items are labelled a), b), c) by their position among the
// list's item children. Nested lists inside a list item are dropped.
// Consecutive <br> elements collapse to a single blank line and trailing
// blank lines are removed.
package flatten

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Bullet prefixes every unordered list item.
const Bullet = "• "

// Lines converts an HTML fragment into ordered plain-text lines. An empty
// string in the result is an intentional blank line. The last line is
// never blank.
//
// Malformed markup is parsed permissively and never causes a failure.
func Lines(s string) []string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Only reachable on reader errors, which strings.Reader never returns.
		if t := strings.TrimSpace(s); t != "" {
			return []string{t}
		}
		return nil
	}

	f := &flattener{}
	if body := findBody(doc); body != nil {
		f.walk(body)
	} else {
		f.walk(doc)
	}
	return trimTrailingBlank(f.lines)
}

// Text is Lines joined with newlines.
func Text(s string) string {
	return strings.Join(Lines(s), "\n")
}

type flattener struct {
	lines []string
}

func (f *flattener) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			f.lines = append(f.lines, t)
		}
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			f.lineBreak()
			return
		case atom.Ul:
			f.unordered(n)
			return
		case atom.Ol:
			f.ordered(n)
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.walk(c)
	}
}

func (f *flattener) lineBreak() {
	if len(f.lines) == 0 || f.lines[len(f.lines)-1] != "" {
		f.lines = append(f.lines, "")
	}
}

func (f *flattener) unordered(n *html.Node) {
	for _, li := range items(n) {
		if t := strings.TrimSpace(itemText(li)); t != "" {
			f.lines = append(f.lines, "", Bullet+t)
		}
	}
}

func (f *flattener) ordered(n *html.Node) {
	for i, li := range items(n) {
		if t := strings.TrimSpace(itemText(li)); t != "" {
			f.lines = append(f.lines, Label(i)+t)
		}
	}
}

// Label returns the ordered-list label for the item at zero-based index i:
// "a) ", "b) ", ... wrapping back to "a) " after "z) ".
func Label(i int) string {
	return string(rune('a'+i%26)) + ") "
}

// items returns the direct <li> children of a list element.
func items(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			out = append(out, c)
		}
	}
	return out
}

// itemText concatenates the raw text beneath n, skipping list subtrees.
// Adjacent block children are joined without a separator.
func itemText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				switch c.DataAtom {
				case atom.Ul, atom.Ol, atom.Li:
					continue
				}
				collect(c)
			}
		}
	}
	collect(n)
	return b.String()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
