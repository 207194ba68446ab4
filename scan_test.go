package cvpdf

import (
	"strings"
	"testing"
)

const scanPage = `<!DOCTYPE html>
<html><body>
<h1 data-ats>Outside</h1>
<div id="cv-content">
  <h1 id="name" data-ats>Jane Doe</h1>
  <a href="https://github.com/jane" data-ats data-ats-key="github" data-ats-nowrap data-ats-linkpaddingtop="1.5"><svg></svg>github.com/jane</a>
  <div data-ats data-ats-richtext data-ats-overridelink="mailto:jane@example.com"><ul><li>Go</li><li>PDF</li></ul></div>
  <p data-ats data-ats-nowrap="false" data-ats-paddingleft="4">Summary</p>
</div>
</body></html>`

func TestScan(t *testing.T) {
	elems, err := Scan(strings.NewReader(scanPage), "cv-content", "")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(elems) != 4 {
		t.Fatalf("Scan found %d elements, want 4", len(elems))
	}

	name, link, rich, summary := elems[0], elems[1], elems[2], elems[3]

	if name.Tag != "h1" || name.Text != "Jane Doe" || name.Key != "name" || name.IsLink() {
		t.Errorf("name = %+v", name)
	}

	if link.Key != "github" || !link.Overrides.NoWrap || link.Overrides.LinkOffsetY != 1.5 {
		t.Errorf("link overrides = %+v key %q", link.Overrides, link.Key)
	}
	if link.LinkTarget() != "https://github.com/jane" {
		t.Errorf("link target = %q", link.LinkTarget())
	}

	if !rich.Overrides.RichText || rich.LinkTarget() != "mailto:jane@example.com" {
		t.Errorf("rich = %+v", rich)
	}
	if got, want := rich.OverlayText(), "\n• Go\n\n• PDF"; got != want {
		t.Errorf("rich OverlayText = %q, want %q", got, want)
	}

	if summary.Overrides.NoWrap || summary.Overrides.PaddingLeft != 4 {
		t.Errorf("summary overrides = %+v", summary.Overrides)
	}
	if summary.OverlayText() != "Summary" {
		t.Errorf("summary OverlayText = %q", summary.OverlayText())
	}
}

func TestScan_WholeDocument(t *testing.T) {
	elems, err := Scan(strings.NewReader(scanPage), "", DefaultMarker)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(elems) != 5 || elems[0].Text != "Outside" {
		t.Errorf("Scan whole document = %d elements, first %q", len(elems), elems[0].Text)
	}
}

func TestScan_MissingContainer(t *testing.T) {
	elems, err := Scan(strings.NewReader(scanPage), "nope", "")
	if err != nil || elems != nil {
		t.Errorf("Scan = %v, %v; want nil, nil", elems, err)
	}
}

func TestScan_CustomMarker(t *testing.T) {
	page := `<div id="cv"><span data-pdf data-pdf-key="k" data-pdf-nowrap>x</span><span data-ats>y</span></div>`
	elems, err := Scan(strings.NewReader(page), "cv", "data-pdf")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(elems) != 1 || elems[0].Key != "k" || !elems[0].Overrides.NoWrap {
		t.Errorf("Scan = %+v", elems)
	}
}
