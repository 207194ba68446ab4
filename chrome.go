package cvpdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// chromePage implements [DOM] and [Rasterizer] over a Chrome tab. Every
// method must be called with a context derived from a chromedp tab
// context.
//
// Captured elements are kept in a page global between Annotated and
// Restore so no marker attributes are written into the document.
type chromePage struct{}

const elementsGlobal = "window.__cvpdfElements"

// jsArg encodes v as a JavaScript literal.
func jsArg(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func evaluate(ctx context.Context, script string, out any, awaitPromise bool) error {
	var opts []chromedp.EvaluateOption
	if awaitPromise {
		opts = append(opts, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		})
	}
	return chromedp.Run(ctx, chromedp.Evaluate(script, out, opts...))
}

type jsBox struct {
	Found  bool    `json:"found"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (p *chromePage) Container(ctx context.Context, id string) (Box, bool, error) {
	script := fmt.Sprintf(`(() => {
		const el = document.getElementById(%s);
		if (!el) return {found: false};
		return {found: true, left: 0, top: 0, width: el.offsetWidth, height: el.offsetHeight};
	})()`, jsArg(id))

	var res jsBox
	if err := evaluate(ctx, script, &res, false); err != nil {
		return Box{}, false, fmt.Errorf("query container: %w", err)
	}
	if !res.Found {
		return Box{}, false, nil
	}
	return Box{Width: res.Width, Height: res.Height}, true, nil
}

func (p *chromePage) InjectStyle(ctx context.Context, id, css string) error {
	script := fmt.Sprintf(`(() => {
		if (document.getElementById(%[1]s)) return false;
		const style = document.createElement('style');
		style.id = %[1]s;
		style.textContent = %[2]s;
		document.head.appendChild(style);
		return true;
	})()`, jsArg(id), jsArg(css))

	var injected bool
	return evaluate(ctx, script, &injected, false)
}

type jsElement struct {
	Ref        int               `json:"ref"`
	ID         string            `json:"id"`
	Tag        string            `json:"tag"`
	Href       string            `json:"href"`
	Left       float64           `json:"left"`
	Top        float64           `json:"top"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Text       string            `json:"text"`
	Markup     string            `json:"markup"`
	Visibility string            `json:"visibility"`
	FontSize   string            `json:"fontSize"`
	FontWeight string            `json:"fontWeight"`
	Color      string            `json:"color"`
	TextAlign  string            `json:"textAlign"`
	Attrs      map[string]string `json:"attrs"`
}

func (p *chromePage) Annotated(ctx context.Context, containerID, marker string) ([]Element, error) {
	script := fmt.Sprintf(`(() => {
		const container = document.getElementById(%[1]s);
		if (!container) return [];
		const c = container.getBoundingClientRect();
		const nodes = Array.from(container.querySelectorAll('[' + %[2]s + ']'));
		%[3]s = nodes;
		return nodes.map((el, i) => {
			const r = el.getBoundingClientRect();
			const cs = window.getComputedStyle(el);
			const attrs = {};
			for (const a of el.attributes) {
				if (a.name.startsWith(%[2]s)) attrs[a.name] = a.value;
			}
			return {
				ref: i,
				id: el.id || '',
				tag: el.tagName.toLowerCase(),
				href: el.getAttribute('href') || '',
				left: r.left - c.left,
				top: r.top - c.top,
				width: r.width,
				height: r.height,
				text: el.textContent || '',
				markup: el.innerHTML,
				visibility: el.style.visibility,
				fontSize: cs.fontSize,
				fontWeight: cs.fontWeight,
				color: cs.color,
				textAlign: cs.textAlign,
				attrs: attrs,
			};
		});
	})()`, jsArg(containerID), jsArg(marker), elementsGlobal)

	var raw []jsElement
	if err := evaluate(ctx, script, &raw, false); err != nil {
		return nil, err
	}

	elems := make([]Element, len(raw))
	for i, r := range raw {
		elems[i] = Element{
			Ref:        r.Ref,
			Key:        elementKey(r.Attrs, marker, r.ID),
			Tag:        r.Tag,
			Href:       r.Href,
			Box:        Box{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height},
			Text:       r.Text,
			Markup:     r.Markup,
			Visibility: r.Visibility,
			Style: Style{
				FontSize:   parseFontSize(r.FontSize),
				FontWeight: parseFontWeight(r.FontWeight),
				Color:      r.Color,
				TextAlign:  r.TextAlign,
			},
			Overrides: parseOverrides(r.Attrs, marker),
		}
	}
	return elems, nil
}

func (p *chromePage) Hide(ctx context.Context, elems []Element) error {
	refs := make([]int, len(elems))
	for i, e := range elems {
		refs[i] = e.Ref
	}
	script := fmt.Sprintf(`(() => {
		const nodes = %[2]s || [];
		for (const ref of %[1]s) {
			if (nodes[ref]) nodes[ref].style.visibility = 'hidden';
		}
		return true;
	})()`, jsArg(refs), elementsGlobal)

	var ok bool
	return evaluate(ctx, script, &ok, false)
}

type jsRestore struct {
	Ref        int    `json:"ref"`
	Markup     string `json:"markup"`
	Visibility string `json:"visibility"`
}

func (p *chromePage) Restore(ctx context.Context, elems []Element) error {
	states := make([]jsRestore, len(elems))
	for i, e := range elems {
		states[i] = jsRestore{Ref: e.Ref, Markup: e.Markup, Visibility: e.Visibility}
	}
	script := fmt.Sprintf(`(() => {
		const nodes = %[2]s || [];
		let restored = 0;
		for (const s of %[1]s) {
			const el = nodes[s.ref];
			if (!el) continue;
			if (el.innerHTML !== s.markup) el.innerHTML = s.markup;
			el.style.visibility = s.visibility;
			restored++;
		}
		delete %[2]s;
		return restored;
	})()`, jsArg(states), elementsGlobal)

	var restored int
	return evaluate(ctx, script, &restored, false)
}

type jsClip struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (p *chromePage) Rasterize(ctx context.Context, containerID string, opts RasterOptions) (*Raster, error) {
	if opts.WaitForImages {
		script := fmt.Sprintf(`(() => {
			const el = document.getElementById(%s);
			if (!el) return Promise.resolve(true);
			const pending = Array.from(el.querySelectorAll('img'))
				.filter(img => !img.complete)
				.map(img => new Promise(resolve => {
					img.addEventListener('load', resolve, {once: true});
					img.addEventListener('error', resolve, {once: true});
				}));
			return Promise.all(pending).then(() => true);
		})()`, jsArg(containerID))
		var done bool
		if err := evaluate(ctx, script, &done, true); err != nil {
			return nil, fmt.Errorf("waiting for images: %w", err)
		}
	}

	var clip jsClip
	script := fmt.Sprintf(`(() => {
		const r = document.getElementById(%s).getBoundingClientRect();
		return {x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height};
	})()`, jsArg(containerID))
	if err := evaluate(ctx, script, &clip, false); err != nil {
		return nil, fmt.Errorf("measuring container: %w", err)
	}

	bg := opts.Background
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		err := emulation.SetDefaultBackgroundColorOverride().
			WithColor(&cdp.RGBA{R: int64(bg.R), G: int64(bg.G), B: int64(bg.B), A: float64(bg.A) / 255}).
			Do(ctx)
		if err != nil {
			return err
		}
		defer emulation.SetDefaultBackgroundColorOverride().Do(ctx)

		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatJpeg).
			WithQuality(int64(opts.Quality)).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true).
			WithClip(&page.Viewport{
				X:      clip.X,
				Y:      clip.Y,
				Width:  clip.Width,
				Height: clip.Height,
				Scale:  opts.Scale,
			}).
			Do(ctx)
		return err
	})); err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot: %w", err)
	}
	f := "JPEG"
	if format == "png" {
		f = "PNG"
	}
	return &Raster{Data: buf, Format: f, Width: cfg.Width, Height: cfg.Height}, nil
}
