package cvpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// DefaultContainerID is the id of the element exported when a [Job] does
// not name one.
const DefaultContainerID = "cv-content"

// layoutFixID identifies the stylesheet injected before rasterization.
// Inline images misalign with the overlay unless they are inline blocks.
const (
	layoutFixID  = "cvpdf-layout-fix"
	layoutFixCSS = "body > div:last-child img { display: inline-block; }"
)

// PersonalInfo is the metadata an export needs about the résumé owner.
type PersonalInfo struct {
	Name string
}

// Exporter flattens a container of a live document into a paginated PDF:
// a raster image per page with the annotated elements redrawn on top as
// selectable text and clickable links.
//
// Overlay text is drawn with the PDF core fonts, which cover Windows-1252
// only. Other characters, such as CJK or emoji, are replaced in the text
// layer and logged at warn level.
//
// An Exporter runs one export at a time; concurrent calls to Export fail
// with [ErrExportInProgress].
type Exporter struct {
	dom    DOM
	raster Rasterizer
	cfg    config
	busy   atomic.Bool
}

// NewExporter creates an Exporter over a document and a rasterizer.
func NewExporter(dom DOM, r Rasterizer, opts ...Option) *Exporter {
	return &Exporter{dom: dom, raster: r, cfg: newConfig(opts)}
}

// Export renders the container with the given id.
//
// When no such container exists Export does nothing and returns a nil
// Result and a nil error. Annotated elements are always restored before
// Export returns, whether it succeeds or not.
func (e *Exporter) Export(ctx context.Context, containerID string, info PersonalInfo) (res *Result, err error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)

	log := e.cfg.logger.With("container", containerID)

	container, ok, err := e.dom.Container(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("cvpdf: locating container: %w", err)
	}
	if !ok {
		log.Debug("cvpdf: container not found, nothing exported")
		return nil, nil
	}
	if container.Width <= 0 || container.Height <= 0 {
		return nil, fmt.Errorf("%w: container %q has no size", ErrEmptyRaster, containerID)
	}

	if err := e.dom.InjectStyle(ctx, layoutFixID, layoutFixCSS); err != nil {
		return nil, fmt.Errorf("cvpdf: injecting layout fix: %w", err)
	}

	elems, err := e.dom.Annotated(ctx, containerID, e.cfg.marker)
	if err != nil {
		return nil, fmt.Errorf("cvpdf: capturing annotated elements: %w", err)
	}
	elems = e.cfg.hints.apply(elems)
	log.Debug("cvpdf: captured annotated elements", "count", len(elems))
	for _, el := range elems {
		if t := overlayText(el); !winAnsiEncodable(t) {
			log.Warn("cvpdf: overlay text has characters the PDF core fonts cannot encode; they are replaced",
				"key", el.Key, "tag", el.Tag, "text", t)
		}
	}

	defer func() {
		if rerr := e.dom.Restore(context.WithoutCancel(ctx), elems); rerr != nil {
			log.Warn("cvpdf: restoring annotated elements failed", "error", rerr)
			res = nil
			err = errors.Join(err, fmt.Errorf("cvpdf: restoring annotated elements: %w", rerr))
		}
	}()

	if err := e.dom.Hide(ctx, elems); err != nil {
		return nil, fmt.Errorf("cvpdf: hiding annotated elements: %w", err)
	}
	if err := sleep(ctx, e.cfg.settle); err != nil {
		return nil, err
	}

	doc := e.cfg.newDocument(e.cfg.pageSize)
	doc.SetMetadata(info.Name+" CV", info.Name)
	pageW, pageH := doc.PageSize()

	raster, err := e.raster.Rasterize(ctx, containerID, RasterOptions{
		Scale:         e.cfg.scale,
		Background:    e.cfg.background,
		Quality:       e.cfg.quality,
		WaitForImages: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cvpdf: rasterizing container: %w", err)
	}
	if raster.Width <= 0 || raster.Height <= 0 {
		return nil, ErrEmptyRaster
	}

	scaledH := float64(raster.Height) * pageW / float64(raster.Width)
	pages := pageCount(scaledH, pageH)
	proj := newProjection(pageW, scaledH, container)
	log.Debug("cvpdf: paginating", "raster_width", raster.Width, "raster_height", raster.Height, "pages", pages)

	for _, b := range pageBands(pages, pageH) {
		doc.AddPage()
		if err := doc.AddImage(raster, 0, -b.start, pageW, scaledH); err != nil {
			return nil, err
		}
		for _, el := range elems {
			if ov, ok := place(el, proj, b, splitAs(doc, el)); ok {
				ov.emit(doc)
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	log.Debug("cvpdf: export complete", "bytes", buf.Len())

	return &Result{
		data:     buf.Bytes(),
		filename: Filename(info.Name),
		pages:    pages,
	}, nil
}

// splitAs wraps text with the document font set to el's typography, so
// line widths are measured in the font the lines are drawn with.
func splitAs(doc Document, el Element) splitFunc {
	return func(s string, width float64) []string {
		doc.SetFontSize(pxToPt(el.Style.FontSize))
		doc.SetFont(el.Style.FontWeight >= 600)
		return doc.SplitText(s, width)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("cvpdf: export interrupted: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
