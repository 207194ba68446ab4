// Package cvpdf exports a résumé web page as a paginated PDF that is both
// faithful to the on-screen styling and readable by applicant tracking
// systems:
//
//   - the page container is rasterized by headless Chrome and sliced into
//     A4 page images
//   - elements flagged with the data-ats attribute are hidden from the
//     raster and redrawn on top as real PDF text, with clickable links
//
// # Exporting
//
// For one-off exports use the package-level helpers:
//
//	res, err := cvpdf.ExportURL(ctx, "http://localhost:3000", cvpdf.Job{
//	    Info: cvpdf.PersonalInfo{Name: "Jane Doe"},
//	})
//
// For repeated exports create a [Converter], which reuses the browser process:
//
//	c, err := cvpdf.NewConverter(cvpdf.WithNoSandbox())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	res, err := c.ExportFile(ctx, "cv.html", job)
//	path, err := res.Save("out") // out/Jane_Doe_CV.pdf
//
// A nil [Result] with a nil error means the container was not on the page.
//
// # Annotating the page
//
// Mark every element whose text must stay machine-readable:
//
//	<span data-ats>Senior Engineer</span>
//	<a href="https://github.com/jane" data-ats>github.com/jane</a>
//	<span data-ats data-ats-overridelink="https://youtu.be/x" data-ats-linkpaddingtop="-2">Watch Demo</span>
//
// Optional attributes tune the overlay: data-ats-nowrap, data-ats-paddingleft
// (mm), data-ats-overridelink, data-ats-linkpaddingtop (mm) and
// data-ats-richtext. The same overrides can be supplied in typed form with
// [WithHints], keyed by data-ats-key or the element id.
//
// # Custom environments
//
// [Exporter] runs the pipeline over any [DOM] and [Rasterizer], for
// example a browser session the caller already drives.
//
// # Verifying
//
// [Verify] reports the pages, overlay text and link targets of an exported
// PDF as a text extractor sees them. Rich-text fields can be previewed with
// the flatten subpackage.
package cvpdf
