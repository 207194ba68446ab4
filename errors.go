package cvpdf

import "errors"

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Converter].
	ErrClosed = errors.New("cvpdf: converter is closed")

	// ErrExportInProgress is returned by [Exporter.Export] when another
	// export is already running on the same Exporter.
	ErrExportInProgress = errors.New("cvpdf: export already in progress")

	// ErrEmptyRaster is returned when the container rasterizes to an image
	// with no width or height.
	ErrEmptyRaster = errors.New("cvpdf: rasterized container is empty")
)
