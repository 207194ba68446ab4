package cvpdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Result holds an exported résumé PDF and provides helpers for common
// output formats such as raw bytes, base64 encoding, and streaming readers.
//
// A Result is returned by every successful export. Its data is never
// modified, so methods may be called any number of times.
type Result struct {
	data     []byte
	filename string
	pages    int
}

// Filename returns the suggested file name, for example "Jane_Doe_CV.pdf".
func (r *Result) Filename() string {
	return r.filename
}

// Pages returns the number of pages in the document.
func (r *Result) Pages() int {
	return r.pages
}

// Bytes returns the raw PDF content.
func (r *Result) Bytes() []byte {
	return r.data
}

// Base64 returns the PDF encoded as a standard base64 string (RFC 4648).
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.data)
}

// Reader returns an [*bytes.Reader] over the PDF content.
func (r *Result) Reader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// WriteTo writes the full PDF content to w. It implements [io.WriterTo].
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// WriteToFile writes the PDF to the file at path, creating it if needed.
func (r *Result) WriteToFile(path string, perm os.FileMode) error {
	return os.WriteFile(path, r.data, perm)
}

// Save writes the PDF into dir under [Result.Filename] and returns the
// path written. An empty dir means the current directory.
func (r *Result) Save(dir string) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("cvpdf: creating output directory: %w", err)
		}
	}
	path := filepath.Join(dir, r.filename)
	if err := r.WriteToFile(path, 0o644); err != nil {
		return "", fmt.Errorf("cvpdf: saving %s: %w", path, err)
	}
	return path, nil
}

// Len returns the size of the PDF in bytes.
func (r *Result) Len() int {
	return len(r.data)
}

// Filename derives the download name from a person's name. Only the first
// space becomes an underscore: "Jane Mary Smith" gives
// "Jane_Mary Smith_CV.pdf".
func Filename(name string) string {
	return strings.Replace(name, " ", "_", 1) + "_CV.pdf"
}
