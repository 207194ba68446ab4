// Command cvpdf exports résumé pages to ATS-friendly PDFs and inspects the
// result.
//
// Usage:
//
//	cvpdf export <url-or-file> --name "Jane Doe" [flags]
//	cvpdf export --config job.yaml
//	cvpdf inspect cv.html
//	cvpdf flatten --format markdown snippet.html
//	cvpdf verify Jane_Doe_CV.pdf
package main

func main() {
	execute()
}
