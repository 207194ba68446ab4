package flatten

import (
	"fmt"
	"sync"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Sanitize strips unsafe markup from user-supplied rich text while keeping
// the formatting elements Lines understands (lists, breaks, emphasis, links).
func Sanitize(s string) string {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy.Sanitize(s)
}

// Markdown converts rich text to Markdown, an alternative plain-text form
// for ATS text blocks that keeps link targets.
func Markdown(s string) (string, error) {
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return "", fmt.Errorf("flatten: converting to markdown: %w", err)
	}
	return md, nil
}
