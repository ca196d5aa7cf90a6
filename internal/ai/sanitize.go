package ai

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// allowedFormattingTags is the structural vocabulary the formatter is
// permitted to emit. Anything else the model produces gets unwrapped.
const allowedFormattingTags = "h2,h3,p,ul,ol,li,strong,em,a,br"

var allowedTagSet = func() map[string]bool {
	set := make(map[string]bool)
	for _, tag := range strings.Split(allowedFormattingTags, ",") {
		set[tag] = true
	}
	return set
}()

// SanitizeFormattedHTML enforces the restricted tag set on model-formatted
// content: disallowed elements are unwrapped (their children survive), and
// all attributes are dropped except href on links.
func SanitizeFormattedHTML(input string) (string, error) {
	cleaned := stripMarkdownFences(input)
	if strings.TrimSpace(cleaned) == "" {
		return "", errors.New("formatted content is empty")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="fmt-root">` + cleaned + `</div>`))
	if err != nil {
		return "", err
	}

	root := doc.Find("#fmt-root")

	// Unwrap disallowed elements until none remain; nesting means a single
	// pass is not enough.
	for {
		bad := root.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return !allowedTagSet[goquery.NodeName(s)]
		})
		if bad.Length() == 0 {
			break
		}
		bad.Each(func(_ int, s *goquery.Selection) {
			s.ReplaceWithSelection(s.Contents())
		})
	}

	// Strip attributes; links keep href only
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Nodes[0]
		keepHref := goquery.NodeName(s) == "a"
		attrs := node.Attr[:0]
		for _, attr := range node.Attr {
			if keepHref && attr.Key == "href" {
				attrs = append(attrs, attr)
			}
		}
		node.Attr = attrs
	})

	html, err := root.Html()
	if err != nil {
		return "", err
	}

	html = strings.TrimSpace(html)
	if html == "" {
		return "", errors.New("formatted content is empty after sanitization")
	}
	return html, nil
}
