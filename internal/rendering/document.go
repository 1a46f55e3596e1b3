package rendering

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// printStyle is applied when the generated HTML carries no stylesheet.
const printStyle = `@page { size: Letter; margin: 1in; }
body { font-family: "Times New Roman", Times, serif; font-size: 11pt; line-height: 1.3; color: #000; }
h1 { text-align: center; text-transform: uppercase; margin: 0 0 4pt; }
h2 { text-transform: uppercase; font-size: 12pt; border-bottom: 1px solid #000; margin: 12pt 0 4pt; }
ul { margin: 2pt 0 6pt 18pt; padding: 0; }
li { margin-bottom: 2pt; }`

// Document returns a complete, sanitized HTML document for html. Fragments
// are wrapped in html/head/body; the default print style is added when the
// input has no <style> element.
func Document(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &RenderError{Message: "failed to parse HTML", Cause: err}
	}

	Sanitize(doc)

	if doc.Find("style").Length() == 0 {
		doc.Find("head").AppendHtml("<style>" + printStyle + "</style>")
	}
	if doc.Find("head meta[charset]").Length() == 0 {
		doc.Find("head").PrependHtml(`<meta charset="utf-8">`)
	}

	out, err := goquery.OuterHtml(doc.Selection.Find("html"))
	if err != nil {
		return "", &RenderError{Message: "failed to serialize HTML", Cause: err}
	}
	return "<!DOCTYPE html>\n" + out, nil
}

// Sanitize removes scripts, embedded frames, and inline event handlers
// from generated HTML before it is loaded into a browser.
func Sanitize(doc *goquery.Document) {
	doc.Find("script, iframe, object, embed, link[rel='import']").Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		kept := node.Attr[:0]
		for _, attr := range node.Attr {
			name := strings.ToLower(attr.Key)
			if strings.HasPrefix(name, "on") {
				continue
			}
			if (name == "href" || name == "src") && strings.HasPrefix(strings.ToLower(strings.TrimSpace(attr.Val)), "javascript:") {
				continue
			}
			kept = append(kept, attr)
		}
		node.Attr = kept
	})
}
