package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockElements = map[string]bool{
	"p": true, "br": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "th": true, "table": true, "section": true,
}

// PlainText reduces an HTML fragment to single-spaced text
func PlainText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return collapseSpaces(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpaces(fragment)
	}

	var b strings.Builder
	collectText(doc.Selection, &b)
	return collapseSpaces(b.String())
}

func collectText(s *goquery.Selection, b *strings.Builder) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch name {
		case "#text":
			b.WriteString(child.Text())
			return
		case "script", "style", "#comment":
			return
		}
		collectText(child, b)
		if blockElements[name] {
			b.WriteString(" ")
		}
	})
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
