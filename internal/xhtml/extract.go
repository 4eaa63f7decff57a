// Package xhtml extracts plain text from Confluence storage-format markup.
package xhtml

import (
	"strings"

	"golang.org/x/net/html"
)

// Block-level tags that produce a whitespace boundary when opened or closed.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ol": true, "ul": true,
	"table": true, "tr": true, "td": true, "th": true,
	"blockquote": true, "pre": true, "hr": true,
	"section": true, "article": true, "header": true, "footer": true,
}

// Extract strips all tags from storage-format markup and collapses runs of
// whitespace to single spaces. Block tag boundaries become spaces so adjacent
// blocks do not run together. Non-well-formed markup is tolerated; unmatched
// or malformed tags simply produce no boundary.
func Extract(markup string) string {
	if markup == "" {
		return ""
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			// EOF or an unrecoverable parse error; either way we keep
			// whatever text was collected.
			return collapse(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[strings.ToLower(string(name))] {
				b.WriteByte(' ')
			}
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
