// ABOUTME: HTML utilities for turning feed markup into plain text
// ABOUTME: Provides the content cleaner and first-image lookup used by normalization

package html

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
)

// Clean strips markup into whitespace-normalized plain text.
//
// Script and style elements are dropped with their contents, every visible
// text node is trimmed and joined with a single space, and whitespace runs
// collapse to one space. It never fails: input the parser cannot make sense
// of comes back as collapsed text.
func Clean(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return CollapseWhitespace(markup)
	}

	doc.Find("script, style").Remove()

	var parts []string
	for _, n := range doc.Nodes {
		collectText(n, &parts)
	}

	return CollapseWhitespace(strings.Join(parts, " "))
}

func collectText(n *nethtml.Node, parts *[]string) {
	if n.Type == nethtml.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// CollapseWhitespace replaces every whitespace run with one space and trims the ends
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FirstImageSrc returns the src of the first <img> element, or "" when the
// first image has no src or there is none.
func FirstImageSrc(markup string) string {
	if !strings.Contains(strings.ToLower(markup), "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img").First().Attr("src")
	return strings.TrimSpace(src)
}
