// Package scraper extracts plain text and links from the HTML fragments that
// feeds put into titles and descriptions.
package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup and entities from an HTML fragment and collapses
// whitespace. Text without markup passes through unchanged apart from spacing.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpaces(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpaces(fragment)
	}
	return collapseSpaces(doc.Text())
}

// FirstLink returns the first absolute http(s) href in an HTML fragment
// whose host differs from skipHost, or "" when there is none.
func FirstLink(fragment, skipHost string) string {
	if !strings.Contains(fragment, "<a") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var link string
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return true
		}
		if skipHost != "" && strings.EqualFold(strings.TrimPrefix(u.Host, "www."), skipHost) {
			return true
		}
		link = u.String()
		return false
	})
	return link
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
