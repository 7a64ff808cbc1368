// Package ingestion turns pasted job posting HTML into clean text
// suitable for storage and embedding.
package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// chrome elements that never carry posting content.
var strippedSelectors = []string{"script", "style", "noscript", "nav", "header", "footer", "iframe", "form"}

// ExtractText parses job posting HTML and returns its visible text.
// Navigation, scripts, and other page chrome are dropped; block elements
// become line breaks so list structure survives.
func ExtractText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	for _, sel := range strippedSelectors {
		doc.Find(sel).Remove()
	}

	root := doc.Find("main")
	if root.Length() == 0 {
		root = doc.Find("body")
	}
	if root.Length() == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	root.Find("h1, h2, h3, h4, p, li, td, div").Each(func(_ int, s *goquery.Selection) {
		// Take only leaf-ish nodes so nested divs don't duplicate text.
		if s.Children().Filter("p, li, div, ul, ol, table").Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			sb.WriteString("- ")
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	})

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		// Fall back to the raw text for pages without block structure.
		text = root.Text()
	}

	return CleanText(text), nil
}
