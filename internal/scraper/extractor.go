package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// ExtractionError reports a selector that could not be compiled.
type ExtractionError struct {
	Selector string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("invalid selector %q: %v", e.Selector, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// CompileSelector parses a CSS selector group such as "div.item > a, h1".
func CompileSelector(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, &ExtractionError{Selector: selector, Err: err}
	}
	return sel, nil
}

// Extract returns the normalized text of every element matching selector, in
// document order. Elements without text yield an empty entry.
func Extract(html, selector string) ([]string, error) {
	sel, err := CompileSelector(selector)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	matches := doc.FindMatcher(sel)
	texts := make([]string, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, NormalizeWhitespace(s.Text()))
	})
	return texts, nil
}

// NormalizeWhitespace collapses runs of whitespace to a single space and trims the ends.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
