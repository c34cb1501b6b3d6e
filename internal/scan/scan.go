// Package scan finds ENS tag occurrences in page text.
package scan

import (
	"regexp"
	"strings"

	"github.com/TetianaBovanenko/OmniDocScan/internal/expand"
	"github.com/TetianaBovanenko/OmniDocScan/internal/pages"
)

// token grammar: alphanumeric runs joined by single hyphens, then slash groups
var tokenPattern = regexp.MustCompile(`(?i)\b[A-Z0-9]+(?:-[A-Z0-9]+)*(?:/[A-Z0-9]+)*\b`)

// Occurrence is one tag found on one page of a document.
type Occurrence struct {
	Tag      string
	Page     int
	Document string
}

// Validator reports whether a token is a syntactically valid tag.
type Validator interface {
	Valid(candidate string) bool
}

// ExpandFunc expands a slash token into the tags it denotes.
type ExpandFunc func(tag string) []string

// Scanner extracts validated, expanded tags from pages.
type Scanner struct {
	Validator Validator
	Expand    ExpandFunc // defaults to expand.Expand
}

// New returns a Scanner using v and the standard slash expansion.
func New(v Validator) *Scanner {
	return &Scanner{Validator: v, Expand: expand.Expand}
}

// Tokens returns the upper-cased candidate tokens of text in reading order.
func Tokens(text string) []string {
	found := tokenPattern.FindAllString(text, -1)
	for i, tok := range found {
		found[i] = strings.ToUpper(tok)
	}
	return found
}

// Scan returns the occurrences in pgs, unique by (tag, page). Output follows
// page order, then first appearance of the token on the page, then expansion
// order. Pages numbered below 1 are skipped.
func (s *Scanner) Scan(document string, pgs []pages.Page) []Occurrence {
	if s.Validator == nil {
		return nil
	}
	expandFn := s.Expand
	if expandFn == nil {
		expandFn = expand.Expand
	}

	type key struct {
		tag  string
		page int
	}
	seen := make(map[key]struct{})
	var out []Occurrence

	for _, p := range pgs {
		if p.Number < 1 {
			continue
		}
		for _, tok := range Tokens(p.Text) {
			if !s.Validator.Valid(tok) {
				continue
			}
			tags := []string{tok}
			if strings.Contains(tok, "/") {
				tags = expandFn(tok)
			}
			for _, tag := range tags {
				k := key{tag: tag, page: p.Number}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				out = append(out, Occurrence{Tag: tag, Page: p.Number, Document: document})
			}
		}
	}
	return out
}

// FirstPages reduces occurrences to one per tag, keeping the first page seen
// in iteration order (not the lowest page number).
func FirstPages(occs []Occurrence) []Occurrence {
	seen := make(map[string]struct{}, len(occs))
	out := make([]Occurrence, 0, len(occs))
	for _, o := range occs {
		if _, dup := seen[o.Tag]; dup {
			continue
		}
		seen[o.Tag] = struct{}{}
		out = append(out, o)
	}
	return out
}
