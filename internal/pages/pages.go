// Package pages turns OCR page-text files into numbered plain-text pages.
package pages

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Page is the plain text of one page. Number is 1-indexed.
type Page struct {
	Number int
	Text   string
}

// Extractor produces the pages of one source document.
type Extractor interface {
	Extract(path string) ([]Page, error)
}

// XMLExtractor reads the XML written by the OCR stage (UTF-8 or UTF-16).
type XMLExtractor struct{}

// Extract implements Extractor.
func (XMLExtractor) Extract(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	pages, err := ParseXML(data)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return pages, nil
}

var _ Extractor = XMLExtractor{}

var (
	pageTag    = regexp.MustCompile(`(?i)<page(?:\s[^>]*)?>`)
	anyTag     = regexp.MustCompile(`<[^>]+>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// ParseXML splits decoded document text at each <page> opening tag (the
// <pages> wrapper is not a page). Markup is replaced by spaces, entities are
// decoded and whitespace collapsed. Content before the first page tag is
// ignored; pages are numbered by position.
func ParseXML(data []byte) ([]Page, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}

	locs := pageTag.FindAllStringIndex(text, -1)
	pages := make([]Page, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := html.UnescapeString(anyTag.ReplaceAllString(text[loc[1]:end], " "))
		content = strings.TrimSpace(whitespace.ReplaceAllString(content, " "))
		pages = append(pages, Page{Number: i + 1, Text: content})
	}
	return pages, nil
}

// decode honours a UTF-8 or UTF-16 byte-order mark. Input without a BOM is
// UTF-8 unless it looks like little-endian UTF-16 (NUL in the second byte).
func decode(data []byte) (string, error) {
	fallback := unicode.UTF8.NewDecoder()
	if len(data) >= 2 && data[1] == 0 && data[0] != 0 && !hasBOM(data) {
		fallback = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(out), nil
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}
