// Package tagmask validates ENS tag candidates against one or more syntax masks.
package tagmask

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// DefaultPattern is the ENS tag syntax: two digits, 2-4 letters, 3-5 digits,
// an optional letter, then any number of "-" or "/" delimited groups of 1-3
// alphanumerics.
const DefaultPattern = `\d{2}-[A-Z]{2,4}-\d{3,5}[A-Z]?([-/][A-Z0-9]{1,3})*`

// DefaultKeyword is the rule-file line that selects DefaultPattern.
const DefaultKeyword = "ens"

// Mask answers whether a normalized candidate is a valid tag.
type Mask interface {
	Match(candidate string) bool
	String() string
}

// RegexMask is a Mask backed by an anchored, case-insensitive expression.
type RegexMask struct {
	expr string
	re   *regexp.Regexp
}

// NewRegexMask compiles expr for full-string, case-insensitive matching.
func NewRegexMask(expr string) (*RegexMask, error) {
	re, err := regexp.Compile(`(?i)^(?:` + expr + `)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid mask %q: %w", expr, err)
	}
	return &RegexMask{expr: expr, re: re}, nil
}

// MustRegexMask is like NewRegexMask but panics on an invalid expression.
func MustRegexMask(expr string) *RegexMask {
	m, err := NewRegexMask(expr)
	if err != nil {
		panic(err)
	}
	return m
}

// Match implements Mask.
func (m *RegexMask) Match(candidate string) bool {
	return m.re.MatchString(candidate)
}

// String returns the source expression.
func (m *RegexMask) String() string {
	return m.expr
}

// Set is an immutable collection of masks. A candidate is valid when any
// mask matches. The zero Set validates nothing.
type Set struct {
	masks []Mask
}

// NewSet builds a Set from masks, skipping nils.
func NewSet(masks ...Mask) *Set {
	s := &Set{masks: make([]Mask, 0, len(masks))}
	for _, m := range masks {
		if m != nil {
			s.masks = append(s.masks, m)
		}
	}
	return s
}

// Default returns a Set holding only DefaultPattern.
func Default() *Set {
	return NewSet(MustRegexMask(DefaultPattern))
}

// Len returns the number of masks.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.masks)
}

// Masks returns a copy of the masks in load order.
func (s *Set) Masks() []Mask {
	if s == nil {
		return nil
	}
	return append([]Mask(nil), s.masks...)
}

// Valid reports whether candidate, once normalized, fully matches any mask.
func (s *Set) Valid(candidate string) bool {
	if s.Len() == 0 {
		return false
	}
	c := Normalize(candidate)
	if c == "" {
		return false
	}
	for _, m := range s.masks {
		if m.Match(c) {
			return true
		}
	}
	return false
}

var invisible = runes.Predicate(func(r rune) bool {
	return r == '\u200b' || r == '\ufeff'
})

// Normalize strips zero-width spaces and byte-order marks, then trims
// surrounding whitespace.
func Normalize(candidate string) string {
	out, _, err := transform.String(runes.Remove(invisible), candidate)
	if err != nil {
		return strings.TrimSpace(candidate)
	}
	return strings.TrimSpace(out)
}
