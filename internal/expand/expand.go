// Package expand implements slash notation, the shorthand where one token
// such as "12-ABCD-345/6/X" stands for several sibling tags.
package expand

import (
	"regexp"
	"strings"
)

var (
	// base tag: <prefix>-<digits><letters?>, prefix as short as possible
	basePattern = regexp.MustCompile(`^(.*?)-(\d+)([A-Za-z]*)$`)

	digitsOnly  = regexp.MustCompile(`^\d+$`)
	lettersOnly = regexp.MustCompile(`^[A-Za-z]+$`)
)

// Expand returns the tags implied by a slash token. The first element is
// always the base tag; each further segment contributes one tag:
//
//	digits  -> the number with its trailing digits replaced: 345/6 -> 346
//	letters -> the number with the letters as suffix:        345/X -> 345X
//	other   -> the segment appended to the prefix verbatim
//
// Tokens without "/" and tokens whose base does not have the
// <prefix>-<digits> shape come back unchanged as a single element.
// Duplicates are kept.
func Expand(tag string) []string {
	if !strings.Contains(tag, "/") {
		return []string{tag}
	}

	parts := strings.Split(tag, "/")
	base := parts[0]
	m := basePattern.FindStringSubmatch(base)
	if m == nil {
		return []string{tag}
	}
	prefix, number, suffix := m[1], m[2], m[3]

	out := make([]string, 0, len(parts))
	out = append(out, base)
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		switch {
		case digitsOnly.MatchString(part):
			out = append(out, prefix+"-"+replaceTail(number, part)+suffix)
		case lettersOnly.MatchString(part):
			out = append(out, prefix+"-"+number+part)
		default:
			out = append(out, prefix+"-"+part)
		}
	}
	return out
}

// replaceTail overwrites the last len(tail) digits of number with tail.
// A tail at least as long as number replaces it entirely.
func replaceTail(number, tail string) string {
	if len(tail) >= len(number) {
		return tail
	}
	return number[:len(number)-len(tail)] + tail
}
