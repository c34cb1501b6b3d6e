package tagmask

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Parse reads a rule source. Every non-blank line that is not a "#" comment
// yields its own mask: the keyword "ens" selects DefaultPattern, any other
// line is compiled as an expression. Lines that fail to compile are logged
// and skipped.
func Parse(r io.Reader, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var masks []Mask
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(Normalize(sc.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		expr := line
		if strings.EqualFold(line, DefaultKeyword) {
			expr = DefaultPattern
		}
		m, err := NewRegexMask(expr)
		if err != nil {
			logger.Error("skipping tag mask", "line", lineNo, "error", err)
			continue
		}
		masks = append(masks, m)
	}
	if err := sc.Err(); err != nil {
		return NewSet(masks...), fmt.Errorf("failed to read masks: %w", err)
	}
	return NewSet(masks...), nil
}

// LoadFile loads masks from path. Any failure is logged and degrades to an
// empty Set; the error is returned for callers that want to report it.
func LoadFile(path string, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("error loading ENS patterns: %w", err)
		logger.Error(err.Error(), "path", path)
		return NewSet(), err
	}
	defer f.Close()

	set, err := Parse(f, logger)
	if err != nil {
		logger.Error("error loading ENS patterns", "path", path, "error", err)
		return NewSet(), err
	}
	return set, nil
}
