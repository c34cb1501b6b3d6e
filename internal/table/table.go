// Package table is the tabular read/write contract used for registries and
// reconciliation reports.
package table

import (
	"path/filepath"
	"strings"
)

// Style annotates a single written cell.
type Style struct {
	Bold bool
	Fill string // RGB hex without '#', e.g. "90EE90"; empty means no fill
}

// Cell is one value in a written row. A non-empty Formula is written instead
// of Value; Value then only serves readers of the in-memory rows.
type Cell struct {
	Value   any
	Formula string
	Style   Style
}

// Reader loads every row of the first (active) sheet of a table as strings.
type Reader interface {
	ReadRows(path string) ([][]string, error)
}

// Writer writes rows of styled cells to a single named sheet.
type Writer interface {
	WriteSheet(path, sheet string, rows [][]Cell) error
}

// ReaderFor picks a Reader by file extension.
// ".csv" files use the CSV reader, everything else is read as a workbook.
func ReaderFor(path string) Reader {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return CSV{}
	}
	return XLSX{}
}

// ExtReader dispatches each ReadRows call by extension, see ReaderFor.
type ExtReader struct{}

// ReadRows implements Reader.
func (ExtReader) ReadRows(path string) ([][]string, error) {
	return ReaderFor(path).ReadRows(path)
}

var _ Reader = ExtReader{}
