// Package report renders reconciliation rows as the per-folder Doc-Tag
// workbook reviewed by document controllers.
package report

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/TetianaBovanenko/OmniDocScan/internal/reconcile"
	"github.com/TetianaBovanenko/OmniDocScan/internal/table"
)

const (
	// SheetName is the only sheet of a report.
	SheetName = "Doc-Tag"

	// DefaultSuffix is appended to the folder name to form the report file name.
	DefaultSuffix = "-Doc-Tag-Scraping.xlsx"

	// MissingFill highlights rows of registry tags that were never found.
	MissingFill = "90EE90"
)

// Header is the report's first row.
var Header = []string{"Tag No", "DocumentNo", "Page", "Action", "Status"}

// ErrNoRows is returned when a folder has nothing to report.
var ErrNoRows = errors.New("no tags found")

// Writer writes folder reports.
type Writer struct {
	Table  table.Writer // defaults to table.XLSX
	Suffix string       // defaults to DefaultSuffix
}

// Path returns the report path for folder.
func (w *Writer) Path(folder string) string {
	suffix := w.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return filepath.Join(folder, filepath.Base(folder)+suffix)
}

// Write renders rows into the folder's report and returns its path. No file
// is created when rows is empty; ErrNoRows is returned instead.
func (w *Writer) Write(folder string, rows []reconcile.Row) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}
	tw := w.Table
	if tw == nil {
		tw = table.XLSX{}
	}

	out := w.Path(folder)
	if err := tw.WriteSheet(out, SheetName, Cells(folder, rows)); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", out, err)
	}
	return out, nil
}

// Cells lays out the header and rows. Found rows link the document number to
// the sibling PDF; missing rows have blank page and status and are filled.
func Cells(folder string, rows []reconcile.Row) [][]table.Cell {
	out := make([][]table.Cell, 0, len(rows)+1)

	header := make([]table.Cell, len(Header))
	for i, h := range Header {
		header[i] = table.Cell{Value: h, Style: table.Style{Bold: true}}
	}
	out = append(out, header)

	for _, r := range rows {
		if r.Missing {
			fill := table.Style{Fill: MissingFill}
			out = append(out, []table.Cell{
				{Value: r.Tag, Style: fill},
				{Value: r.Document, Style: fill},
				{Value: "", Style: fill},
				{Value: r.Action, Style: fill},
				{Value: "", Style: fill},
			})
			continue
		}
		out = append(out, []table.Cell{
			{Value: r.Tag},
			{Value: r.Document, Formula: Hyperlink(folder, r.Document)},
			{Value: r.Page},
			{Value: r.Action},
			{Value: r.Status},
		})
	}
	return out
}

// Hyperlink returns the HYPERLINK formula pointing at <folder>/<document>.pdf.
func Hyperlink(folder, document string) string {
	pdf := path.Join(filepath.ToSlash(folder), document+".pdf")
	return fmt.Sprintf(`HYPERLINK("%s", "%s")`, quote(pdf), quote(document))
}

// quote doubles embedded quotes as spreadsheet string literals require.
func quote(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
