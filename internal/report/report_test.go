package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/TetianaBovanenko/OmniDocScan/internal/reconcile"
	"github.com/TetianaBovanenko/OmniDocScan/internal/registry"
	"github.com/TetianaBovanenko/OmniDocScan/internal/table"
)

var scenarioRows = []reconcile.Row{
	{Tag: "12-ABCD-345", Document: "DOC1", Page: 1, Action: "Keep", Status: "Approved"},
	{Tag: "12-ABCD-346", Document: "DOC1", Page: 1, Status: registry.Unidentified},
	{Tag: "12-ABCD-999", Document: "DOC1", Action: "Review", Missing: true},
}

func TestWriterPath(t *testing.T) {
	w := &Writer{}
	if got := w.Path(filepath.Join("data", "batch1")); got != filepath.Join("data", "batch1", "batch1-Doc-Tag-Scraping.xlsx") {
		t.Errorf("Path = %q", got)
	}
	w.Suffix = "-report.xlsx"
	if got := w.Path("batch1"); got != filepath.Join("batch1", "batch1-report.xlsx") {
		t.Errorf("Path with suffix = %q", got)
	}
}

func TestHyperlink(t *testing.T) {
	if got := Hyperlink("data/batch1", "DOC1"); got != `HYPERLINK("data/batch1/DOC1.pdf", "DOC1")` {
		t.Errorf("Hyperlink = %s", got)
	}
	if got := Hyperlink("x", `A"B`); got != `HYPERLINK("x/A""B.pdf", "A""B")` {
		t.Errorf("quoted Hyperlink = %s", got)
	}
	if got := Hyperlink("data/test/", "DOC1"); got != `HYPERLINK("data/test/DOC1.pdf", "DOC1")` {
		t.Errorf("trailing slash Hyperlink = %s", got)
	}
}

func TestCells(t *testing.T) {
	cells := Cells("data/batch1", scenarioRows)
	if len(cells) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(cells))
	}
	for _, c := range cells[0] {
		if !c.Style.Bold {
			t.Errorf("header cell %v not bold", c.Value)
		}
	}
	if cells[1][1].Formula == "" || cells[1][2].Value != 1 {
		t.Errorf("found row not linked: %+v", cells[1])
	}
	for _, c := range cells[3] {
		if c.Style.Fill != MissingFill {
			t.Errorf("missing row cell %v not filled", c.Value)
		}
		if c.Formula != "" {
			t.Errorf("missing row must not link: %+v", c)
		}
	}
	if cells[3][2].Value != "" || cells[3][4].Value != "" {
		t.Errorf("missing row page/status not blank: %+v", cells[3])
	}
}

func TestWriteNoRows(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{}
	if _, err := w.Write(dir, nil); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
	if _, err := os.Stat(w.Path(dir)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("no file expected, stat err = %v", err)
	}
}

type recordingTable struct {
	path, sheet string
	rows        [][]table.Cell
}

func (r *recordingTable) WriteSheet(path, sheet string, rows [][]table.Cell) error {
	r.path, r.sheet, r.rows = path, sheet, rows
	return nil
}

func TestWriteUsesTableWriter(t *testing.T) {
	rec := &recordingTable{}
	w := &Writer{Table: rec}
	path, err := w.Write("batch1", scenarioRows)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != rec.path || rec.sheet != SheetName || len(rec.rows) != 4 {
		t.Errorf("unexpected write: path=%s sheet=%s rows=%d", rec.path, rec.sheet, len(rec.rows))
	}
}

func TestWriteWorkbook(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "batch1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, err := (&Writer{}).Write(dir, scenarioRows)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	for i, h := range Header {
		if rows[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}
	if rows[1][0] != "12-ABCD-345" || rows[1][2] != "1" || rows[1][4] != "Approved" {
		t.Errorf("unexpected found row: %v", rows[1])
	}
	if rows[3][0] != "12-ABCD-999" || rows[3][3] != "Review" {
		t.Errorf("unexpected missing row: %v", rows[3])
	}

	formula, err := f.GetCellFormula(SheetName, "B2")
	if err != nil {
		t.Fatalf("GetCellFormula: %v", err)
	}
	if formula != Hyperlink(dir, "DOC1") {
		t.Errorf("formula = %q", formula)
	}
	if formula, _ := f.GetCellFormula(SheetName, "B4"); formula != "" {
		t.Errorf("missing row has formula %q", formula)
	}
}
