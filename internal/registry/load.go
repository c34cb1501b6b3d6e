package registry

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/TetianaBovanenko/OmniDocScan/internal/table"
)

// Paths locates the three registry tables.
type Paths struct {
	KnownDocuments string // Docs.xlsx
	DocTag         string // Doc-Tag.xlsx
	TagStatus      string // Tags.xlsx
}

// LoadKnownDocuments returns every non-blank cell of every row, header
// included, in row-major order.
func LoadKnownDocuments(r table.Reader, path string) (KnownDocuments, error) {
	rows, err := r.ReadRows(path)
	if err != nil {
		return nil, err
	}
	var docs KnownDocuments
	for _, row := range rows {
		for _, cell := range row {
			if v := strings.TrimSpace(cell); v != "" {
				docs = append(docs, v)
			}
		}
	}
	return docs, nil
}

// LoadDocTag reads (tag, document, action) rows below the header. Documents
// are keyed by BaseID and tags upper-cased to match scanned tokens; rows
// without a tag or document are skipped.
func LoadDocTag(r table.Reader, path string) (*DocTag, error) {
	rows, err := r.ReadRows(path)
	if err != nil {
		return nil, err
	}
	dt := NewDocTag()
	for _, row := range dataRows(rows) {
		tag, doc, action := strings.ToUpper(column(row, 0)), column(row, 1), column(row, 2)
		if tag == "" || doc == "" {
			continue
		}
		dt.Set(BaseID(doc), tag, action)
	}
	return dt, nil
}

// LoadTagStatus reads (tag, *, status) rows below the header. Tags are
// upper-cased like scanned tokens.
func LoadTagStatus(r table.Reader, path string) (*TagStatus, error) {
	rows, err := r.ReadRows(path)
	if err != nil {
		return nil, err
	}
	ts := NewTagStatus()
	for _, row := range dataRows(rows) {
		tag := strings.ToUpper(column(row, 0))
		if tag == "" {
			continue
		}
		ts.Set(tag, column(row, 2))
	}
	return ts, nil
}

// Load reads all registries. A table that cannot be read is reported to
// errLog and left empty; Load itself never fails.
func Load(r table.Reader, paths Paths, errLog *slog.Logger) Registries {
	if r == nil {
		r = table.ExtReader{}
	}
	if errLog == nil {
		errLog = slog.Default()
	}
	reg := Empty()

	if paths.KnownDocuments != "" {
		known, err := LoadKnownDocuments(r, paths.KnownDocuments)
		if err != nil {
			errLog.Error(fmt.Sprintf("Error loading %s: %v", paths.KnownDocuments, err))
		} else {
			reg.Known = known
		}
	}
	if paths.DocTag != "" {
		dt, err := LoadDocTag(r, paths.DocTag)
		if err != nil {
			errLog.Error(fmt.Sprintf("Error loading %s: %v", paths.DocTag, err))
		} else {
			reg.DocTag = dt
		}
	}
	if paths.TagStatus != "" {
		ts, err := LoadTagStatus(r, paths.TagStatus)
		if err != nil {
			errLog.Error(fmt.Sprintf("Error loading %s: %v", paths.TagStatus, err))
		} else {
			reg.Status = ts
		}
	}
	return reg
}

func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

func column(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
