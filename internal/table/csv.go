package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSV reads comma separated exports of the registry workbooks.
type CSV struct{}

// ReadRows implements Reader. Rows may have differing lengths.
func (CSV) ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv %s: %w", path, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

var _ Reader = CSV{}
