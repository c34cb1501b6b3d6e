// Package reconcile merges per-document tag findings with the registries into
// the rows of a folder report.
package reconcile

import (
	"github.com/TetianaBovanenko/OmniDocScan/internal/registry"
	"github.com/TetianaBovanenko/OmniDocScan/internal/scan"
)

// Row is one line of a reconciliation report. Page is 0 exactly for missing
// rows, which are rendered with a blank page.
type Row struct {
	Tag      string
	Document string
	Page     int
	Action   string
	Status   string
	Missing  bool
}

// DocumentFindings are the scanner occurrences of one document.
type DocumentFindings struct {
	Document    string // document id, the file stem
	Occurrences []scan.Occurrence
}

// Reconcile builds the rows for one folder. Found rows come first in document
// then first-occurrence order, followed by missing rows in registry order.
//
// A tag mentioned by the known documents list is dropped. A missing row is
// only produced for registry documents that have at least one found row.
func Reconcile(findings []DocumentFindings, reg registry.Registries) []Row {
	type seenKey struct{ base, tag string }
	seen := make(map[seenKey]struct{})
	found := make(map[string]struct{})
	var rows []Row

	for _, f := range findings {
		base := registry.BaseID(f.Document)
		for _, occ := range scan.FirstPages(relevant(f.Occurrences, reg.Known)) {
			action, _ := reg.DocTag.Action(base, occ.Tag)
			rows = append(rows, Row{
				Tag:      occ.Tag,
				Document: f.Document,
				Page:     occ.Page,
				Action:   action,
				Status:   reg.Status.Status(occ.Tag),
			})
			seen[seenKey{base, occ.Tag}] = struct{}{}
			found[base] = struct{}{}
		}
	}

	for _, base := range reg.DocTag.Documents() {
		if _, ok := found[base]; !ok {
			continue
		}
		for _, ta := range reg.DocTag.Tags(base) {
			if _, ok := seen[seenKey{base, ta.Tag}]; ok {
				continue
			}
			rows = append(rows, Row{
				Tag:      ta.Tag,
				Document: base,
				Action:   ta.Action,
				Missing:  true,
			})
		}
	}
	return rows
}

func relevant(occs []scan.Occurrence, known registry.KnownDocuments) []scan.Occurrence {
	if len(known) == 0 {
		return occs
	}
	out := make([]scan.Occurrence, 0, len(occs))
	for _, o := range occs {
		if !known.MentionsTag(o.Tag) {
			out = append(out, o)
		}
	}
	return out
}

// Counts returns the number of found and missing rows.
func Counts(rows []Row) (found, missing int) {
	for _, r := range rows {
		if r.Missing {
			missing++
		} else {
			found++
		}
	}
	return found, missing
}
