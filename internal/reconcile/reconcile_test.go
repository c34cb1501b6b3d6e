package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/TetianaBovanenko/OmniDocScan/internal/registry"
	"github.com/TetianaBovanenko/OmniDocScan/internal/scan"
)

func occ(tag string, page int) scan.Occurrence {
	return scan.Occurrence{Tag: tag, Page: page}
}

func testRegistries() registry.Registries {
	reg := registry.Empty()
	reg.DocTag.Set("DOC1", "12-ABCD-345", "Keep")
	reg.DocTag.Set("DOC1", "12-ABCD-999", "Review")
	reg.DocTag.Set("DOC2", "12-ABCD-500", "Delete")
	reg.Status.Set("12-ABCD-345", "Approved")
	return reg
}

func TestReconcile_Scenario(t *testing.T) {
	findings := []DocumentFindings{{
		Document:    "DOC1",
		Occurrences: []scan.Occurrence{occ("12-ABCD-345", 1), occ("12-ABCD-346", 1)},
	}}

	got := Reconcile(findings, testRegistries())
	want := []Row{
		{Tag: "12-ABCD-345", Document: "DOC1", Page: 1, Action: "Keep", Status: "Approved"},
		{Tag: "12-ABCD-346", Document: "DOC1", Page: 1, Action: "", Status: registry.Unidentified},
		{Tag: "12-ABCD-999", Document: "DOC1", Action: "Review", Missing: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_FirstOccurrenceWins(t *testing.T) {
	findings := []DocumentFindings{{
		Document:    "DOC9",
		Occurrences: []scan.Occurrence{occ("12-AB-100", 3), occ("12-AB-100", 1)},
	}}
	rows := Reconcile(findings, registry.Empty())
	if len(rows) != 1 || rows[0].Page != 3 {
		t.Fatalf("expected single row on page 3, got %+v", rows)
	}
}

func TestReconcile_MissingRowGating(t *testing.T) {
	t.Run("document without found rows contributes nothing", func(t *testing.T) {
		findings := []DocumentFindings{{Document: "DOC3", Occurrences: []scan.Occurrence{occ("12-AB-100", 1)}}}
		_, missing := Counts(Reconcile(findings, testRegistries()))
		if missing != 0 {
			t.Errorf("expected no missing rows, got %d", missing)
		}
	})

	t.Run("document with found rows lists every unseen tag", func(t *testing.T) {
		findings := []DocumentFindings{{Document: "DOC2_rev1", Occurrences: []scan.Occurrence{occ("12-AB-100", 2)}}}
		rows := Reconcile(findings, testRegistries())
		want := []Row{
			{Tag: "12-AB-100", Document: "DOC2_rev1", Page: 2, Status: registry.Unidentified},
			{Tag: "12-ABCD-500", Document: "DOC2", Action: "Delete", Missing: true},
		}
		if diff := cmp.Diff(want, rows); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("base id match is exact", func(t *testing.T) {
		findings := []DocumentFindings{{Document: "DOC10", Occurrences: []scan.Occurrence{occ("12-AB-100", 1)}}}
		_, missing := Counts(Reconcile(findings, testRegistries()))
		if missing != 0 {
			t.Errorf("DOC10 must not unlock DOC1 missing rows, got %d", missing)
		}
	})
}

func TestReconcile_SeenAcrossVariants(t *testing.T) {
	findings := []DocumentFindings{
		{Document: "DOC1_A", Occurrences: []scan.Occurrence{occ("12-ABCD-345", 1)}},
		{Document: "DOC1_B", Occurrences: []scan.Occurrence{occ("12-ABCD-999", 4), occ("12-ABCD-345", 2)}},
	}
	rows := Reconcile(findings, testRegistries())
	found, missing := Counts(rows)
	if found != 3 || missing != 0 {
		t.Fatalf("found=%d missing=%d, want 3/0: %+v", found, missing, rows)
	}
	if rows[1].Document != "DOC1_B" || rows[1].Action != "Review" {
		t.Errorf("variant should join on base id: %+v", rows[1])
	}
}

func TestReconcile_KnownDocumentsSuppress(t *testing.T) {
	reg := testRegistries()
	reg.Known = registry.KnownDocuments{"DOC1", "12-ABCD-345-DWG-001"}

	findings := []DocumentFindings{{
		Document:    "DOC1",
		Occurrences: []scan.Occurrence{occ("12-ABCD-345", 1), occ("12-ABCD-346", 1)},
	}}
	rows := Reconcile(findings, reg)
	want := []Row{
		{Tag: "12-ABCD-346", Document: "DOC1", Page: 1, Status: registry.Unidentified},
		{Tag: "12-ABCD-345", Document: "DOC1", Action: "Keep", Missing: true},
		{Tag: "12-ABCD-999", Document: "DOC1", Action: "Review", Missing: true},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_Empty(t *testing.T) {
	if rows := Reconcile(nil, testRegistries()); len(rows) != 0 {
		t.Errorf("expected no rows, got %+v", rows)
	}
	if rows := Reconcile([]DocumentFindings{{Document: "DOC1"}}, registry.Registries{}); len(rows) != 0 {
		t.Errorf("expected no rows for zero registries, got %+v", rows)
	}
}
