package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TetianaBovanenko/OmniDocScan/internal/metrics"
	"github.com/TetianaBovanenko/OmniDocScan/internal/pages"
	"github.com/TetianaBovanenko/OmniDocScan/internal/registry"
	"github.com/TetianaBovanenko/OmniDocScan/internal/scan"
)

// PageTextExt is the extension of the page-text files written by conversion.
const PageTextExt = ".xml"

// Folder is a directory of page-text documents reconciled together.
type Folder struct {
	Path      string
	Documents []string // page-text file paths, sorted by file name
}

// Name returns the folder's base name.
func (f Folder) Name() string {
	return filepath.Base(f.Path)
}

// DocumentID returns the id of a page-text file: its name without extension.
func DocumentID(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func isPageText(name string) bool {
	return strings.EqualFold(filepath.Ext(name), PageTextExt)
}

// OpenFolder lists the page-text documents directly inside dir.
func OpenFolder(dir string) (Folder, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Folder{}, fmt.Errorf("failed to read folder: %w", err)
	}
	f := Folder{Path: dir}
	for _, e := range entries {
		if e.Type().IsRegular() && isPageText(e.Name()) {
			f.Documents = append(f.Documents, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(f.Documents)
	return f, nil
}

// FindFolders walks root and returns every directory (root included) holding
// at least one page-text file, in lexical order. A subdirectory that cannot
// be read is reported to errLog and skipped; only a failure on root itself
// is returned.
func FindFolders(root string, errLog *slog.Logger) ([]Folder, error) {
	if errLog == nil {
		errLog = slog.Default()
	}
	var folders []Folder
	err := filepath.WalkDir(root, visitFolders(root, errLog, &folders))
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return folders, nil
}

func visitFolders(root string, errLog *slog.Logger, folders *[]Folder) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			return nil
		}
		if err == nil {
			f, openErr := OpenFolder(path)
			if openErr == nil {
				if len(f.Documents) > 0 {
					*folders = append(*folders, f)
				}
				return nil
			}
			err = openErr
		}
		if path == root {
			return err
		}
		errLog.Error(fmt.Sprintf("skipping %s: %v", path, err))
		if d == nil || d.IsDir() {
			return fs.SkipDir
		}
		return nil
	}
}

// Runner reconciles folders against a fixed set of registries. A Runner holds
// no per-folder state and may serve concurrent Folder calls.
type Runner struct {
	Scanner    *scan.Scanner
	Extractor  pages.Extractor
	Registries registry.Registries
	Logger     *slog.Logger
	ErrLog     *slog.Logger
	Metrics    *metrics.Metrics // optional
}

// Result is the outcome of one folder.
type Result struct {
	Folder    Folder
	Documents int // documents that produced pages
	Failed    int // documents that could not be read
	Rows      []Row
}

// Folder scans every document of f and reconciles the findings. Unreadable
// documents are written to the error log and contribute no rows; only
// context cancellation stops the folder early.
func (r *Runner) Folder(ctx context.Context, f Folder) (*Result, error) {
	if r.Scanner == nil {
		return nil, errors.New("reconcile: runner has no scanner")
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errLog := r.ErrLog
	if errLog == nil {
		errLog = logger
	}
	extractor := r.Extractor
	if extractor == nil {
		extractor = pages.XMLExtractor{}
	}
	logger = logger.With("folder", f.Path)

	res := &Result{Folder: f}
	findings := make([]DocumentFindings, 0, len(f.Documents))

	for _, path := range f.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pgs, err := extractor.Extract(path)
		if err != nil {
			errLog.Error(err.Error(), "file", path)
			res.Failed++
			if r.Metrics != nil {
				r.Metrics.DocumentsFailed.Inc()
			}
			continue
		}
		if len(pgs) == 0 {
			logger.Debug("no pages in document", "file", filepath.Base(path))
			continue
		}

		res.Documents++
		if r.Metrics != nil {
			r.Metrics.DocumentsScanned.Inc()
		}
		docID := DocumentID(path)
		occs := r.Scanner.Scan(docID, pgs)
		logger.Debug("scanned document", "document", docID, "pages", len(pgs), "occurrences", len(occs))
		findings = append(findings, DocumentFindings{Document: docID, Occurrences: occs})
	}

	res.Rows = Reconcile(findings, r.Registries)
	if r.Metrics != nil {
		found, missing := Counts(res.Rows)
		r.Metrics.RowsFound.Add(float64(found))
		r.Metrics.RowsMissing.Add(float64(missing))
	}
	return res, nil
}
