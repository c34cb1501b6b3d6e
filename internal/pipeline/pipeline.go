// Package pipeline wires masks, registries, scanning, reconciliation and
// report writing into a run over a tree of folders.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/TetianaBovanenko/OmniDocScan/internal/errlog"
	"github.com/TetianaBovanenko/OmniDocScan/internal/metrics"
	"github.com/TetianaBovanenko/OmniDocScan/internal/pages"
	"github.com/TetianaBovanenko/OmniDocScan/internal/reconcile"
	"github.com/TetianaBovanenko/OmniDocScan/internal/registry"
	"github.com/TetianaBovanenko/OmniDocScan/internal/report"
	"github.com/TetianaBovanenko/OmniDocScan/internal/scan"
	"github.com/TetianaBovanenko/OmniDocScan/internal/table"
	"github.com/TetianaBovanenko/OmniDocScan/internal/tagmask"
)

// ErrNoMasks is returned when the rule source yields no usable mask.
var ErrNoMasks = errors.New("ENS patterns missing")

// ErrorLogName is the error log file created in the source folder by default.
const ErrorLogName = "error_log.txt"

// Config holds everything a run needs. The file options mirror the
// configuration keys; the remaining fields inject collaborators and default
// to the production implementations.
type Config struct {
	SourceFolder       string
	MaskFile           string
	KnownDocumentsFile string
	DocTagFile         string
	TagStatusFile      string
	ErrorLogPath       string // default: <SourceFolder>/error_log.txt
	ReportSuffix       string // default: report.DefaultSuffix
	FolderWorkers      int    // concurrent folders, default 1

	Logger    *slog.Logger
	ErrLog    *errlog.Log      // opened from ErrorLogPath when nil
	Metrics   *metrics.Metrics // created when nil
	Tables    table.Reader     // registry reader, default table.ExtReader
	Reports   table.Writer     // report writer, default table.XLSX
	Extractor pages.Extractor  // default pages.XMLExtractor
}

// Pipeline is a prepared run: masks and registries are loaded once and shared
// read-only by every folder.
type Pipeline struct {
	cfg     Config
	runID   string
	logger  *slog.Logger
	errLog  *errlog.Log
	ownLog  bool
	masks   *tagmask.Set
	reg     registry.Registries
	runner  *reconcile.Runner
	writer  *report.Writer
	metrics *metrics.Metrics
}

// New loads masks and registries. Load failures are written to the error log
// and degrade to empty structures, except an empty mask set which returns
// ErrNoMasks since nothing could ever match.
func New(cfg Config) (*Pipeline, error) {
	if cfg.SourceFolder == "" {
		return nil, errors.New("source folder is required")
	}
	if cfg.ErrorLogPath == "" {
		cfg.ErrorLogPath = filepath.Join(cfg.SourceFolder, ErrorLogName)
	}
	if cfg.FolderWorkers <= 0 {
		cfg.FolderWorkers = 1
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Tables == nil {
		cfg.Tables = table.ExtReader{}
	}

	runID := uuid.New().String()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", runID)

	p := &Pipeline{cfg: cfg, runID: runID, logger: logger, metrics: cfg.Metrics, errLog: cfg.ErrLog}
	if p.errLog == nil {
		l, err := errlog.Open(cfg.ErrorLogPath)
		if err != nil {
			return nil, err
		}
		p.errLog = l
		p.ownLog = true
	}
	errLogger := p.errLog.Logger().With("run_id", runID)

	masks, _ := tagmask.LoadFile(cfg.MaskFile, errLogger)
	if masks.Len() == 0 {
		p.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoMasks, cfg.MaskFile)
	}
	logger.Info("loaded patterns", "count", masks.Len(), "path", cfg.MaskFile)
	p.masks = masks

	p.reg = registry.Load(cfg.Tables, registry.Paths{
		KnownDocuments: cfg.KnownDocumentsFile,
		DocTag:         cfg.DocTagFile,
		TagStatus:      cfg.TagStatusFile,
	}, errLogger)
	logger.Info("loaded registries",
		"known_documents", len(p.reg.Known),
		"doc_tag_documents", p.reg.DocTag.Len(),
		"tag_statuses", p.reg.Status.Len(),
	)

	p.runner = &reconcile.Runner{
		Scanner:    scan.New(masks),
		Extractor:  cfg.Extractor,
		Registries: p.reg,
		Logger:     logger,
		ErrLog:     errLogger,
		Metrics:    cfg.Metrics,
	}
	p.writer = &report.Writer{Table: cfg.Reports, Suffix: cfg.ReportSuffix}
	return p, nil
}

// RunID identifies this run in logs.
func (p *Pipeline) RunID() string { return p.runID }

// Metrics returns the run's counters.
func (p *Pipeline) Metrics() *metrics.Metrics { return p.metrics }

// Close releases the error log when the pipeline opened it.
func (p *Pipeline) Close() error {
	if p.ownLog && p.errLog != nil {
		return p.errLog.Close()
	}
	return nil
}

// FolderSummary describes the outcome of one folder.
type FolderSummary struct {
	Folder          string `json:"folder" yaml:"folder"`
	Documents       int    `json:"documents" yaml:"documents"`
	FailedDocuments int    `json:"failed_documents,omitempty" yaml:"failed_documents,omitempty"`
	RowsFound       int    `json:"rows_found" yaml:"rows_found"`
	RowsMissing     int    `json:"rows_missing" yaml:"rows_missing"`
	Report          string `json:"report,omitempty" yaml:"report,omitempty"`
	ReportError     string `json:"report_error,omitempty" yaml:"report_error,omitempty"`
}

// Summary aggregates a run.
type Summary struct {
	RunID         string          `json:"run_id" yaml:"run_id"`
	SourceFolder  string          `json:"source_folder" yaml:"source_folder"`
	Masks         int             `json:"masks" yaml:"masks"`
	Folders       []FolderSummary `json:"folders" yaml:"folders"`
	Reports       int             `json:"reports" yaml:"reports"`
	FailedReports int             `json:"failed_reports,omitempty" yaml:"failed_reports,omitempty"`
	EmptyFolders  int             `json:"empty_folders" yaml:"empty_folders"`
	Elapsed       string          `json:"elapsed" yaml:"elapsed"`
}

// Run reconciles every folder under the source folder. Folders are
// independent; a failure inside one never stops the others.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	folders, err := reconcile.FindFolders(p.cfg.SourceFolder, p.errLog.Logger().With("run_id", p.runID))
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		p.logger.Warn("no page-text folders found", "source", p.cfg.SourceFolder)
	}

	results := make([]FolderSummary, len(folders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.FolderWorkers)
	for i, f := range folders {
		g.Go(func() error {
			fs, err := p.folder(gctx, f)
			if err != nil {
				return err
			}
			results[i] = *fs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &Summary{
		RunID:        p.runID,
		SourceFolder: p.cfg.SourceFolder,
		Masks:        p.masks.Len(),
		Folders:      results,
		Elapsed:      time.Since(start).Round(time.Millisecond).String(),
	}
	for _, fs := range results {
		switch {
		case fs.Report != "":
			sum.Reports++
		case fs.ReportError != "":
			sum.FailedReports++
		default:
			sum.EmptyFolders++
		}
	}
	p.logger.Info("run complete", "folders", len(results), "reports", sum.Reports, "failed_reports", sum.FailedReports, "elapsed", sum.Elapsed)
	return sum, nil
}

// Folder reconciles a single directory, e.g. after its files changed.
func (p *Pipeline) Folder(ctx context.Context, dir string) (*FolderSummary, error) {
	f, err := reconcile.OpenFolder(dir)
	if err != nil {
		return nil, err
	}
	return p.folder(ctx, f)
}

func (p *Pipeline) folder(ctx context.Context, f reconcile.Folder) (*FolderSummary, error) {
	p.logger.Info("processing folder", "folder", f.Path, "documents", len(f.Documents))

	res, err := p.runner.Folder(ctx, f)
	if err != nil {
		return nil, err
	}
	found, missing := reconcile.Counts(res.Rows)
	fs := &FolderSummary{
		Folder:          f.Path,
		Documents:       res.Documents,
		FailedDocuments: res.Failed,
		RowsFound:       found,
		RowsMissing:     missing,
	}

	path, err := p.writer.Write(f.Path, res.Rows)
	switch {
	case errors.Is(err, report.ErrNoRows):
		p.logger.Info("no tags found", "folder", f.Path)
		p.metrics.FoldersEmpty.Inc()
	case err != nil:
		fs.ReportError = err.Error()
		p.errLog.Logger().Error(err.Error(), "folder", f.Path, "run_id", p.runID)
	default:
		fs.Report = path
		p.metrics.ReportsWritten.Inc()
		p.logger.Info("saved report", "path", path, "rows_found", found, "rows_missing", missing)
	}
	return fs, nil
}
