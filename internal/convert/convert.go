// Package convert turns scanned PDFs into the page-text XML files the
// reconciliation reads. Documents are processed in batches on a fixed-size
// worker pool; each document is retried a bounded number of times.
package convert

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/TetianaBovanenko/OmniDocScan/internal/metrics"
)

// ErrNoPDFs is returned when the input folder holds no PDF.
var ErrNoPDFs = errors.New("no PDFs found")

// ErrEmptyText marks an engine result without any text.
var ErrEmptyText = errors.New("no text extracted")

// Engine recognizes the text of every page of a PDF, in page order.
type Engine interface {
	Recognize(ctx context.Context, pdfPath string) ([]string, error)
}

// Config configures a Converter.
type Config struct {
	Engine      Engine
	Logger      *slog.Logger
	Metrics     *metrics.Metrics // optional
	Workers     int              // default: min(30, NumCPU-1), at least 1
	BatchSize   int              // default: 5
	MaxAttempts uint             // default: 3
	RetryDelay  time.Duration    // default: 1s, fixed between attempts
}

// Converter runs an Engine over folders of PDFs.
type Converter struct {
	engine      Engine
	logger      *slog.Logger
	metrics     *metrics.Metrics
	workers     int
	batchSize   int
	maxAttempts uint
	retryDelay  time.Duration
}

// DefaultWorkers returns min(30, NumCPU-1), never less than one.
func DefaultWorkers() int {
	return max(1, min(30, runtime.NumCPU()-1))
}

// New creates a Converter, filling in defaults.
func New(cfg Config) (*Converter, error) {
	if cfg.Engine == nil {
		return nil, errors.New("convert: engine is required")
	}
	c := &Converter{
		engine:      cfg.Engine,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		workers:     cfg.Workers,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.workers <= 0 {
		c.workers = DefaultWorkers()
	}
	if c.batchSize <= 0 {
		c.batchSize = 5
	}
	if c.maxAttempts == 0 {
		c.maxAttempts = 3
	}
	if c.retryDelay <= 0 {
		c.retryDelay = time.Second
	}
	return c, nil
}

// Result summarizes a conversion run.
type Result struct {
	Total     int           `json:"total" yaml:"total"`
	Converted int           `json:"converted" yaml:"converted"`
	Created   int           `json:"created" yaml:"created"` // expected XML files present afterwards
	Failed    []string      `json:"failed,omitempty" yaml:"failed,omitempty"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
}

// FindPDFs returns every *.pdf (any case) below root, sorted.
func FindPDFs(root string) ([]string, error) {
	var pdfs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			pdfs = append(pdfs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(pdfs)
	return pdfs, nil
}

// Batches splits items into consecutive chunks of at most size.
func Batches(items []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	var out [][]string
	for len(items) > 0 {
		n := min(size, len(items))
		out = append(out, items[:n:n])
		items = items[n:]
	}
	return out
}

// OutputPath returns the XML path written for a PDF.
func OutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".xml"
}

// ConvertFolder converts every PDF below root. A document that still fails
// after all attempts is recorded in Result.Failed; the run continues.
func (c *Converter) ConvertFolder(ctx context.Context, root string) (*Result, error) {
	start := time.Now()

	pdfs, err := FindPDFs(root)
	if err != nil {
		return nil, err
	}
	if len(pdfs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPDFs, root)
	}
	c.logger.Info("processing folder", "folder", root, "pdfs", len(pdfs), "workers", c.workers)

	batches := make(chan []string)
	var (
		mu     sync.Mutex
		failed []string
		ok     int
		wg     sync.WaitGroup
	)

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range batches {
				for _, pdf := range batch {
					err := c.convertOne(ctx, pdf)
					mu.Lock()
					if err != nil {
						failed = append(failed, pdf)
					} else {
						ok++
					}
					mu.Unlock()
				}
			}
		}()
	}

	for _, b := range Batches(pdfs, c.batchSize) {
		select {
		case batches <- b:
		case <-ctx.Done():
		}
	}
	close(batches)
	wg.Wait()

	sort.Strings(failed)
	res := &Result{
		Total:     len(pdfs),
		Converted: ok,
		Created:   countExisting(pdfs),
		Failed:    failed,
		Elapsed:   time.Since(start),
	}

	c.logger.Info(fmt.Sprintf("processing complete. %d of %d documents processed", res.Created, res.Total),
		"elapsed", res.Elapsed.Round(10*time.Millisecond))
	if len(failed) > 0 {
		c.logger.Error("PDFs failed", "count", len(failed), "files", failed)
	}
	return res, ctx.Err()
}

// convertOne recognizes and writes one PDF, retrying with a fixed delay.
func (c *Converter) convertOne(ctx context.Context, pdf string) error {
	err := retry.Do(
		func() error {
			texts, err := c.engine.Recognize(ctx, pdf)
			if err != nil {
				return err
			}
			if !hasText(texts) {
				return ErrEmptyText
			}
			return WriteXML(OutputPath(pdf), documentName(pdf), texts)
		},
		retry.Context(ctx),
		retry.Attempts(c.maxAttempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Error("error processing PDF", "file", pdf, "attempt", n+1, "error", err)
			if c.metrics != nil {
				c.metrics.ConversionRetries.Inc()
			}
		}),
	)
	if c.metrics != nil {
		if err != nil {
			c.metrics.ConversionsFailed.Inc()
		} else {
			c.metrics.ConversionsOK.Inc()
		}
	}
	if err != nil {
		c.logger.Error("giving up on PDF", "file", pdf, "attempts", c.maxAttempts, "error", err)
	}
	return err
}

func hasText(texts []string) bool {
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}

func documentName(pdf string) string {
	base := filepath.Base(pdf)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func countExisting(pdfs []string) int {
	n := 0
	for _, pdf := range pdfs {
		if _, err := os.Stat(OutputPath(pdf)); err == nil {
			n++
		}
	}
	return n
}

type xmlDocument struct {
	XMLName xml.Name  `xml:"document"`
	Name    string    `xml:"name"`
	Pages   []xmlPage `xml:"pages>page"`
}

type xmlPage struct {
	Number int    `xml:"number,attr"`
	Text   string `xml:"text"`
}

// WriteXML writes the page-text document for name with one <page> per text.
func WriteXML(path, name string, texts []string) error {
	doc := xmlDocument{Name: name, Pages: make([]xmlPage, len(texts))}
	for i, t := range texts {
		doc.Pages[i] = xmlPage{Number: i + 1, Text: t}
	}

	data, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	data = append([]byte(xml.Header), data...)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
