// Package metrics counts pipeline activity on a private Prometheus registry
// that can be dumped in the node_exporter textfile format after a run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks scan, reconciliation and conversion counts.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsScanned  prometheus.Counter
	DocumentsFailed   prometheus.Counter
	RowsFound         prometheus.Counter
	RowsMissing       prometheus.Counter
	ReportsWritten    prometheus.Counter
	FoldersEmpty      prometheus.Counter
	ConversionsOK     prometheus.Counter
	ConversionsFailed prometheus.Counter
	ConversionRetries prometheus.Counter
}

// New creates a Metrics instance with every counter registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "omnidocscan",
			Name:      name,
			Help:      help,
		})
		reg.MustRegister(c)
		return c
	}

	return &Metrics{
		registry:          reg,
		DocumentsScanned:  counter("documents_scanned_total", "Page-text documents scanned for tags"),
		DocumentsFailed:   counter("documents_failed_total", "Page-text documents that could not be read"),
		RowsFound:         counter("rows_found_total", "Reconciliation rows for tags found in documents"),
		RowsMissing:       counter("rows_missing_total", "Reconciliation rows for registry tags never found"),
		ReportsWritten:    counter("reports_written_total", "Folder reports written"),
		FoldersEmpty:      counter("folders_empty_total", "Folders that produced no rows"),
		ConversionsOK:     counter("conversions_succeeded_total", "PDFs converted to page text"),
		ConversionsFailed: counter("conversions_failed_total", "PDFs that failed conversion after all attempts"),
		ConversionRetries: counter("conversion_retries_total", "Conversion attempts retried after a failure"),
	}
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
