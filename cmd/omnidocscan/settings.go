package main

import (
	"log/slog"

	"github.com/TetianaBovanenko/OmniDocScan/internal/config"
	"github.com/TetianaBovanenko/OmniDocScan/internal/convert"
	"github.com/TetianaBovanenko/OmniDocScan/internal/convert/tesseract"
	"github.com/TetianaBovanenko/OmniDocScan/internal/home"
	"github.com/TetianaBovanenko/OmniDocScan/internal/metrics"
	"github.com/TetianaBovanenko/OmniDocScan/internal/pipeline"
)

func pipelineConfig(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) pipeline.Config {
	return pipeline.Config{
		SourceFolder:       cfg.BaseFolder,
		MaskFile:           cfg.ENSSyntaxFile,
		KnownDocumentsFile: cfg.DocsPath,
		DocTagFile:         cfg.DocTagPath,
		TagStatusFile:      cfg.TagsPath,
		ErrorLogPath:       cfg.ErrorLog,
		ReportSuffix:       cfg.ReportSuffix,
		FolderWorkers:      cfg.FolderWorkers,
		Logger:             logger,
		Metrics:            m,
	}
}

func converterConfig(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) convert.Config {
	return convert.Config{
		Engine:      tesseract.New(cfg.Convert.Languages, cfg.Convert.DPI),
		Logger:      logger,
		Metrics:     m,
		Workers:     cfg.Convert.Workers,
		BatchSize:   cfg.Convert.BatchSize,
		MaxAttempts: uint(cfg.Convert.MaxAttempts),
		RetryDelay:  cfg.Convert.RetryDelay,
	}
}

// metricsPath returns where a command writes its textfile metrics: the
// configured file, else the home directory when --metrics is set.
func metricsPath(cfg *config.Config, h *home.Dir, command string, enabled bool) string {
	if cfg.MetricsFile != "" {
		return cfg.MetricsFile
	}
	if enabled {
		return h.MetricsPath(command)
	}
	return ""
}

func writeMetrics(logger *slog.Logger, m *metrics.Metrics, path string) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		logger.Warn("failed to write metrics", "path", path, "error", err)
		return
	}
	logger.Debug("wrote metrics", "path", path)
}
