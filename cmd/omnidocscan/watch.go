package main

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/TetianaBovanenko/OmniDocScan/internal/config"
	"github.com/TetianaBovanenko/OmniDocScan/internal/home"
	"github.com/TetianaBovanenko/OmniDocScan/internal/metrics"
	"github.com/TetianaBovanenko/OmniDocScan/internal/output"
	"github.com/TetianaBovanenko/OmniDocScan/internal/pipeline"
	"github.com/TetianaBovanenko/OmniDocScan/internal/reconcile"
	"github.com/TetianaBovanenko/OmniDocScan/internal/watch"
)

var (
	watchDebounce time.Duration
	watchInitial  bool
	watchMetrics  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run folders whenever their page-text files change",
	Long: `Watch the base folder and reconcile a folder again once its XML files
stop changing. Config file edits are picked up before the next folder runs:
masks and registries are reloaded then.

Examples:
  omnidocscan watch                            # full scrape, then watch
  omnidocscan watch --initial=false --debounce 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		m := metrics.New()

		s := &watchSession{logger: logger, metrics: m, home: h}
		if err := s.load(cfg); err != nil {
			return err
		}
		defer s.close()

		mgr.OnChange(func(c *config.Config) {
			s.next.Store(c)
		})
		mgr.WatchConfig()

		if watchInitial {
			sum, err := s.p.Run(ctx)
			if err != nil {
				return err
			}
			if err := output.Print(sum); err != nil {
				return err
			}
			writeMetrics(logger, m, metricsPath(s.cfg, h, "watch", watchMetrics))
		}

		w, err := watch.New(watch.Config{
			Root:     cfg.BaseFolder,
			Ext:      reconcile.PageTextExt,
			Debounce: watchDebounce,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		defer w.Close()

		err = w.Run(ctx, s.folder)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// watchSession owns the pipeline used by watch and swaps it when the
// configuration changes.
type watchSession struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	home    *home.Dir

	cfg  *config.Config
	p    *pipeline.Pipeline
	next atomic.Pointer[config.Config]
}

func (s *watchSession) load(cfg *config.Config) error {
	p, err := pipeline.New(pipelineConfig(cfg, s.logger, s.metrics))
	if err != nil {
		return err
	}
	s.close()
	s.cfg, s.p = cfg, p
	return nil
}

func (s *watchSession) close() {
	if s.p != nil {
		s.p.Close()
	}
}

func (s *watchSession) folder(ctx context.Context, dir string) {
	if cfg := s.next.Swap(nil); cfg != nil {
		root := s.cfg.BaseFolder
		if err := s.load(cfg); err != nil {
			s.logger.Error("config reload failed, keeping previous", "error", err)
		} else {
			s.logger.Info("configuration reloaded", "run_id", s.p.RunID())
			if cfg.BaseFolder != root {
				s.logger.Warn("base_folder changes apply after restart", "base_folder", cfg.BaseFolder)
			}
		}
	}

	fs, err := s.p.Folder(ctx, dir)
	if err != nil {
		s.logger.Error("folder failed", "folder", dir, "error", err)
		return
	}
	if err := output.Print(fs); err != nil {
		s.logger.Warn("failed to print summary", "error", err)
	}
	writeMetrics(s.logger, s.metrics, metricsPath(s.cfg, s.home, "watch", watchMetrics))
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a changed folder is reconciled")
	watchCmd.Flags().BoolVar(&watchInitial, "initial", true, "scrape every folder before watching")
	watchCmd.Flags().BoolVar(&watchMetrics, "metrics", false, "write metrics to the home directory when metrics_file is unset")

	rootCmd.AddCommand(watchCmd)
}
