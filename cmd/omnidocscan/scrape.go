package main

import (
	"github.com/spf13/cobra"

	"github.com/TetianaBovanenko/OmniDocScan/internal/metrics"
	"github.com/TetianaBovanenko/OmniDocScan/internal/output"
	"github.com/TetianaBovanenko/OmniDocScan/internal/pipeline"
)

var (
	scrapeFolder  string
	scrapeWorkers int
	scrapeMetrics bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Reconcile every page-text folder and write Doc-Tag reports",
	Long: `Scan every folder of page-text XML files under the base folder for ENS
tags, reconcile them against the registries and write one report per folder.

Folders without any tag produce no report. Registry load failures are written
to the error log and treated as empty registries.

Examples:
  omnidocscan scrape                           # use base_folder from config
  omnidocscan scrape --folder data/site-a      # scan another tree
  omnidocscan scrape --workers 4 -o json       # four folders at a time`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := *mgr.Get()
		if scrapeFolder != "" {
			cfg.BaseFolder = scrapeFolder
		}
		if scrapeWorkers > 0 {
			cfg.FolderWorkers = scrapeWorkers
		}

		m := metrics.New()
		p, err := pipeline.New(pipelineConfig(&cfg, logger, m))
		if err != nil {
			return err
		}
		defer p.Close()

		sum, err := p.Run(ctx)
		writeMetrics(logger, m, metricsPath(&cfg, h, "scrape", scrapeMetrics))
		if err != nil {
			return err
		}
		return output.Print(sum)
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeFolder, "folder", "", "folder tree to scan (overrides base_folder)")
	scrapeCmd.Flags().IntVar(&scrapeWorkers, "workers", 0, "folders reconciled concurrently (overrides folder_workers)")
	scrapeCmd.Flags().BoolVar(&scrapeMetrics, "metrics", false, "write metrics to the home directory when metrics_file is unset")

	rootCmd.AddCommand(scrapeCmd)
}
