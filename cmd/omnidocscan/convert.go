package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/TetianaBovanenko/OmniDocScan/internal/convert"
	"github.com/TetianaBovanenko/OmniDocScan/internal/metrics"
	"github.com/TetianaBovanenko/OmniDocScan/internal/output"
)

var (
	convertFolder  string
	convertMetrics bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "OCR PDFs into page-text XML files",
	Long: `Convert every PDF under the input folder into an XML file of page text
next to it, using Tesseract. Each PDF is retried before it is reported as
failed; a failure never stops the other PDFs.

Requires pdftoppm (poppler-utils) and the Tesseract language data.

Examples:
  omnidocscan convert                          # use convert.input_folder
  omnidocscan convert --folder scans/2024`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := *mgr.Get()
		if convertFolder != "" {
			cfg.Convert.InputFolder = convertFolder
		}

		m := metrics.New()
		conv, err := convert.New(converterConfig(&cfg, logger, m))
		if err != nil {
			return err
		}

		res, err := conv.ConvertFolder(ctx, cfg.Convert.InputFolder)
		writeMetrics(logger, m, metricsPath(&cfg, h, "convert", convertMetrics))
		if errors.Is(err, convert.ErrNoPDFs) {
			logger.Warn("nothing to convert", "folder", cfg.Convert.InputFolder)
			return nil
		}
		if err != nil {
			return err
		}
		return output.Print(res)
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertFolder, "folder", "", "folder searched for PDFs (overrides convert.input_folder)")
	convertCmd.Flags().BoolVar(&convertMetrics, "metrics", false, "write metrics to the home directory when metrics_file is unset")

	rootCmd.AddCommand(convertCmd)
}
