package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TetianaBovanenko/OmniDocScan/internal/config"
	"github.com/TetianaBovanenko/OmniDocScan/internal/home"
	"github.com/TetianaBovanenko/OmniDocScan/internal/output"
	"github.com/TetianaBovanenko/OmniDocScan/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "omnidocscan",
	Short: "ENS tag extraction and reconciliation for scanned documents",
	Long: `OmniDocScan finds ENS tags in OCR page text and reconciles them against
the document/tag and tag status registries.

The pipeline includes:
  - PDF to page-text conversion with Tesseract (convert)
  - Tag scanning, slash expansion and registry reconciliation (scrape)
  - One Doc-Tag spreadsheet per folder, including registry tags never found
  - Re-running folders as their page text changes (watch)`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		f, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		output.SetFormat(f)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.omnidocscan/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "omnidocscan home directory (default: ~/.omnidocscan)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(versionCmd)
}

// newLogger logs to stderr so stdout only carries the command's output.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig resolves the home directory and loads configuration from it.
func loadConfig() (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, err
	}
	return h, mgr, nil
}
