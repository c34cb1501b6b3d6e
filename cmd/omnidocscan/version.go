package main

import (
	"github.com/spf13/cobra"

	"github.com/TetianaBovanenko/OmniDocScan/internal/output"
	"github.com/TetianaBovanenko/OmniDocScan/version"
)

type versionInfo struct {
	Release string `json:"release" yaml:"release"`
	Go      string `json:"go" yaml:"go"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(versionInfo{
			Release: version.GitRelease,
			Go:      version.GoInfo,
			Commit:  version.GitCommit,
			Date:    version.GitCommitDate,
		})
	},
}
