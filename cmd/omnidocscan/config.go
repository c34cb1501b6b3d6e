package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TetianaBovanenko/OmniDocScan/internal/config"
	"github.com/TetianaBovanenko/OmniDocScan/internal/home"
	"github.com/TetianaBovanenko/OmniDocScan/internal/output"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yaml to the home directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		path := h.ConfigPath()
		if cfgFile != "" {
			path = cfgFile
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		return nil
	},
}

type configView struct {
	File    string         `json:"file,omitempty" yaml:"file,omitempty"`
	Config  *config.Config `json:"config" yaml:"config"`
	Entries []entryView    `json:"keys,omitempty" yaml:"keys,omitempty"`
}

type entryView struct {
	Key         string   `json:"key" yaml:"key"`
	Default     any      `json:"default" yaml:"default"`
	Description string   `json:"description" yaml:"description"`
	Env         []string `json:"env" yaml:"env"`
}

var configShowKeys bool

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		view := configView{File: mgr.ConfigFileUsed(), Config: mgr.Get()}
		if configShowKeys {
			for _, e := range config.DefaultEntries() {
				env := append([]string{config.EnvName(e.Key)}, e.EnvAliases...)
				view.Entries = append(view.Entries, entryView{
					Key:         e.Key,
					Default:     e.Value,
					Description: e.Description,
					Env:         env,
				})
			}
		}
		return output.Print(view)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configShowCmd.Flags().BoolVar(&configShowKeys, "keys", false, "also list every key with its default and environment names")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
