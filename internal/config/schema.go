package config

import "time"

// Config holds omnidocscan configuration.
// Stored at: ./config.yaml or {home}/config.yaml
type Config struct {
	BaseFolder    string     `mapstructure:"base_folder" yaml:"base_folder" json:"base_folder"`
	ENSSyntaxFile string     `mapstructure:"ens_syntax_file" yaml:"ens_syntax_file" json:"ens_syntax_file"`
	DocsPath      string     `mapstructure:"docs_path" yaml:"docs_path" json:"docs_path"`
	DocTagPath    string     `mapstructure:"doc_tag_path" yaml:"doc_tag_path" json:"doc_tag_path"`
	TagsPath      string     `mapstructure:"tags_path" yaml:"tags_path" json:"tags_path"`
	ErrorLog      string     `mapstructure:"error_log" yaml:"error_log" json:"error_log"`             // default: {base_folder}/error_log.txt
	ReportSuffix  string     `mapstructure:"report_suffix" yaml:"report_suffix" json:"report_suffix"` // appended to the folder name
	FolderWorkers int        `mapstructure:"folder_workers" yaml:"folder_workers" json:"folder_workers"`
	MetricsFile   string     `mapstructure:"metrics_file" yaml:"metrics_file" json:"metrics_file"` // textfile collector output, optional
	Convert       ConvertCfg `mapstructure:"convert" yaml:"convert" json:"convert"`
}

// ConvertCfg configures the PDF to page-text conversion stage.
type ConvertCfg struct {
	InputFolder string        `mapstructure:"input_folder" yaml:"input_folder" json:"input_folder"`
	Workers     int           `mapstructure:"workers" yaml:"workers" json:"workers"` // 0 = min(30, NumCPU-1)
	BatchSize   int           `mapstructure:"batch_size" yaml:"batch_size" json:"batch_size"`
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts" json:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay" yaml:"retry_delay" json:"retry_delay"`
	Languages   []string      `mapstructure:"languages" yaml:"languages" json:"languages"`
	DPI         int           `mapstructure:"dpi" yaml:"dpi" json:"dpi"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseFolder:    "data/test",
		ENSSyntaxFile: "../data/ENS_Syntax.txt",
		DocsPath:      "../data/Docs.xlsx",
		DocTagPath:    "../data/Doc-Tag.xlsx",
		TagsPath:      "../data/Tags.xlsx",
		ReportSuffix:  "-Doc-Tag-Scraping.xlsx",
		FolderWorkers: 1,
		Convert: ConvertCfg{
			InputFolder: "data/pdfs",
			BatchSize:   5,
			MaxAttempts: 3,
			RetryDelay:  time.Second,
			Languages:   []string{"eng"},
			DPI:         300,
		},
	}
}
