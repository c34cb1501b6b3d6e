package config

// Entry describes one configuration key.
type Entry struct {
	Key         string
	Value       any
	Description string
	EnvAliases  []string // legacy environment variable names
}

// DefaultEntries returns every configuration key with its default value.
// They seed viper and document `config show`.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// ===================
		// Reconciliation
		// ===================
		{
			Key:         "base_folder",
			Value:       d.BaseFolder,
			Description: "Root folder searched for folders of page-text XML files",
			EnvAliases:  []string{"BASE_FOLDER"},
		},
		{
			Key:         "ens_syntax_file",
			Value:       d.ENSSyntaxFile,
			Description: "Tag mask rules, one mask per line",
			EnvAliases:  []string{"ENS_SYNTAX_FILE"},
		},
		{
			Key:         "docs_path",
			Value:       d.DocsPath,
			Description: "Known documents table; tags found inside these values are ignored",
			EnvAliases:  []string{"DOCS_PATH"},
		},
		{
			Key:         "doc_tag_path",
			Value:       d.DocTagPath,
			Description: "Document/tag/action registry",
			EnvAliases:  []string{"DOC_TAG_PATH"},
		},
		{
			Key:         "tags_path",
			Value:       d.TagsPath,
			Description: "Tag status registry",
			EnvAliases:  []string{"TAGS_PATH"},
		},
		{
			Key:         "error_log",
			Value:       d.ErrorLog,
			Description: "Error log appended to during a run (default: {base_folder}/error_log.txt)",
		},
		{
			Key:         "report_suffix",
			Value:       d.ReportSuffix,
			Description: "Appended to the folder name to form the report file name",
		},
		{
			Key:         "folder_workers",
			Value:       d.FolderWorkers,
			Description: "Folders reconciled concurrently",
		},
		{
			Key:         "metrics_file",
			Value:       d.MetricsFile,
			Description: "Write run metrics in Prometheus textfile format (optional)",
		},

		// ===================
		// Conversion
		// ===================
		{
			Key:         "convert.input_folder",
			Value:       d.Convert.InputFolder,
			Description: "Folder searched recursively for PDFs to convert",
			EnvAliases:  []string{"PDF_INPUT_FOLDER"},
		},
		{
			Key:         "convert.workers",
			Value:       d.Convert.Workers,
			Description: "Conversion worker pool size (0 = min(30, CPUs-1))",
		},
		{
			Key:         "convert.batch_size",
			Value:       d.Convert.BatchSize,
			Description: "PDFs handed to a worker at a time",
		},
		{
			Key:         "convert.max_attempts",
			Value:       d.Convert.MaxAttempts,
			Description: "Attempts per PDF before it is recorded as failed",
		},
		{
			Key:         "convert.retry_delay",
			Value:       d.Convert.RetryDelay,
			Description: "Fixed delay between attempts",
		},
		{
			Key:         "convert.languages",
			Value:       d.Convert.Languages,
			Description: "Tesseract language codes",
		},
		{
			Key:         "convert.dpi",
			Value:       d.Convert.DPI,
			Description: "Page render resolution for OCR",
		},
	}
}

// GetDefault returns the default entry for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}
