package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseFolder != "data/test" {
		t.Errorf("BaseFolder = %q, want data/test", cfg.BaseFolder)
	}
	if cfg.ReportSuffix != "-Doc-Tag-Scraping.xlsx" {
		t.Errorf("ReportSuffix = %q", cfg.ReportSuffix)
	}
	if cfg.Convert.MaxAttempts != 3 || cfg.Convert.BatchSize != 5 {
		t.Errorf("unexpected convert defaults: %+v", cfg.Convert)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_ENS_ROOT", "/srv/ens")

		result := ResolveEnvVars("${TEST_ENS_ROOT}/Tags.xlsx")
		if result != "/srv/ens/Tags.xlsx" {
			t.Errorf("expected /srv/ens/Tags.xlsx, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		configFile := writeConfig(t, `
base_folder: /data/scans
folder_workers: 4
convert:
  retry_delay: 2s
  languages: [eng, deu]
`)

		mgr, err := NewManager(configFile, "")
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.BaseFolder != "/data/scans" {
			t.Errorf("expected /data/scans, got %s", cfg.BaseFolder)
		}
		if cfg.FolderWorkers != 4 {
			t.Errorf("expected 4 folder workers, got %d", cfg.FolderWorkers)
		}
		if cfg.Convert.RetryDelay != 2*time.Second {
			t.Errorf("expected 2s retry delay, got %v", cfg.Convert.RetryDelay)
		}
		if len(cfg.Convert.Languages) != 2 || cfg.Convert.Languages[1] != "deu" {
			t.Errorf("unexpected languages: %v", cfg.Convert.Languages)
		}
		// untouched keys keep their defaults
		if cfg.ENSSyntaxFile != "../data/ENS_Syntax.txt" {
			t.Errorf("expected default ens_syntax_file, got %s", cfg.ENSSyntaxFile)
		}
		if mgr.ConfigFileUsed() != configFile {
			t.Errorf("ConfigFileUsed() = %q, want %q", mgr.ConfigFileUsed(), configFile)
		}
	})

	t.Run("finds config in home dir", func(t *testing.T) {
		home := t.TempDir()
		if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte("base_folder: /from/home\n"), 0644); err != nil {
			t.Fatal(err)
		}

		mgr, err := NewManager("", home)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().BaseFolder; got != "/from/home" {
			t.Errorf("expected /from/home, got %s", got)
		}
	})

	t.Run("no config file uses defaults", func(t *testing.T) {
		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().DocsPath; got != "../data/Docs.xlsx" {
			t.Errorf("expected default docs path, got %s", got)
		}
	})

	t.Run("expands env references in paths", func(t *testing.T) {
		t.Setenv("TEST_ENS_DATA", "/mnt/ens")
		configFile := writeConfig(t, "tags_path: ${TEST_ENS_DATA}/Tags.xlsx\n")

		mgr, err := NewManager(configFile, "")
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().TagsPath; got != "/mnt/ens/Tags.xlsx" {
			t.Errorf("expected /mnt/ens/Tags.xlsx, got %s", got)
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		configFile := writeConfig(t, "folder_workers: 0\n")

		_, err := NewManager(configFile, "")
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "invalid config") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects unreadable config", func(t *testing.T) {
		configFile := writeConfig(t, "base_folder: [unterminated\n")

		if _, err := NewManager(configFile, ""); err == nil {
			t.Fatal("expected read error")
		}
	})
}

func TestNewManager_Env(t *testing.T) {
	t.Run("prefixed variable", func(t *testing.T) {
		t.Setenv("OMNIDOC_BASE_FOLDER", "/env/base")
		t.Setenv("OMNIDOC_CONVERT_BATCH_SIZE", "9")

		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.BaseFolder != "/env/base" {
			t.Errorf("expected /env/base, got %s", cfg.BaseFolder)
		}
		if cfg.Convert.BatchSize != 9 {
			t.Errorf("expected batch size 9, got %d", cfg.Convert.BatchSize)
		}
	})

	t.Run("legacy variable", func(t *testing.T) {
		t.Setenv("BASE_FOLDER", "/legacy/base")
		t.Setenv("PDF_INPUT_FOLDER", "/legacy/pdfs")

		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.BaseFolder != "/legacy/base" {
			t.Errorf("expected /legacy/base, got %s", cfg.BaseFolder)
		}
		if cfg.Convert.InputFolder != "/legacy/pdfs" {
			t.Errorf("expected /legacy/pdfs, got %s", cfg.Convert.InputFolder)
		}
	})

	t.Run("prefixed wins over legacy", func(t *testing.T) {
		t.Setenv("BASE_FOLDER", "/legacy/base")
		t.Setenv("OMNIDOC_BASE_FOLDER", "/env/base")

		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().BaseFolder; got != "/env/base" {
			t.Errorf("expected /env/base, got %s", got)
		}
	})
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "base_folder: data\n"), "")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "base_folder: data\n"), "")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	// Call Get concurrently to verify no race conditions
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.BaseFolder
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, "base_folder: /initial\n")

	mgr, err := NewManager(configFile, "")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.BaseFolder)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("base_folder: /updated\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if got := mgr.Get().BaseFolder; got != "/updated" {
		t.Errorf("config not updated: expected /updated, got %s", got)
	}
	if v := lastValue.Load(); v != "/updated" {
		t.Errorf("callback received wrong value: expected /updated, got %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	mgr, err := NewManager(path, "")
	if err != nil {
		t.Fatalf("written default config does not load: %v", err)
	}
	cfg := mgr.Get()
	want := DefaultConfig()
	if cfg.BaseFolder != want.BaseFolder || cfg.TagsPath != want.TagsPath {
		t.Errorf("round trip mismatch: got %+v", cfg)
	}
	if cfg.Convert.RetryDelay != want.Convert.RetryDelay {
		t.Errorf("retry delay = %v, want %v", cfg.Convert.RetryDelay, want.Convert.RetryDelay)
	}
}
