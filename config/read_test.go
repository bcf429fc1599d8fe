package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `api:
  base_url: https://api.example.com
  timeout_seconds: 10
upload:
  max_size_mib: 100
checkin:
  window_minutes: 15
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 10 {
		t.Errorf("timeout = %d, want 10", cfg.API.TimeoutSeconds)
	}
	if cfg.Upload.MaxSizeMiB != 100 {
		t.Errorf("max size = %d, want 100", cfg.Upload.MaxSizeMiB)
	}
	if cfg.CheckIn.WindowMinutes != 15 {
		t.Errorf("window = %d, want 15", cfg.CheckIn.WindowMinutes)
	}
}
