package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"

	"fulfill/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "fulfill")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Paths.MainDir) {
		t.Fatalf("expected absolute main dir, got %q", cfg.Paths.MainDir)
	}
	if cfg.JournalPath() != filepath.Join(wantState, "journal.db") {
		t.Fatalf("unexpected journal path: %q", cfg.JournalPath())
	}
	if cfg.Schedule.BusinessDays != 5 {
		t.Fatalf("expected 5 business days, got %d", cfg.Schedule.BusinessDays)
	}
	if diff := cmp.Diff(config.DefaultStopKeywords(), cfg.Extraction.StopKeywords); diff != "" {
		t.Fatalf("stop keywords mismatch (-want +got):\n%s", diff)
	}
	if cfg.Vendor.ShippingMethod != "USPS" {
		t.Fatalf("unexpected shipping method %q", cfg.Vendor.ShippingMethod)
	}
}

func TestLoadFromFileOverridesRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fulfill.toml")
	content := `
[extraction]
stop_keywords = ["Clinic", "", "Medical"]
unit_designators = ["STE"]

[[manifest.sku]]
code = "XYZ_0001"
template = "Large Print, {DOCID}"

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s, got %s (exists=%v)", path, resolved, exists)
	}
	if diff := cmp.Diff([]string{"Clinic", "Medical"}, cfg.Extraction.StopKeywords); diff != "" {
		t.Fatalf("stop keywords mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"STE"}, cfg.Extraction.UnitDesignators); diff != "" {
		t.Fatalf("unit designators mismatch (-want +got):\n%s", diff)
	}
	table := cfg.Manifest.Table()
	if table["XYZ_0001"] != "Large Print, {DOCID}" {
		t.Fatalf("expected custom sku template, got %#v", table)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[vendor]\nshiping_method = \"UPS\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for misspelled field")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"business days", func(c *config.Config) { c.Schedule.BusinessDays = 0 }, "business_days"},
		{"negative line", func(c *config.Config) { c.Extraction.CityLine = -1 }, "city_line"},
		{"duplicate sku", func(c *config.Config) {
			c.Manifest.SKUs = append(c.Manifest.SKUs, config.SKU{Code: "AIA_0300", Template: "x"})
		}, "more than once"},
		{"ledger path", func(c *config.Config) { c.Ledger.FileName = "../status.tsv" }, "ledger.file_name"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if cfg.Vendor.StatusVendorID != "N" {
		t.Fatalf("unexpected sample vendor id %q", cfg.Vendor.StatusVendorID)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
}
