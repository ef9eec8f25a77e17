package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	MainDir  string `toml:"main_dir"`
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Vendor contains the fixed values stamped onto status documents and export rows.
type Vendor struct {
	StatusVendorID    string `toml:"status_vendor_id"`
	ExportVendor      string `toml:"export_vendor"`
	ShippingMethod    string `toml:"shipping_method"`
	ShippingCost      string `toml:"shipping_cost"`
	UseManifestVendor bool   `toml:"use_manifest_vendor"`
}

// Schedule contains ship date arithmetic settings.
type Schedule struct {
	BusinessDays int `toml:"business_days"`
}

// SkipMarker drops a letterhead line, plus Lines further lines after it,
// before the layout-independent address scan runs.
type SkipMarker struct {
	Marker string `toml:"marker"`
	Lines  int    `toml:"lines"`
}

// Extraction contains the heuristic rule lists used to read scanned documents.
// List order matters: the first matching entry wins.
type Extraction struct {
	UnitDesignators     []string     `toml:"unit_designators"`
	StopKeywords        []string     `toml:"stop_keywords"`
	NameLine            int          `toml:"name_line"`
	AddressLine         int          `toml:"address_line"`
	CityLine            int          `toml:"city_line"`
	NotFound            string       `toml:"not_found"`
	ScanUnitDesignators []string     `toml:"scan_unit_designators"`
	ScanStopKeywords    []string     `toml:"scan_stop_keywords"`
	NameStopWords       []string     `toml:"name_stop_words"`
	SkipMarkers         []SkipMarker `toml:"skip_markers"`
}

// SKU maps a manifest SKU code to an item description template. The template
// may reference {DOCID}.
type SKU struct {
	Code     string `toml:"code"`
	Template string `toml:"template"`
}

// Manifest contains manifest interpretation settings.
type Manifest struct {
	SKUs               []SKU  `toml:"sku"`
	UnknownDescription string `toml:"unknown_description"`
}

// Archive contains archive ingestion settings.
type Archive struct {
	CompleteDir   string `toml:"complete_dir"`
	DeleteSources bool   `toml:"delete_sources"`
}

// Ledger contains status ledger settings.
type Ledger struct {
	FileName string `toml:"file_name"`
}

// Export contains spreadsheet export settings.
type Export struct {
	FileName          string `toml:"file_name"`
	AddressesFileName string `toml:"addresses_file_name"`
	Sheet             string `toml:"sheet"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for fulfill.
//
// Configuration sections by subsystem:
//   - Paths: working directory, journal state, logs
//   - Vendor: static values written to status documents and exports
//   - Schedule: ship date business-day offset
//   - Extraction: document heuristics (unit designators, stop keywords, line layout)
//   - Manifest: SKU description table
//   - Archive: complete mirror and source deletion
//   - Ledger: daily status file name
//   - Export: spreadsheet file names
//   - Logging: log format, level, and retention
type Config struct {
	Paths      Paths      `toml:"paths"`
	Vendor     Vendor     `toml:"vendor"`
	Schedule   Schedule   `toml:"schedule"`
	Extraction Extraction `toml:"extraction"`
	Manifest   Manifest   `toml:"manifest"`
	Archive    Archive    `toml:"archive"`
	Ledger     Ledger     `toml:"ledger"`
	Export     Export     `toml:"export"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/fulfill/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("fulfill.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories. The main directory
// is operator-owned and is never created here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// JournalPath returns the location of the SQLite order journal.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// StatusDirName holds the status documents of a main or batch directory.
const StatusDirName = "XML"

// ReservedDirs returns the names of main-directory entries that belong to the
// pipeline itself and must never be treated as orders: the top-level part of
// a relative complete_dir and the status document folder.
func (c *Config) ReservedDirs() []string {
	reserved := []string{StatusDirName}
	dir := filepath.ToSlash(filepath.Clean(strings.TrimSpace(c.Archive.CompleteDir)))
	if dir == "" || dir == "." || filepath.IsAbs(c.Archive.CompleteDir) {
		return reserved
	}
	first, _, _ := strings.Cut(dir, "/")
	if first != "" && first != "." && first != ".." {
		reserved = append(reserved, first)
	}
	return reserved
}

// Table returns the configured SKU templates keyed by code.
func (m Manifest) Table() map[string]string {
	table := make(map[string]string, len(m.SKUs))
	for _, sku := range m.SKUs {
		table[sku.Code] = sku.Template
	}
	return table
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
