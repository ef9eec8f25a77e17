package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSchedule(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validateFileNames(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSchedule() error {
	if c.Schedule.BusinessDays <= 0 {
		return errors.New("schedule.business_days must be positive")
	}
	return nil
}

func (c *Config) validateExtraction() error {
	lines := map[string]int{
		"extraction.name_line":    c.Extraction.NameLine,
		"extraction.address_line": c.Extraction.AddressLine,
		"extraction.city_line":    c.Extraction.CityLine,
	}
	for key, value := range lines {
		if value < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}
	for _, marker := range c.Extraction.SkipMarkers {
		if marker.Lines < 0 {
			return fmt.Errorf("extraction.skip_markers %q: lines must not be negative", marker.Marker)
		}
	}
	return nil
}

func (c *Config) validateManifest() error {
	seen := make(map[string]struct{}, len(c.Manifest.SKUs))
	for _, sku := range c.Manifest.SKUs {
		if _, dup := seen[sku.Code]; dup {
			return fmt.Errorf("manifest.sku %q is defined more than once", sku.Code)
		}
		seen[sku.Code] = struct{}{}
		if strings.TrimSpace(sku.Template) == "" {
			return fmt.Errorf("manifest.sku %q must set a template", sku.Code)
		}
	}
	return nil
}

func (c *Config) validateFileNames() error {
	names := map[string]string{
		"archive.complete_dir":       c.Archive.CompleteDir,
		"ledger.file_name":           c.Ledger.FileName,
		"export.file_name":           c.Export.FileName,
		"export.addresses_file_name": c.Export.AddressesFileName,
	}
	for key, name := range names {
		if filepath.Base(name) != name {
			return fmt.Errorf("%s must be a plain file name, got %q", key, name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	return nil
}
