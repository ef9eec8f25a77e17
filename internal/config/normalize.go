package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVendor()
	c.normalizeExtraction()
	c.normalizeManifest()
	c.normalizeFileNames()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.MainDir) == "" {
		c.Paths.MainDir = defaultMainDir
	}
	if c.Paths.MainDir, err = expandPath(c.Paths.MainDir); err != nil {
		return fmt.Errorf("paths.main_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVendor() {
	c.Vendor.StatusVendorID = strings.TrimSpace(c.Vendor.StatusVendorID)
	c.Vendor.ExportVendor = strings.TrimSpace(c.Vendor.ExportVendor)
	c.Vendor.ShippingMethod = strings.TrimSpace(c.Vendor.ShippingMethod)
	c.Vendor.ShippingCost = strings.TrimSpace(c.Vendor.ShippingCost)
	if c.Vendor.ShippingMethod == "" {
		c.Vendor.ShippingMethod = defaultShippingMethod
	}
}

// normalizeExtraction drops blank rule entries but keeps list order and
// surrounding spaces, since a keyword like " 醫" is matched verbatim.
func (c *Config) normalizeExtraction() {
	c.Extraction.UnitDesignators = dropBlank(c.Extraction.UnitDesignators)
	c.Extraction.StopKeywords = dropBlank(c.Extraction.StopKeywords)
	c.Extraction.ScanUnitDesignators = dropBlank(c.Extraction.ScanUnitDesignators)
	c.Extraction.ScanStopKeywords = dropBlank(c.Extraction.ScanStopKeywords)
	c.Extraction.NameStopWords = dropBlank(c.Extraction.NameStopWords)
	markers := c.Extraction.SkipMarkers[:0]
	for _, marker := range c.Extraction.SkipMarkers {
		if strings.TrimSpace(marker.Marker) == "" {
			continue
		}
		markers = append(markers, marker)
	}
	c.Extraction.SkipMarkers = markers
	if strings.TrimSpace(c.Extraction.NotFound) == "" {
		c.Extraction.NotFound = defaultNotFound
	}
}

func (c *Config) normalizeManifest() {
	skus := c.Manifest.SKUs[:0]
	for _, sku := range c.Manifest.SKUs {
		sku.Code = strings.TrimSpace(sku.Code)
		if sku.Code == "" {
			continue
		}
		skus = append(skus, sku)
	}
	c.Manifest.SKUs = skus
	if strings.TrimSpace(c.Manifest.UnknownDescription) == "" {
		c.Manifest.UnknownDescription = defaultUnknownDescription
	}
}

func (c *Config) normalizeFileNames() {
	c.Archive.CompleteDir = strings.TrimSpace(c.Archive.CompleteDir)
	if c.Archive.CompleteDir == "" {
		c.Archive.CompleteDir = defaultCompleteDir
	}
	c.Ledger.FileName = strings.TrimSpace(c.Ledger.FileName)
	if c.Ledger.FileName == "" {
		c.Ledger.FileName = defaultLedgerFileName
	}
	c.Export.FileName = strings.TrimSpace(c.Export.FileName)
	if c.Export.FileName == "" {
		c.Export.FileName = defaultExportFileName
	}
	c.Export.AddressesFileName = strings.TrimSpace(c.Export.AddressesFileName)
	if c.Export.AddressesFileName == "" {
		c.Export.AddressesFileName = defaultAddressesFileName
	}
	c.Export.Sheet = strings.TrimSpace(c.Export.Sheet)
	if c.Export.Sheet == "" {
		c.Export.Sheet = defaultExportSheet
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func dropBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
