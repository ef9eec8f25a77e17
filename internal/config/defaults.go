package config

const (
	defaultMainDir            = "."
	defaultStateDir           = "~/.local/share/fulfill"
	defaultLogDir             = "~/.local/share/fulfill/logs"
	defaultStatusVendorID     = "N"
	defaultExportVendor       = "AI"
	defaultShippingMethod     = "USPS"
	defaultBusinessDays       = 5
	defaultNameLine           = 2
	defaultAddressLine        = 3
	defaultCityLine           = 4
	defaultNotFound           = "NOT FOUND"
	defaultUnknownDescription = "Unknown Description"
	defaultCompleteDir        = "Complete"
	defaultLedgerFileName     = "daily_status.tsv"
	defaultExportFileName     = "extracted.xlsx"
	defaultAddressesFileName  = "addresses.xlsx"
	defaultExportSheet        = "Sheet1"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 30
)

// DefaultUnitDesignators lists the address-line-2 tokens recognized by default.
func DefaultUnitDesignators() []string {
	return []string{"UNIT", "unit", "APT", "Apt", "Apt."}
}

// DefaultStopKeywords lists the boilerplate words that terminate an address line.
func DefaultStopKeywords() []string {
	return []string{"Medical", "COMPRADOR", "Comprador", "醫", "Health", "Me", "He", "Co"}
}

// DefaultScanUnitDesignators lists the unit tokens recognized by the address scan.
func DefaultScanUnitDesignators() []string {
	return []string{"Apt", "Unit", "UNIT", "APT", "SPC", "Suite", "No", "no", "Spc"}
}

// DefaultScanStopKeywords lists the words that terminate a scanned street address.
func DefaultScanStopKeywords() []string {
	return []string{"Health", "Med", "MED", "HEA", "MRN", " 醫", "醫", "COMPRAD", "Comprad"}
}

// DefaultNameStopWords lists the words that terminate a scanned name line.
func DefaultNameStopWords() []string {
	return []string{"GROUP", "PURCHASER", "Medical", "MRN", "MED", "購", "IDENTIF", "Enrole", "Enroll", "N.º", "COMPRA"}
}

// DefaultSkipMarkers lists the letterhead lines dropped before an address scan.
func DefaultSkipMarkers() []SkipMarker {
	return []SkipMarker{
		{Marker: "California Gr", Lines: 2},
		{Marker: "Hawaii Gr", Lines: 1},
		{Marker: "Colorado", Lines: 1},
		{Marker: "Member R", Lines: 1},
		{Marker: "Nine Pied", Lines: 1},
		{Marker: "CA Medic", Lines: 1},
		{Marker: "Grievance", Lines: 1},
		{Marker: "PO Box 1809", Lines: 0},
		{Marker: "PO Box 939001", Lines: 0},
	}
}

// DefaultSKUs lists the item description templates shipped with fulfill.
func DefaultSKUs() []SKU {
	return []SKU{
		{Code: "AIA_0300", Template: "Audio CD, {DOCID}"},
		{Code: "AIB_0200", Template: "Braille, {DOCID}"},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MainDir:  defaultMainDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Vendor: Vendor{
			StatusVendorID: defaultStatusVendorID,
			ExportVendor:   defaultExportVendor,
			ShippingMethod: defaultShippingMethod,
		},
		Schedule: Schedule{
			BusinessDays: defaultBusinessDays,
		},
		Extraction: Extraction{
			UnitDesignators:     DefaultUnitDesignators(),
			StopKeywords:        DefaultStopKeywords(),
			NameLine:            defaultNameLine,
			AddressLine:         defaultAddressLine,
			CityLine:            defaultCityLine,
			NotFound:            defaultNotFound,
			ScanUnitDesignators: DefaultScanUnitDesignators(),
			ScanStopKeywords:    DefaultScanStopKeywords(),
			NameStopWords:       DefaultNameStopWords(),
			SkipMarkers:         DefaultSkipMarkers(),
		},
		Manifest: Manifest{
			SKUs:               DefaultSKUs(),
			UnknownDescription: defaultUnknownDescription,
		},
		Archive: Archive{
			CompleteDir:   defaultCompleteDir,
			DeleteSources: true,
		},
		Ledger: Ledger{
			FileName: defaultLedgerFileName,
		},
		Export: Export{
			FileName:          defaultExportFileName,
			AddressesFileName: defaultAddressesFileName,
			Sheet:             defaultExportSheet,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
