package extraction

import (
	"regexp"
	"strings"
)

// AddressRecord is the result of a layout-independent address scan.
type AddressRecord struct {
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZIP          string
}

// NotFoundAddress returns a record whose every field carries the sentinel.
func NotFoundAddress(sentinel string) AddressRecord {
	return AddressRecord{
		Name:         sentinel,
		AddressLine1: sentinel,
		AddressLine2: sentinel,
		City:         sentinel,
		State:        sentinel,
		ZIP:          sentinel,
	}
}

var (
	cityStatePattern = regexp.MustCompile(`([A-Za-z\s]+),\s([A-Z]{2})`)
	streetPattern    = regexp.MustCompile(`(\d{2,5}\s[^,]+|PO Box \d+)`)
	zipPattern       = regexp.MustCompile(`([A-Z]{2})\s(\d{5}(-\d{4})?)`)
)

type scanPatterns struct {
	unit *regexp.Regexp
	name *regexp.Regexp
}

func compileScan(rules Rules) scanPatterns {
	var patterns scanPatterns
	if alt := alternation(rules.ScanUnitDesignators); alt != "" {
		patterns.unit = regexp.MustCompile(`\b` + alt + `\b\s.*`)
	}
	if alt := alternation(rules.NameStopWords); alt != "" {
		patterns.name = regexp.MustCompile(`(?i)\s*` + alt + `.*`)
	}
	return patterns
}

// ScanAddress looks for the first "City, ST" line preceded by a street line
// and reads the recipient around it. Letterhead lines named by the skip
// markers are dropped first. It reports false when no address is found.
func (e *Extractor) ScanAddress(lines []string) (AddressRecord, bool) {
	kept := e.dropLetterhead(lines)
	for i, line := range kept {
		if i == 0 {
			continue
		}
		cityMatch := cityStatePattern.FindStringSubmatch(line)
		if cityMatch == nil {
			continue
		}
		street := streetPattern.FindString(kept[i-1])
		if street == "" {
			continue
		}

		record := AddressRecord{
			City:  strings.TrimSpace(cityMatch[1]),
			State: cityMatch[2],
		}
		record.AddressLine1, record.AddressLine2 = e.splitScannedStreet(strings.TrimSpace(street))
		if i > 1 {
			record.Name = e.cleanName(kept[i-2])
		}
		if zip := zipPattern.FindStringSubmatch(line); zip != nil {
			record.ZIP = zip[2]
		}
		return record, true
	}
	return AddressRecord{}, false
}

func (e *Extractor) dropLetterhead(lines []string) []string {
	kept := make([]string, 0, len(lines))
	skip := 0
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if skip > 0 {
			skip--
			continue
		}
		if marker, ok := e.matchSkipMarker(line); ok {
			skip = marker
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

func (e *Extractor) matchSkipMarker(line string) (int, bool) {
	for _, marker := range e.rules.SkipMarkers {
		if marker.Marker != "" && strings.Contains(line, marker.Marker) {
			return marker.Lines, true
		}
	}
	return 0, false
}

func (e *Extractor) splitScannedStreet(street string) (string, string) {
	if strings.HasPrefix(street, "PO Box") {
		return street, ""
	}
	street = truncateAtKeyword(street, e.rules.ScanStopKeywords)
	if e.scan.unit != nil {
		if loc := e.scan.unit.FindStringIndex(street); loc != nil {
			return strings.TrimSpace(street[:loc[0]]), strings.TrimSpace(street[loc[0]:])
		}
	}
	return street, ""
}

func (e *Extractor) cleanName(line string) string {
	name := strings.TrimSpace(line)
	if e.scan.name != nil {
		name = e.scan.name.ReplaceAllString(name, "")
	}
	return strings.TrimSpace(name)
}
