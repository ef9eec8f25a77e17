package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fields holds the recipient data pulled from one label.
type Fields struct {
	FirstName    string
	LastName     string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	MRNPrefix    string
	MRN          string
}

// NotFoundFields returns a record whose every field carries the sentinel.
func NotFoundFields(sentinel string) Fields {
	return Fields{
		FirstName:    sentinel,
		LastName:     sentinel,
		AddressLine1: sentinel,
		AddressLine2: sentinel,
		City:         sentinel,
		State:        sentinel,
		MRNPrefix:    sentinel,
		MRN:          sentinel,
	}
}

// Hint returns the address correlation hint used when reading the manifest.
func (f Fields) Hint() string {
	return f.AddressLine1
}

var mrnPattern = regexp.MustCompile(`(\b\d{2})-(\d{6,14})\b|(?:Medical\s+Record\s+Number|Record\s+Number):\s*(\d+)`)

// Extractor applies a fixed set of rules to label text.
type Extractor struct {
	rules       Rules
	unitPattern *regexp.Regexp
	scan        scanPatterns
}

// NewExtractor compiles the rule lists once.
func NewExtractor(rules Rules) *Extractor {
	e := &Extractor{rules: rules, scan: compileScan(rules)}
	if alt := alternation(rules.UnitDesignators); alt != "" {
		e.unitPattern = regexp.MustCompile(`\b` + alt + `\s.{1,7}`)
	}
	return e
}

// Rules returns the rules the extractor was built with.
func (e *Extractor) Rules() Rules {
	return e.rules
}

// Flatten joins per-page lines into one line sequence, normalizing each line
// to NFC so composed and decomposed forms of the same text compare equal.
func Flatten(pages [][]string) []string {
	var lines []string
	for _, page := range pages {
		for _, line := range page {
			lines = append(lines, norm.NFC.String(line))
		}
	}
	return lines
}

// Extract derives recipient fields from the document lines. Missing lines
// leave the corresponding fields empty. MRN is searched across the full text.
func (e *Extractor) Extract(lines []string) Fields {
	var fields Fields

	if name, ok := lineAt(lines, e.rules.NameLine); ok {
		fields.FirstName, fields.LastName = splitName(name)
	}
	if street, ok := lineAt(lines, e.rules.AddressLine); ok {
		fields.AddressLine1, fields.AddressLine2 = e.splitStreet(street)
	}
	if cityLine, ok := lineAt(lines, e.rules.CityLine); ok {
		fields.City, fields.State = splitCityState(cityLine)
	}
	fields.MRNPrefix, fields.MRN = findMRN(strings.Join(lines, "\n"))
	return fields
}

func lineAt(lines []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(lines) {
		return "", false
	}
	return norm.NFC.String(lines[idx]), true
}

// splitName takes the first token as first name. The last name is the second
// token unless that token is a middle initial, in which case it is the third.
func splitName(line string) (string, string) {
	tokens := strings.Fields(line)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	}
	last := tokens[1]
	if len([]rune(tokens[1])) == 1 && len(tokens) > 2 {
		last = tokens[2]
	}
	return tokens[0], last
}

func (e *Extractor) splitStreet(line string) (string, string) {
	line1 := line
	line2 := ""
	if e.unitPattern != nil {
		if loc := e.unitPattern.FindStringIndex(line); loc != nil {
			line2 = truncateAtFirstListed(line[loc[0]:loc[1]], e.rules.StopKeywords)
			line1 = line[:loc[0]]
		}
	}
	return truncateAtKeyword(line1, e.rules.StopKeywords), line2
}

// splitCityState reads "City, ST 12345". A line without exactly one comma
// yields nothing.
func splitCityState(line string) (string, string) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return "", ""
	}
	city := strings.TrimSpace(parts[0])
	state := ""
	if tokens := strings.Fields(parts[1]); len(tokens) > 0 {
		state = tokens[0]
	}
	return city, state
}

func findMRN(text string) (string, string) {
	match := mrnPattern.FindStringSubmatch(text)
	if match == nil {
		return "", ""
	}
	if match[1] != "" {
		return match[1], match[2]
	}
	return "", match[3]
}
