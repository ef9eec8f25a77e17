package extraction

import (
	"regexp"
	"strings"

	"fulfill/internal/config"
)

// Rules bundles the ordered rule lists that drive extraction.
type Rules struct {
	UnitDesignators []string
	StopKeywords    []string
	NameLine        int
	AddressLine     int
	CityLine        int
	NotFound        string

	ScanUnitDesignators []string
	ScanStopKeywords    []string
	NameStopWords       []string
	SkipMarkers         []config.SkipMarker
}

// RulesFromConfig copies the extraction section of the configuration.
func RulesFromConfig(cfg config.Extraction) Rules {
	return Rules{
		UnitDesignators:     append([]string(nil), cfg.UnitDesignators...),
		StopKeywords:        append([]string(nil), cfg.StopKeywords...),
		NameLine:            cfg.NameLine,
		AddressLine:         cfg.AddressLine,
		CityLine:            cfg.CityLine,
		NotFound:            cfg.NotFound,
		ScanUnitDesignators: append([]string(nil), cfg.ScanUnitDesignators...),
		ScanStopKeywords:    append([]string(nil), cfg.ScanStopKeywords...),
		NameStopWords:       append([]string(nil), cfg.NameStopWords...),
		SkipMarkers:         append([]config.SkipMarker(nil), cfg.SkipMarkers...),
	}
}

// DefaultRules returns the rules of a default configuration.
func DefaultRules() Rules {
	cfg := config.Default()
	return RulesFromConfig(cfg.Extraction)
}

// alternation builds a non-capturing group matching any of the literal tokens
// in list order.
func alternation(tokens []string) string {
	quoted := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(token))
	}
	if len(quoted) == 0 {
		return ""
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

// truncateAtFirstListed cuts text at the first keyword, in list order, that
// occurs in it. A later-listed keyword appearing earlier in text is ignored.
func truncateAtFirstListed(text string, keywords []string) string {
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if idx := strings.Index(text, keyword); idx >= 0 {
			return strings.TrimSpace(text[:idx])
		}
	}
	return strings.TrimSpace(text)
}

// truncateAtKeyword cuts text at the earliest occurrence of any keyword and
// trims the remainder. Text without a keyword is only trimmed.
func truncateAtKeyword(text string, keywords []string) string {
	cut := -1
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if idx := strings.Index(text, keyword); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut >= 0 {
		text = text[:cut]
	}
	return strings.TrimSpace(text)
}
