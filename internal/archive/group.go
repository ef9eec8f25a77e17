package archive

import (
	"regexp"
	"sort"
)

var groupKeyPattern = regexp.MustCompile(`^([A-Za-z0-9]{8})_.*\.(?i:zip)$`)

// GroupKey returns the order id an archive name belongs to. Names that do
// not follow the "{id}_*.zip" convention report false and are ignored.
func GroupKey(name string) (string, bool) {
	match := groupKeyPattern.FindStringSubmatch(name)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Group buckets archive names by order id. Members of each group are sorted.
func Group(names []string) map[string][]string {
	groups := make(map[string][]string)
	for _, name := range names {
		key, ok := GroupKey(name)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], name)
	}
	for key := range groups {
		sort.Strings(groups[key])
	}
	return groups
}

// SortedKeys returns the group ids in ascending order.
func SortedKeys(groups map[string][]string) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
