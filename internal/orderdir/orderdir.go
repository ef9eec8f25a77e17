// Package orderdir names and inspects order directories: "{id}" for an
// order as extracted and "{id}.{N}" for the sub-orders split out of it.
package orderdir

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	orderPattern    = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)
	subOrderPattern = regexp.MustCompile(`^([A-Za-z0-9]{8})\.(\d+)$`)
)

// IsOrder reports whether name is a bare eight-character order id.
func IsOrder(name string) bool {
	return orderPattern.MatchString(name)
}

// IsSubOrder reports whether name is a split sub-order "{id}.{N}".
func IsSubOrder(name string) bool {
	return subOrderPattern.MatchString(name)
}

// IsOrderLike reports whether name is an order or a sub-order.
func IsOrderLike(name string) bool {
	return IsOrder(name) || IsSubOrder(name)
}

// Reserved is a set of main-directory entries that are never orders even when
// their name has the shape of one. The default mirror "Complete" is eight
// letters long.
type Reserved map[string]struct{}

// NewReserved builds a Reserved set. Names compare case-insensitively.
func NewReserved(names ...string) Reserved {
	r := make(Reserved, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			r[strings.ToLower(name)] = struct{}{}
		}
	}
	return r
}

// Contains reports whether name is reserved.
func (r Reserved) Contains(name string) bool {
	_, ok := r[strings.ToLower(name)]
	return ok
}

// Order is IsOrder restricted to names outside r.
func (r Reserved) Order(name string) bool {
	return IsOrder(name) && !r.Contains(name)
}

// OrderLike is IsOrderLike restricted to names outside r.
func (r Reserved) OrderLike(name string) bool {
	return IsOrderLike(name) && !r.Contains(name)
}

// SubOrderName returns the directory name of the index-th document of id.
func SubOrderName(id string, index int) string {
	return id + "." + strconv.Itoa(index)
}

// Contents lists the documents and manifests directly inside an order
// directory, each in name order.
type Contents struct {
	Documents []string
	Manifests []string
}

// Complete reports whether the directory holds at least one document and a
// manifest.
func (c Contents) Complete() bool {
	return len(c.Documents) > 0 && len(c.Manifests) > 0
}

// Read lists dir. Extensions compare case-insensitively.
func Read(dir string) (Contents, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Contents{}, err
	}
	var contents Contents
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".pdf":
			contents.Documents = append(contents.Documents, name)
		case ".xml":
			contents.Manifests = append(contents.Manifests, name)
		}
	}
	return contents, nil
}

// List returns the names of the subdirectories of dir accepted by keep, in
// name order.
func List(dir string, keep func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if keep == nil || keep(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
