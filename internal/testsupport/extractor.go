package testsupport

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
)

// FakeExtractor serves canned page text keyed by document base name.
type FakeExtractor struct {
	Pages  map[string][][]string
	Errors map[string]error

	mu    sync.Mutex
	calls []string
}

// ExtractPages returns the configured pages for path. Unknown documents
// fail like a corrupt file would.
func (f *FakeExtractor) ExtractPages(ctx context.Context, path string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if err, ok := f.Errors[name]; ok {
		return nil, err
	}
	pages, ok := f.Pages[name]
	if !ok {
		return nil, errors.New("no text layer")
	}
	return pages, nil
}

// Calls returns the document names requested so far.
func (f *FakeExtractor) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// LabelPages returns a single page laid out the way scanned labels are: two
// header lines, then name, street, and city/state lines.
func LabelPages(name, street, cityLine string, extra ...string) [][]string {
	page := []string{"RETURN SERVICE REQUESTED", "Member Services", name, street, cityLine}
	page = append(page, extra...)
	return [][]string{page}
}
