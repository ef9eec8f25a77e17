package preflight

import (
	"fmt"
	"path/filepath"
	"strings"

	"fulfill/internal/config"
	"fulfill/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Main directory", cfg.Paths.MainDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	// The complete mirror is created on demand; only its parent must exist.
	if cfg.Archive.CompleteDir != "" {
		complete := filepath.Join(cfg.Paths.MainDir, cfg.Archive.CompleteDir)
		results = append(results, CheckCreatable("Complete directory", complete))
	}

	results = append(results, CheckFileWritable("Status ledger", filepath.Join(cfg.Paths.MainDir, cfg.Ledger.FileName)))
	return results
}

// Err folds failed results into a single configuration error, or returns nil
// when every check passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "check paths", strings.Join(failed, "; "), nil)
}
