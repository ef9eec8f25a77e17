package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"fulfill/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The main directory exists; state and log directories are left for the code
// under test to create.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.MainDir = filepath.Join(base, "main")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	if err := os.MkdirAll(cfgVal.Paths.MainDir, 0o755); err != nil {
		t.Fatalf("mkdir main dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithVendor overrides the vendor section of the test config.
func WithVendor(vendor config.Vendor) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Vendor = vendor
	}
}

// WithKeepSources disables deletion of source archives after extraction.
func WithKeepSources() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Archive.DeleteSources = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.MainDir)
}
