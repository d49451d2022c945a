package preflight

import (
	"context"

	"slideloop/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Trace.Enabled {
		results = append(results, CheckDirectoryAccess("Trace directory", cfg.Trace.Dir))
	}
	results = append(results, CheckCatalog(cfg.Paths.Catalog))
	if cfg.Storage.Backend != config.BackendMemory {
		results = append(results, CheckStorage(ctx, cfg))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
