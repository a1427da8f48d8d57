package preflight

import (
	"errors"
	"fmt"
	"strings"

	"sourcesound/internal/config"
)

// ErrCheckFailed wraps every error returned by Err.
var ErrCheckFailed = errors.New("preflight check failed")

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the directories named by cfg. The userdata directory is only
// checked when configured.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Libraries directory", cfg.Paths.LibrariesDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if strings.TrimSpace(cfg.Paths.UserdataDir) != "" {
		results = append(results, CheckDirectoryReadable("Userdata directory", cfg.Paths.UserdataDir))
	}
	return results
}

// Err folds failed results into a single error, or nil when all passed.
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
	return fmt.Errorf("%w: %s", ErrCheckFailed, strings.Join(failed, "; "))
}
