package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"slideloop/internal/catalog"
	"slideloop/internal/compositor"
	"slideloop/internal/config"
	"slideloop/internal/kvstore"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalog loads the manifest at path and decodes every image header.
// An empty path checks the built-in demo catalog.
func CheckCatalog(path string) Result {
	const name = "Catalog"

	var (
		cat    *catalog.Catalog
		source = "built-in demo"
	)
	if strings.TrimSpace(path) == "" {
		cat = catalog.Demo()
	} else {
		loaded, err := catalog.LoadManifest(path)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
		}
		cat = loaded
		source = path
	}

	for i := 0; i < cat.Len(); i++ {
		section, err := cat.Get(i)
		if err != nil {
			return Result{Name: name, Detail: err.Error()}
		}
		for _, ref := range []catalog.ImageRef{section.Blurred, section.Clear} {
			if _, _, err := compositor.DecodeImage(ref); err != nil {
				return Result{Name: name, Detail: fmt.Sprintf("%s: %s (error: %v)", section.Name, ref.Source, err)}
			}
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d sections)", source, cat.Len())}
}

// CheckStorage opens the configured key-value backend and closes it again.
func CheckStorage(ctx context.Context, cfg *config.Config) Result {
	name := "Storage (" + cfg.Storage.Backend + ")"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		backend kvstore.Backend
		target  string
		err     error
	)
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		target = cfg.Storage.RedisURL
		backend, err = kvstore.OpenRedis(checkCtx, cfg.Storage.RedisURL, "")
	case config.BackendMemory:
		return Result{Name: name, Passed: true, Detail: "in-memory (not persisted)"}
	default:
		target = cfg.StateDBPath()
		backend, err = kvstore.OpenSQLite(checkCtx, target)
	}
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", target, err)}
	}
	_ = backend.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", target)}
}
