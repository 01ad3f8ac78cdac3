package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/internal/iocache"
	"github.com/KrishalDhungana/NBAMind/schema"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	store, err := iocache.NewCacheStore("payloads", backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	cacheStore = store

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead
// of the full sharedSetup used by pipeline commands. This avoids season
// window validation for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the raw payload cache (avoids refetching)",
	Long: `Manage the cache of raw provider payloads.

Every upstream response is cached by endpoint and parameters, so
rebuilding features for a window you have already fetched never hits
the network. The provider throttles aggressively; a warm cache is the
difference between seconds and hours for a multi-decade window.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached payloads

Examples:
  # Check cache status
  nbamind cache status

  # Clear cache to force fresh fetches
  nbamind cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached provider payloads",
	Long: `Delete all cached provider payloads from the configured backend.

Use this when:
- The provider corrected historical stats
- Cache may be stale or corrupted
- Testing fetch behavior without cache

Examples:
  # Clear SQLite cache (default)
  nbamind cache clear

  # Clear MySQL cache (set connection string via env variable)
  NBAMIND_CACHE_BACKEND=mysql NBAMIND_CACHE_DB_CONNECT="..." nbamind cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := cacheStore.Clear(rootCtx); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the configured cache backend and how many payloads it holds.

Examples:
  # Check cache status
  nbamind cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		count, err := cacheStore.Count(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		fmt.Printf("Backend: %s\n", cfg.CacheBackend)
		fmt.Printf("Cached payloads: %d\n", count)
	},
}
