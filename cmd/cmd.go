// Package cmd defines the command-line interface for nbamind.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/KrishalDhungana/NBAMind/internal/contract"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(archetypesCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", "text", "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("data-dir", contract.DefaultDataDir, "Directory for feature tables and model artifacts")
	rootCmd.PersistentFlags().Int("from", 0, "First season of the window, by start year (e.g. 2004 for 2004-05)")
	rootCmd.PersistentFlags().Int("to", 0, "Last season of the window, by start year")
	rootCmd.PersistentFlags().String("cache-backend", "sqlite", "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of fitCmd to Viper
	fitCmd.Flags().Float64("variance", contract.DefaultVariance, "Cumulative explained-variance threshold for retained components")
	fitCmd.Flags().Int("components", 0, "Pin the archetype count (0 = scan k-min..k-max by BIC)")
	fitCmd.Flags().Int("k-min", contract.DefaultKMin, "Smallest archetype count to scan")
	fitCmd.Flags().Int("k-max", contract.DefaultKMax, "Largest archetype count to scan")
	fitCmd.Flags().Int64("seed", contract.DefaultSeed, "Random seed for mixture initialization")
	if err := viper.BindPFlags(fitCmd.Flags()); err != nil {
		contract.LogFatal("Error binding fit flags", err)
	}

	// Bind all flags of similarCmd to Viper
	similarCmd.Flags().Int("top", contract.DefaultTopK, "Number of neighbors to return")
	similarCmd.Flags().String("metric", "euclidean", "Distance metric: euclidean or mahalanobis")
	similarCmd.Flags().Int("season", 0, "Query season by start year (default: player's most recent)")
	if err := viper.BindPFlags(similarCmd.Flags()); err != nil {
		contract.LogFatal("Error binding similar flags", err)
	}
}
