package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KrishalDhungana/NBAMind/core"
	"github.com/KrishalDhungana/NBAMind/internal/contract"
	"github.com/KrishalDhungana/NBAMind/internal/statsapi"
)

// featuresCmd builds the era-adjusted feature table.
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Fetch raw stats and build the era-adjusted feature table.",
	Long: `Fetch player-season stats for the configured window, rescale them to
a per-100-possession basis, engineer the composite creation metrics, and
normalize everything against each season's rotation population.

The resulting feature table is written to the data directory as Parquet
and feeds the 'fit' command. A data-quality report accompanies every
build: flagged records stay in the table, they are just marked.

Raw provider payloads are cached, so rebuilding a window you have
already fetched does not hit the network.

Examples:
  # Build features for two decades
  nbamind features --from 2004 --to 2023

  # Rebuild with a JSON quality report
  nbamind features --from 2013 --to 2023 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		provider := statsapi.NewClient(cacheStore)
		if err := core.ExecuteFeatures(rootCtx, cfg, provider); err != nil {
			contract.LogFatal("Cannot build features", err)
		}
	},
}
