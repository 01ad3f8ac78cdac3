package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KrishalDhungana/NBAMind/core"
	"github.com/KrishalDhungana/NBAMind/internal/contract"
)

// similarCmd answers a nearest-neighbor similarity query.
var similarCmd = &cobra.Command{
	Use:   "similar <player>",
	Short: "Find the player-seasons most similar to a player.",
	Long: `Rank every fitted player-season by similarity to the query player,
skipping the player's own seasons so cross-era comparisons surface.

The query names a player (case-insensitive) or gives a player id.
Without --season the player's most recent fitted season is used.
Similarity is 1/(1+distance) in the reduced component space; the
mahalanobis metric whitens each axis by its explained variance.

Examples:
  # Closest stylistic matches for a player's latest season
  nbamind similar "Nikola Jokic"

  # A specific season, more neighbors, variance-weighted distance
  nbamind similar "Steve Nash" --season 2006 --top 25 --metric mahalanobis`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSimilar(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run similarity query", err)
		}
	},
}
