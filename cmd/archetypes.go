package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KrishalDhungana/NBAMind/core"
	"github.com/KrishalDhungana/NBAMind/internal/contract"
)

// archetypesCmd summarizes the fitted mixture.
var archetypesCmd = &cobra.Command{
	Use:   "archetypes",
	Short: "Summarize the fitted archetypes and their members.",
	Long: `Show each archetype of the fitted mixture: its mixing weight, how
many player-seasons land on it as their best assignment, the average
assignment confidence, and the highest-confidence exemplars.

Assignments are soft; a player-season carries a full probability vector
over all archetypes, and this view only reports the arg-max.

Examples:
  # Human-readable summary
  nbamind archetypes

  # Export weights and membership as CSV
  nbamind archetypes --output csv --output-file archetypes.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteArchetypes(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot summarize archetypes", err)
		}
	},
}
