package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KrishalDhungana/NBAMind/core"
	"github.com/KrishalDhungana/NBAMind/internal/contract"
)

// seasonsCmd prints stat-family availability per season.
var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "Show which stat families are available per season.",
	Long: `List the seasons in the configured window and the stat families
each one carries.

Box-score stats exist for every season. Shot-location dashboards begin
with the 1996-97 season and player-tracking dashboards with 2013-14;
features depending on a missing family are excluded for that season
rather than zero-filled.

Examples:
  # Availability across the tracking era
  nbamind seasons --from 2013 --to 2023

  # A window straddling the shot-location cutover
  nbamind seasons --from 1994 --to 1998`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeasons(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list seasons", err)
		}
	},
}
