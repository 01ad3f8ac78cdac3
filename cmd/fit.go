package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KrishalDhungana/NBAMind/core"
	"github.com/KrishalDhungana/NBAMind/internal/contract"
)

// fitCmd fits the component space and archetype mixture.
var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit the component space and archetype mixture on built features.",
	Long: `Reduce the feature table to its principal components and fit a
Gaussian mixture over the reduced coordinates.

Components are retained until the cumulative explained variance crosses
the --variance threshold. The archetype count is either pinned with
--components or selected by scanning --k-min through --k-max and keeping
the lowest BIC. Fitting is seeded and deterministic for a given feature
table.

Artifacts (space, model, coordinates, assignments) are written to the
data directory and consumed by 'archetypes' and 'similar'. Refitting
produces a new space id, which invalidates earlier coordinates.

Examples:
  # Fit with BIC selection over the default scan range
  nbamind fit

  # Pin eight archetypes and keep more variance
  nbamind fit --components 8 --variance 0.99`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFit(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot fit model", err)
		}
	},
}
