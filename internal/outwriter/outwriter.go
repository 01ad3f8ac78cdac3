// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"golang.org/x/term"
)

// getMaxTableNameWidth calculates the maximum width for player names in
// table output based on terminal width.
func getMaxTableNameWidth() int {
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Conservative default for narrow terminals and CI
		detectedWidth = 80
	}

	// Reserve space for rank, season, team, similarity, label columns
	// plus table borders and padding.
	available := detectedWidth - 50
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
