// main is the command-line entrypoint for nbamind.
package main

import (
	"fmt"
	"os"

	"github.com/KrishalDhungana/NBAMind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
