package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "goldcore",
	Short: "A double-bottom breakout decision engine for gold (XAU/USD)",
	Long: `goldcore drives a bar-close decision engine that detects double-bottom
breakout patterns, sizes positions by ATR-derived risk, and manages a
multi-level take-profit ladder with trailing stop-loss advancement.

It provides tools for:
  - Running the controller against the in-process simulated terminal
  - Replaying historical bars through the same decision path
  - Inspecting the trade journal`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}
