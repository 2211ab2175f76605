package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "timescope",
	Short: "timescope – local window-focus time tracker",
	Long: `timescope watches which window has focus, classifies the time into
categories via pattern rules, and reports daily/weekly/monthly summaries.
All data stays in a local SQLite database.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(reapplyCmd)
	rootCmd.AddCommand(categoriesCmd)
}
