package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sephli/timescope/internal/aggregate"
)

var (
	blocksDate    string
	blocksMinutes int
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Show fixed-width time blocks for a day",
	RunE:  runBlocks,
}

func init() {
	blocksCmd.Flags().StringVar(&blocksDate, "date", "", "Date to inspect (YYYY-MM-DD, default today)")
	blocksCmd.Flags().IntVar(&blocksMinutes, "minutes", 0, "Block width in minutes (default from config)")
}

func runBlocks(cmd *cobra.Command, args []string) error {
	date, err := parseDate(blocksDate)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	minutes := blocksMinutes
	if minutes <= 0 {
		minutes = a.cfg.Tracking.BlockMinutes
	}

	categories, err := a.categoryMap(ctx)
	if err != nil {
		return err
	}
	activities, err := a.activities.ListDay(ctx, date)
	if err != nil {
		return err
	}

	blocks := aggregate.TimeBlocks(activities, categories, date, minutes, time.Now())
	renderBlocks(cmd.OutOrStdout(), blocks)
	return nil
}
