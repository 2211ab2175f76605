package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sephli/timescope/internal/aggregate"
	"github.com/sephli/timescope/internal/domain/activity"
)

var reportDate string

var reportCmd = &cobra.Command{
	Use:       "report [day|week|month]",
	Short:     "Show a time summary for a day, week, or month",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"day", "week", "month"},
	RunE:      runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Date within the period (YYYY-MM-DD, default today)")
}

func runReport(cmd *cobra.Command, args []string) error {
	period := "day"
	if len(args) == 1 {
		period = args[0]
	}

	date, err := parseDate(reportDate)
	if err != nil {
		return err
	}
	now := time.Now()

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	categories, err := a.categoryMap(ctx)
	if err != nil {
		return err
	}

	var from, to time.Time
	switch period {
	case "day":
		from = aggregate.StartOfDay(date)
		to = from.AddDate(0, 0, 1)
	case "week":
		from = aggregate.StartOfWeek(date)
		to = from.AddDate(0, 0, 7)
	case "month":
		from = aggregate.StartOfMonth(date)
		to = from.AddDate(0, 1, 0)
	default:
		return fmt.Errorf("unknown period %q", period)
	}

	activities, err := a.activities.List(ctx, activity.Filter{From: &from, To: &to})
	if err != nil {
		return err
	}

	switch period {
	case "day":
		renderDaily(cmd.OutOrStdout(), aggregate.Daily(activities, categories, date, now))
	case "week":
		renderPeriod(cmd.OutOrStdout(), "Week", aggregate.Weekly(activities, categories, date, now))
	case "month":
		renderPeriod(cmd.OutOrStdout(), "Month", aggregate.Monthly(activities, categories, date, now))
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	date, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return date, nil
}
