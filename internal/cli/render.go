package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/sephli/timescope/internal/aggregate"
	"github.com/sephli/timescope/internal/domain/category"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func swatch(color string) string {
	if color == "" {
		return "  "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

func renderDaily(w io.Writer, s aggregate.DailySummary) {
	fmt.Fprintln(w, titleStyle.Render(s.Date.Format("Monday, 2 Jan 2006")))
	fmt.Fprintf(w, "total %s  active %s  idle %s\n\n",
		formatDuration(s.TotalSeconds),
		formatDuration(s.ActiveSeconds),
		formatDuration(s.IdleSeconds))

	if len(s.Categories) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Categories"))
		renderSlices(w, s.Categories)
	}
	if len(s.Apps) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Applications"))
		renderSlices(w, s.Apps)
	}
}

func renderPeriod(w io.Writer, label string, s aggregate.PeriodSummary) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s of %s", label, s.Start.Format("2 Jan 2006"))))
	fmt.Fprintf(w, "total %s  idle %s  avg/day %s\n\n",
		formatDuration(s.TotalSeconds),
		formatDuration(s.IdleSeconds),
		formatDuration(s.AverageDailySeconds))

	if len(s.TopCategories) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Top categories"))
		renderSlices(w, s.TopCategories)
	}
	if len(s.TopApps) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Top applications"))
		renderSlices(w, s.TopApps)
	}
}

func renderSlices(w io.Writer, slices []aggregate.Slice) {
	for _, s := range slices {
		fmt.Fprintf(w, "  %s %-24s %10s %6.1f%%\n",
			swatch(s.Color), s.Name, formatDuration(s.DurationSeconds), s.Percentage)
	}
	fmt.Fprintln(w)
}

func renderBlocks(w io.Writer, blocks []aggregate.TimeBlock) {
	for _, b := range blocks {
		if b.TotalSeconds == 0 {
			continue
		}
		label := b.DominantApp
		if b.DominantCategory != "" {
			label += dimStyle.Render(" · " + b.DominantCategory)
		}
		fmt.Fprintf(w, "%s – %s  %10s  %s\n",
			b.Start.Format("15:04"), b.End.Format("15:04"),
			formatDuration(b.TotalSeconds), label)
	}
}

func renderCategories(w io.Writer, categories []category.Category) {
	for _, c := range categories {
		name := c.Name
		if c.IsDefault {
			name += dimStyle.Render(" (default)")
		}
		fmt.Fprintf(w, "%s %s\n", swatch(c.Color), name)
		for _, r := range c.Rules {
			kind := "contains"
			if r.IsRegex {
				kind = "regex"
				if !r.IsValid {
					kind = "regex (invalid)"
				}
			}
			fmt.Fprintf(w, "     %s %s %q\n", r.Type, kind, r.Pattern)
		}
	}
}

// formatDuration renders seconds as "1h 40m", "45m", or "30s".
func formatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", seconds)
}
