package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sephli/timescope/internal/domain/tag"
)

var reapplyCmd = &cobra.Command{
	Use:   "reapply",
	Short: "Reclassify every stored activity against the current rules",
	RunE:  runReapply,
}

func runReapply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	reapplier := tag.NewReapplier(a.activityRepo, a.classifier, a.logger)
	result, err := reapplier.ReapplyToAllActivities(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "processed %d activities, updated %d\n",
		result.Processed, result.Updated)
	return nil
}
