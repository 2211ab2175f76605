package cli

import (
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List classification categories in matching order",
	RunE:  runCategories,
}

func runCategories(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	categories, err := a.categories.List(ctx)
	if err != nil {
		return err
	}

	renderCategories(cmd.OutOrStdout(), categories)
	return nil
}
