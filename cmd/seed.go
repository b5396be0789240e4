package cmd

import (
	"fmt"

	"knowledge-assistant/internal/usecase"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample categories and articles",
	Long: `Load the sample categories and articles used for demos and local
development. The admin account is created first when credentials are
configured. Running it twice does nothing the second time.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		setup := usecase.NewSetupService(rt.repo, rt.logger, nil)
		result, err := setup.SeedSampleData(cmd.Context(), adminAccount(rt.config))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "admin created: %t, categories: %d, articles: %d\n",
			result.AdminCreated, result.CategoriesCreated, result.ArticlesCreated)
		return nil
	},
}
