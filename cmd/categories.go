package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apkcrawl/apkcrawl-cli/internal/i18n"
)

var (
	categoriesDevice string
	categoriesSubs   bool
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories and subcategories",
	Long:  `Fetch the category tree of the selected store origin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newPlayClient(categoriesDevice)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := client.Login(ctx); err != nil {
			return err
		}

		categories, err := client.Categories(ctx)
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			fmt.Println(i18n.T("categories.none"))
			return nil
		}

		for _, category := range categories {
			fmt.Printf("%s\t%s\n", category.ID, category.Name)
			if !categoriesSubs {
				continue
			}
			subs, err := client.Subcategories(ctx, category, appConfig.Crawling.FreeOnly)
			if err != nil {
				return err
			}
			for _, sub := range subs {
				fmt.Printf("  %s\t%s\n", sub.ID, sub.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)

	categoriesCmd.Flags().StringVar(&categoriesDevice, "device", "", "Device profile to impersonate")
	categoriesCmd.Flags().BoolVar(&categoriesSubs, "subcategories", false, "Also list the subcategories of each category")
}
