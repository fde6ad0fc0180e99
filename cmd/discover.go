package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apkcrawl/apkcrawl-cli/internal/errors"
	"github.com/apkcrawl/apkcrawl-cli/internal/i18n"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/vending"
)

var (
	discoverDevice string
	discoverLimit  int
)

var discoverCmd = &cobra.Command{
	Use:   "discover <category-id> [subcategory-id]",
	Short: "Walk one subcategory listing to exhaustion",
	Long: `Fetch a subcategory listing and keep requesting continuation pages
until the backend reports the listing is exhausted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newPlayClient(discoverDevice)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := client.Login(ctx); err != nil {
			return err
		}

		subs, err := resolveSubcategories(ctx, client, args[0])
		if err != nil {
			return err
		}
		if len(args) == 2 {
			subs, err = filterSubcategory(subs, args[1])
			if err != nil {
				return err
			}
		}

		for i := range subs {
			list, err := walkListing(ctx, client, &subs[i], discoverLimit)
			if err != nil {
				return err
			}
			fmt.Println(i18n.T("discover.found", map[string]interface{}{
				"Count": list.Len(),
				"Name":  subs[i].Name,
			}))
			for _, entry := range list.Entries {
				fmt.Printf("%s\t%d\t%s\n", entry.PackageID, entry.VersionCode, entry.Title)
			}
		}
		return nil
	},
}

// resolveSubcategories finds the named category and lists its
// subcategories under the configured free-only policy.
func resolveSubcategories(ctx context.Context, client *vending.Client, categoryID string) ([]models.SubCategory, error) {
	categories, err := client.Categories(ctx)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		if category.ID == categoryID {
			return client.Subcategories(ctx, category, appConfig.Crawling.FreeOnly)
		}
	}
	return nil, fmt.Errorf("unknown category %q, use the categories command to list them", categoryID)
}

func filterSubcategory(subs []models.SubCategory, subID string) ([]models.SubCategory, error) {
	for _, sub := range subs {
		if sub.ID == subID {
			return []models.SubCategory{sub}, nil
		}
	}
	return nil, fmt.Errorf("unknown subcategory %q", subID)
}

// walkListing extends the listing until the backend reports
// exhaustion or the limit is reached. Exhaustion is the expected end
// of every complete walk, not a failure.
func walkListing(ctx context.Context, client *vending.Client, sub *models.SubCategory, limit int) (*models.ResourceList, error) {
	list, err := client.Discover(ctx, sub, nil)
	if err != nil {
		if errors.Is(err, errors.ErrExhausted) {
			return &models.ResourceList{Subcategory: sub}, nil
		}
		return nil, err
	}

	for limit <= 0 || list.Len() < limit {
		if _, err := client.More(ctx, list); err != nil {
			if errors.Is(err, errors.ErrExhausted) {
				break
			}
			return nil, err
		}
	}
	// The last page may carry the total past the limit.
	if limit > 0 && list.Len() > limit {
		list.Entries = list.Entries[:limit]
	}
	return list, nil
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringVar(&discoverDevice, "device", "", "Device profile to impersonate")
	discoverCmd.Flags().IntVar(&discoverLimit, "limit", 0, "Maximum number of packages per subcategory (0 means no limit)")
}
