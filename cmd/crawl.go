package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	rundevice "github.com/apkcrawl/apkcrawl-cli/internal/device"
	"github.com/apkcrawl/apkcrawl-cli/internal/i18n"
	"github.com/apkcrawl/apkcrawl-cli/pkg/store"
	"github.com/apkcrawl/apkcrawl-cli/pkg/utils"
)

var (
	crawlProfiles []string
	crawlLimit    int
	crawlOutput   string
	crawlWorkers  int
)

// crawlStats is the per-profile outcome of one crawl task.
type crawlStats struct {
	Downloaded int
	Failed     int
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [category-id...]",
	Short: "Crawl whole categories across device profiles",
	Long: `Run the discover and download pipeline over every subcategory of the
selected categories. Multiple device profiles run concurrently, each
with its own session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles := crawlProfiles
		if len(profiles) == 0 {
			profiles = []string{appConfig.Account.Device}
		}

		sink, err := newSink(crawlOutput)
		if err != nil {
			return err
		}

		manager := rundevice.NewManager[crawlStats](
			rundevice.WithWorkerLimit[crawlStats](crawlWorkers),
		)
		results := manager.Run(cmd.Context(), profiles, func(ctx context.Context, profile string) (crawlStats, error) {
			return crawlWithProfile(ctx, profile, args, sink)
		})

		total := 0
		var firstErr error
		for _, res := range results {
			if res.Err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("profile %s: %w", res.Profile, res.Err)
				}
				continue
			}
			total += res.Value.Downloaded
			fmt.Println(i18n.T("crawl.profile", map[string]interface{}{
				"Profile":    res.Profile,
				"Downloaded": res.Value.Downloaded,
				"Failed":     res.Value.Failed,
			}))
		}
		if firstErr != nil {
			return firstErr
		}

		fmt.Println(i18n.T("crawl.summary", map[string]interface{}{"Count": total}))
		return nil
	},
}

// crawlWithProfile runs the whole pipeline for one device profile: its
// own session, the category walk, and a download per discovered entry.
// Individual download failures are counted, not fatal; the rest of the
// listing is still worth having.
func crawlWithProfile(ctx context.Context, profile string, categoryIDs []string, sink store.Sink) (crawlStats, error) {
	var stats crawlStats

	client, err := newPlayClient(profile)
	if err != nil {
		return stats, err
	}
	if err := client.Login(ctx); err != nil {
		return stats, err
	}

	categories, err := client.Categories(ctx)
	if err != nil {
		return stats, err
	}

	log := utils.GetGlobalLogger().WithField("device", profile)
	for _, category := range categories {
		if len(categoryIDs) > 0 && !containsID(categoryIDs, category.ID) {
			continue
		}
		subs, err := client.Subcategories(ctx, category, appConfig.Crawling.FreeOnly)
		if err != nil {
			return stats, err
		}
		for i := range subs {
			list, err := walkListing(ctx, client, &subs[i], crawlLimit)
			if err != nil {
				return stats, err
			}
			for _, entry := range list.Entries {
				if err := client.Download(ctx, entry, sink); err != nil {
					log.Warn("download of %s failed: %v", entry.PackageID, err)
					stats.Failed++
					continue
				}
				stats.Downloaded++
			}
		}
	}
	return stats, nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().StringSliceVar(&crawlProfiles, "profiles", nil, "Device profiles used for the crawl (repeatable)")
	crawlCmd.Flags().IntVar(&crawlLimit, "limit", 0, "Maximum number of packages per subcategory (0 means no limit)")
	crawlCmd.Flags().StringVarP(&crawlOutput, "output", "o", "", "Directory downloads are saved to")
	crawlCmd.Flags().IntVar(&crawlWorkers, "workers", 0, "Maximum concurrent profiles (0 means one per CPU)")
}
