package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apkcrawl/apkcrawl-cli/internal/i18n"
)

var (
	downloadDevice string
	downloadOutput string
)

var downloadCmd = &cobra.Command{
	Use:   "download <package-id>",
	Short: "Download a single package by ID",
	Long: `Look up a package, acquire it, and save the package file plus any
split packages and auxiliary files under the download directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newPlayClient(downloadDevice)
		if err != nil {
			return err
		}
		sink, err := newSink(downloadOutput)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := client.Login(ctx); err != nil {
			return err
		}

		entry, err := client.Details(ctx, args[0])
		if err != nil {
			return err
		}
		if err := client.Download(ctx, *entry, sink); err != nil {
			return err
		}

		fmt.Println(i18n.T("download.done", map[string]interface{}{
			"Package":     entry.PackageID,
			"VersionCode": entry.VersionCode,
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVar(&downloadDevice, "device", "", "Device profile to impersonate")
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Directory downloads are saved to")
}
