package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apkcrawl/apkcrawl-cli/internal/i18n"
	"github.com/apkcrawl/apkcrawl-cli/pkg/device"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the available device profiles",
	Long:  `List every device profile the crawler can impersonate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := device.Keys()
		if err != nil {
			return err
		}

		fmt.Println(i18n.T("devices.header"))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PROFILE\tNAME\tMODEL\tSDK\tABIS")
		for _, key := range keys {
			identity, err := device.Load(key)
			if err != nil {
				return err
			}
			abis := ""
			for i, p := range identity.Platforms {
				if i > 0 {
					abis += ","
				}
				abis += p
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				key,
				identity.UserReadableName,
				identity.Build.Model,
				identity.Build.Version.SDKInt,
				abis)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
