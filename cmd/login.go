package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apkcrawl/apkcrawl-cli/internal/i18n"
)

var loginDevice string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session token",
	Long: `Perform the full login handshake with the configured account and
device profile. On success the granted device identifier and
authorization token are written back to the credential file so later
commands can skip the password flow.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newPlayClient(loginDevice)
		if err != nil {
			return err
		}

		storedToken := client.Session().AuthToken

		if err := client.Login(cmd.Context()); err != nil {
			return err
		}

		session := client.Session()
		data := map[string]interface{}{
			"Mail":     credentialMail(),
			"DeviceID": fmt.Sprintf("%x", session.AndroidID),
		}
		if storedToken != "" && session.AuthToken == storedToken {
			fmt.Println(i18n.T("login.reused", data))
		} else {
			fmt.Println(i18n.T("login.success", data))
		}
		return nil
	},
}

func credentialMail() string {
	cred, err := loadConfiguredCredential()
	if err != nil {
		return ""
	}
	return cred.Mail
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginDevice, "device", "", "Device profile to impersonate")
}
