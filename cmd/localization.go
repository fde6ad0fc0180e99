package cmd

import "github.com/apkcrawl/apkcrawl-cli/internal/i18n"

// applyCommandLocalization updates command and flag descriptions after i18n is initialized.
func applyCommandLocalization() {
	// Root command metadata and flags.
	rootCmd.Short = i18n.T("cmd.root.short")
	rootCmd.Long = i18n.T("cmd.root.long")

	if flag := rootCmd.PersistentFlags().Lookup("config"); flag != nil {
		flag.Usage = i18n.T("flags.config")
	}
	if flag := rootCmd.PersistentFlags().Lookup("lang"); flag != nil {
		flag.Usage = i18n.T("flags.lang")
	}
	if flag := rootCmd.PersistentFlags().Lookup("verbose"); flag != nil {
		flag.Usage = i18n.T("flags.verbose")
	}

	// Command descriptions.
	loginCmd.Short = i18n.T("cmd.login.short")
	loginCmd.Long = i18n.T("cmd.login.long")

	devicesCmd.Short = i18n.T("cmd.devices.short")
	devicesCmd.Long = i18n.T("cmd.devices.long")

	categoriesCmd.Short = i18n.T("cmd.categories.short")
	categoriesCmd.Long = i18n.T("cmd.categories.long")

	discoverCmd.Short = i18n.T("cmd.discover.short")
	discoverCmd.Long = i18n.T("cmd.discover.long")

	downloadCmd.Short = i18n.T("cmd.download.short")
	downloadCmd.Long = i18n.T("cmd.download.long")

	crawlCmd.Short = i18n.T("cmd.crawl.short")
	crawlCmd.Long = i18n.T("cmd.crawl.long")

	versionCmd.Short = i18n.T("cmd.version.short")
	versionCmd.Long = i18n.T("cmd.version.long")

	// Per-command flag descriptions.
	for _, c := range rootCmd.Commands() {
		if flag := c.Flags().Lookup("device"); flag != nil {
			flag.Usage = i18n.T("flags.device")
		}
		if flag := c.Flags().Lookup("output"); flag != nil {
			flag.Usage = i18n.T("flags.output")
		}
		if flag := c.Flags().Lookup("limit"); flag != nil {
			flag.Usage = i18n.T("flags.limit")
		}
		if flag := c.Flags().Lookup("profiles"); flag != nil {
			flag.Usage = i18n.T("flags.profiles")
		}
	}
}
