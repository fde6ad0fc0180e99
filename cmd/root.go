package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apkcrawl/apkcrawl-cli/internal/config"
	"github.com/apkcrawl/apkcrawl-cli/internal/i18n"
	"github.com/apkcrawl/apkcrawl-cli/internal/version"
	"github.com/apkcrawl/apkcrawl-cli/pkg/device"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/storage"
	"github.com/apkcrawl/apkcrawl-cli/pkg/utils"
	"github.com/apkcrawl/apkcrawl-cli/pkg/vending"
)

var (
	cfgFile     string
	langFlag    string
	verboseFlag bool

	appConfig *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "apkcrawl",
	Short: "ApkCrawl CLI - A crawler for Android app-store catalogs",
	Long: `ApkCrawl CLI walks app-store catalogs the way an Android device would.
It logs in with a device profile, discovers category listings page by
page, and downloads free packages together with their split and
auxiliary files.`,
	Version: version.Short(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := utils.LogLevelInfo
		if verboseFlag {
			level = utils.LogLevelDebug
		}
		utils.InitGlobalLogger(os.Stderr, level)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

func Execute() {
	// Localization must happen before cobra renders any help text, so
	// the language override is scanned from the raw arguments.
	if err := i18n.Init(langFromArgs(os.Args[1:])); err != nil {
		fmt.Fprintf(os.Stderr, "i18n init failed: %v\n", err)
	}
	applyCommandLocalization()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path of the configuration file")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Interface language (en, zh)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

// langFromArgs extracts the --lang value without running the full
// cobra parse.
func langFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--lang" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--lang=") {
			return strings.TrimPrefix(arg, "--lang=")
		}
	}
	return ""
}

// newPlayClient builds a logged-out store client from the loaded
// configuration, honoring a per-command device profile override.
func newPlayClient(deviceOverride string) (*vending.Client, error) {
	profileKey := appConfig.Account.Device
	if deviceOverride != "" {
		profileKey = deviceOverride
	}

	identity, err := device.Load(profileKey)
	if err != nil {
		return nil, err
	}

	cred, err := loadConfiguredCredential()
	if err != nil {
		return nil, err
	}

	log := utils.GetGlobalLogger().WithField("device", profileKey)
	transport := vending.NewTransport(appConfig.Network, log)

	return vending.NewClient(vending.ClientOptions{
		Device:         identity,
		Credential:     cred,
		CredentialPath: appConfig.Account.CredentialFile,
		Locale:         appConfig.Crawling.Locale,
		Transport:      transport,
		Logger:         log,
	})
}

func loadConfiguredCredential() (*models.Credential, error) {
	cred, err := models.LoadCredential(appConfig.Account.CredentialFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	return cred, nil
}

// newSink builds the file sink under the configured base directory,
// honoring a per-command output override.
func newSink(outputOverride string) (*storage.FileSink, error) {
	baseDir := appConfig.Crawling.BaseDir
	if outputOverride != "" {
		baseDir = outputOverride
	}
	return storage.NewFileSink(baseDir, utils.GetGlobalLogger())
}
