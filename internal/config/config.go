package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/spf13/viper"
)

var defaultConfig = models.Config{
	Account: models.AccountConfig{
		CredentialFile: "credentials.toml",
		Device:         "bacon",
	},
	Crawling: models.CrawlingConfig{
		BaseDir:  "apk_downloads",
		Locale:   "en_US",
		FreeOnly: true,
	},
	Network: models.NetworkConfig{
		ConnectTimeout: 5,
		ReadTimeout:    10,
	},
}

// Load loads configuration from file and environment
func Load(configPath string) (*models.Config, error) {
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("account.credential_file", defaultConfig.Account.CredentialFile)
	viper.SetDefault("account.device", defaultConfig.Account.Device)
	viper.SetDefault("crawling.base_dir", defaultConfig.Crawling.BaseDir)
	viper.SetDefault("crawling.locale", defaultConfig.Crawling.Locale)
	viper.SetDefault("crawling.free_only", defaultConfig.Crawling.FreeOnly)
	viper.SetDefault("network.connect_timeout", defaultConfig.Network.ConnectTimeout)
	viper.SetDefault("network.read_timeout", defaultConfig.Network.ReadTimeout)

	// Try to load config file
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and the user's config dir
		viper.SetConfigName("apkcrawl")
		viper.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "apkcrawl"))
		}
	}

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error, we'll use defaults
	}

	// Bind environment variables
	viper.SetEnvPrefix("APKCRAWL")
	viper.AutomaticEnv()

	// Unmarshal configuration
	var config models.Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// SaveTemplate saves a configuration template
func SaveTemplate(path string) error {
	templateContent := `# ApkCrawl Configuration File

account:
  # Path of the TOML credential file. It must carry the account mail
  # and password; the device identifier and authorization token are
  # written back after the first successful login.
  credential_file: "credentials.toml"

  # Device profile used to construct every outbound request.
  # Use the devices command to list the available profiles.
  device: "bacon"

crawling:
  # Directory all packages and metadata are saved to
  base_dir: "apk_downloads"

  # Locale sent with every catalog request
  locale: "en_US"

  # Only crawl listings that may contain free applications
  free_only: true

network:
  # Connect timeout per network call, in seconds
  connect_timeout: 5

  # Read timeout per network call, in seconds.
  # Retries get a fresh timeout budget.
  read_timeout: 10
`

	return os.WriteFile(path, []byte(templateContent), 0644)
}
