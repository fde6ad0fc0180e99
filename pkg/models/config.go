package models

// Config represents the crawler configuration
type Config struct {
	Account  AccountConfig  `mapstructure:"account"`
	Crawling CrawlingConfig `mapstructure:"crawling"`
	Network  NetworkConfig  `mapstructure:"network"`
}

// AccountConfig locates the credential file and the device profile
// used to construct every outbound request.
type AccountConfig struct {
	CredentialFile string `mapstructure:"credential_file"`
	Device         string `mapstructure:"device"`
}

// CrawlingConfig contains catalog-crawl settings
type CrawlingConfig struct {
	BaseDir  string `mapstructure:"base_dir"`
	Locale   string `mapstructure:"locale"`
	FreeOnly bool   `mapstructure:"free_only"`
}

// NetworkConfig contains per-call timeout settings. Timeouts apply per
// individual network call; each retry gets a fresh budget.
type NetworkConfig struct {
	ConnectTimeout int `mapstructure:"connect_timeout"` // seconds
	ReadTimeout    int `mapstructure:"read_timeout"`    // seconds
}
