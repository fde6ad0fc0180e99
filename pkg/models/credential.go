package models

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Credential holds the account identity plus the device identifier and
// authorization token handed out by the backend. Identifier and token
// are persisted together so subsequent runs can skip the password
// flow, and invalidated together on authentication failure.
type Credential struct {
	Mail      string `toml:"mail"`
	Password  string `toml:"password"`
	AndroidID uint64 `toml:"androidID,omitempty"`
	AuthToken string `toml:"auth_token,omitempty"`
}

type credentialFile struct {
	Account Credential `toml:"account"`
}

// HasToken reports whether a prior device identifier and authorization
// token are available for token reuse.
func (c *Credential) HasToken() bool {
	return c.AndroidID != 0 && c.AuthToken != ""
}

// Invalidate clears the device identifier and token together.
func (c *Credential) Invalidate() {
	c.AndroidID = 0
	c.AuthToken = ""
}

// Validate checks that the fields required for a password login are
// present.
func (c *Credential) Validate() error {
	if c.Mail == "" {
		return fmt.Errorf("credential is missing the mail field")
	}
	if c.Password == "" {
		return fmt.Errorf("credential is missing the password field")
	}
	return nil
}

// LoadCredential reads a credential file in TOML format.
func LoadCredential(path string) (*Credential, error) {
	var file credentialFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}
	return &file.Account, nil
}

// SaveCredential writes the credential back to disk. Called after
// every successful password login and after every invalidated-token
// event.
func SaveCredential(path string, cred *Credential) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open credential file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(credentialFile{Account: *cred}); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}
