package device

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

//go:embed devices.toml
var embeddedProfiles []byte

// Load returns the validated profile for the given key from the
// embedded device table.
func Load(key string) (*Identity, error) {
	return loadFromTable(embeddedProfiles, key)
}

// LoadFile returns the validated profile for the given key from a
// user-supplied device table.
func LoadFile(path, key string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device table: %w", err)
	}
	return loadFromTable(data, key)
}

// Keys lists the codenames of all embedded device profiles.
func Keys() ([]string, error) {
	var table map[string]Identity
	if err := toml.Unmarshal(embeddedProfiles, &table); err != nil {
		return nil, fmt.Errorf("failed to parse device table: %w", err)
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func loadFromTable(data []byte, key string) (*Identity, error) {
	var table map[string]Identity
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse device table: %w", err)
	}
	identity, ok := table[key]
	if !ok {
		return nil, fmt.Errorf("unknown device profile %q, use the devices command to list available profiles", key)
	}
	if err := identity.Validate(); err != nil {
		return nil, fmt.Errorf("device profile %q: %w", key, err)
	}
	return &identity, nil
}
