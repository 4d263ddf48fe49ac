package content

// Wallet directory content. Every tag a wallet declares must resolve
// through the closed category/icon tables; unknown keys are rejected at
// load time instead of rendering a missing icon.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Category is the closed set of wallet attribute groups.
type Category int

const (
	CategoryDevices Category = iota
	CategoryPools
	CategoryFeatures
)

var categoryNames = map[Category]string{
	CategoryDevices:  "devices",
	CategoryPools:    "pools",
	CategoryFeatures: "features",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCategory resolves a category name, rejecting unknown keys.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// icons maps each category's tags to their icon asset names.
var icons = map[Category]map[string]string{
	CategoryDevices: {
		"ios":     "icon-ios.svg",
		"android": "icon-android.svg",
		"desktop": "icon-desktop.svg",
		"web":     "icon-web.svg",
	},
	CategoryPools: {
		"sprout":      "icon-sprout.svg",
		"sapling":     "icon-sapling.svg",
		"orchard":     "icon-orchard.svg",
		"transparent": "icon-transparent.svg",
	},
	CategoryFeatures: {
		"shielded_memo":     "icon-memo.svg",
		"unified_address":   "icon-ua.svg",
		"spend_before_sync": "icon-sbs.svg",
		"open_source":       "icon-oss.svg",
	},
}

// IconFor resolves a tag within a category. Unknown tags are an error,
// never a silent miss.
func IconFor(category Category, tag string) (string, error) {
	table, ok := icons[category]
	if !ok {
		return "", fmt.Errorf("unknown category %d", category)
	}
	icon, ok := table[tag]
	if !ok {
		return "", fmt.Errorf("unknown %s tag %q", category, tag)
	}
	return icon, nil
}

// Wallet is one entry of the wallet directory.
type Wallet struct {
	Name     string   `yaml:"name" json:"name"`
	Website  string   `yaml:"website" json:"website"`
	Devices  []string `yaml:"devices" json:"devices"`
	Pools    []string `yaml:"pools" json:"pools"`
	Features []string `yaml:"features" json:"features"`
}

// Directory is the validated wallet list.
type Directory struct {
	Wallets []Wallet `yaml:"wallets" json:"wallets"`
}

// LoadDirectory reads and validates the wallet directory YAML file.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet directory: %w", err)
	}

	var dir Directory
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("failed to parse wallet directory: %w", err)
	}

	for _, w := range dir.Wallets {
		if w.Name == "" {
			return nil, fmt.Errorf("wallet entry without a name")
		}
		if err := validateTags(CategoryDevices, w.Devices); err != nil {
			return nil, fmt.Errorf("wallet %q: %w", w.Name, err)
		}
		if err := validateTags(CategoryPools, w.Pools); err != nil {
			return nil, fmt.Errorf("wallet %q: %w", w.Name, err)
		}
		if err := validateTags(CategoryFeatures, w.Features); err != nil {
			return nil, fmt.Errorf("wallet %q: %w", w.Name, err)
		}
	}
	return &dir, nil
}

func validateTags(category Category, tags []string) error {
	for _, tag := range tags {
		if _, err := IconFor(category, tag); err != nil {
			return err
		}
	}
	return nil
}
