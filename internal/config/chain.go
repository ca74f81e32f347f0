package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trip-assistant-be/pkg/travel"
)

// ChainFile is the YAML document that orders providers per capability:
//
//	chains:
//	  flight: [apify_flight/skyscanner-scraper, apify_flight/flight-finder]
//	  directions: [apify_google_maps/google-maps-directions]
type ChainFile struct {
	Chains map[string][]string `yaml:"chains"`
}

// LoadChainOrder reads path; an empty path yields no overrides
func LoadChainOrder(path string) (map[travel.Capability][]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chain file: %w", err)
	}
	var f ChainFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse chain file %s: %w", path, err)
	}

	order := make(map[travel.Capability][]string, len(f.Chains))
	for name, ids := range f.Chains {
		c := travel.ParseCapability(name)
		if string(c) != name {
			return nil, fmt.Errorf("chain file %s: unknown capability %q", path, name)
		}
		order[c] = ids
	}
	return order, nil
}
