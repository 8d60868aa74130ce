// Package keyfile loads Uptycs API key files.
//
// The Uptycs console downloads API keys as JSON. YAML (.yaml, .yml) is
// accepted as well so keys can live next to the rest of the CLI config.
package keyfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Key holds the credentials and tenant location from an API key file
type Key struct {
	CustomerID   string `yaml:"customerId" json:"customerId"`
	Key          string `yaml:"key" json:"key"`
	Secret       string `yaml:"secret" json:"secret"`
	Domain       string `yaml:"domain" json:"domain"`
	DomainSuffix string `yaml:"domainSuffix" json:"domainSuffix"`
}

// Load reads and parses a key file. A leading ~ in path is expanded.
func Load(path string) (*Key, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand key file path %q: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	var key Key

	ext := strings.ToLower(filepath.Ext(expanded))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &key); err != nil {
			return nil, fmt.Errorf("failed to parse key file YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &key); err != nil {
			return nil, fmt.Errorf("failed to parse key file JSON: %w", err)
		}
	}

	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("invalid key file %s: %w", expanded, err)
	}

	return &key, nil
}

// Validate checks that every field needed to call the API is present
func (k *Key) Validate() error {
	var missing []string
	if k.CustomerID == "" {
		missing = append(missing, "customerId")
	}
	if k.Key == "" {
		missing = append(missing, "key")
	}
	if k.Secret == "" {
		missing = append(missing, "secret")
	}
	if k.Domain == "" {
		missing = append(missing, "domain")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// BaseURL returns the customer-scoped API root,
// e.g. https://acme.uptycs.io/public/api/customers/<id>
func (k *Key) BaseURL() string {
	return fmt.Sprintf("https://%s%s/public/api/customers/%s", k.Domain, k.DomainSuffix, k.CustomerID)
}
