// Package config provides configuration management for the gcp-ingest CLI.
//
// Viper stays contained in this package and the rest of the codebase
// receives an explicit Config struct. Sources are resolved in this order:
// flags > env > config file > defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Resolver backends
const (
	ResolverUptycs = "uptycs"
	ResolverCRM    = "crm"
)

// Config is the explicit configuration struct
// This is what the rest of the codebase sees
type Config struct {
	KeyFile string
	OrgID   string
	Folder  string
	Action  string

	Resolver           string
	GCPCredentials     string
	DryRun             bool
	Output             string
	Timeout            time.Duration
	Verbose            bool
	ExtraManagedFields []string
}

// Init initializes viper with defaults and config file paths
func Init() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath("$HOME/.gcp-ingest")
	viper.AddConfigPath(".")

	SetDefaults()

	viper.SetEnvPrefix("GCP_INGEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

// SetDefaults registers the default value of every optional key
func SetDefaults() {
	viper.SetDefault("resolver", ResolverUptycs)
	viper.SetDefault("gcp-credentials", "")
	viper.SetDefault("dry-run", false)
	viper.SetDefault("output", "json")
	viper.SetDefault("timeout", 60*time.Second)
	viper.SetDefault("verbose", false)
	viper.SetDefault("extra-managed-fields", []string{})
}

// Load reads from all sources and returns explicit Config
func Load() (*Config, error) {
	cfg := &Config{
		KeyFile:            viper.GetString("keyfile"),
		OrgID:              viper.GetString("org_id"),
		Folder:             viper.GetString("folder"),
		Action:             viper.GetString("action"),
		Resolver:           viper.GetString("resolver"),
		GCPCredentials:     viper.GetString("gcp-credentials"),
		DryRun:             viper.GetBool("dry-run"),
		Output:             viper.GetString("output"),
		Timeout:            viper.GetDuration("timeout"),
		Verbose:            viper.GetBool("verbose"),
		ExtraManagedFields: splitList(viper.GetStringSlice("extra-managed-fields")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures config is sane
func (c *Config) Validate() error {
	var missing []string
	if c.KeyFile == "" {
		missing = append(missing, "--keyfile")
	}
	if c.OrgID == "" {
		missing = append(missing, "--org_id")
	}
	if c.Folder == "" {
		missing = append(missing, "--folder")
	}
	if c.Action == "" {
		missing = append(missing, "--action")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	if c.Action != "enable" && c.Action != "disable" {
		return fmt.Errorf("invalid action: %s (must be enable or disable)", c.Action)
	}

	if c.Resolver != ResolverUptycs && c.Resolver != ResolverCRM {
		return fmt.Errorf("invalid resolver: %s (must be uptycs or crm)", c.Resolver)
	}

	if c.Output != "json" && c.Output != "yaml" {
		return fmt.Errorf("invalid output: %s (must be json or yaml)", c.Output)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}

	return nil
}

// Display shows the resolved config (for gcp-ingest config)
func Display() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "(not found)"
	}

	return fmt.Sprintf(`Configuration:
  keyfile:              %s
  org_id:               %s
  folder:               %s
  action:               %s

Options:
  resolver:             %s
  gcp-credentials:      %s
  dry-run:              %t
  output:               %s
  timeout:              %s
  extra-managed-fields: %s

Sources:
  Config file:          %s
  Environment:          GCP_INGEST_*
  Flags:                (per command)
`,
		orUnset(viper.GetString("keyfile")),
		orUnset(viper.GetString("org_id")),
		orUnset(viper.GetString("folder")),
		orUnset(viper.GetString("action")),
		viper.GetString("resolver"),
		orUnset(viper.GetString("gcp-credentials")),
		viper.GetBool("dry-run"),
		viper.GetString("output"),
		viper.GetDuration("timeout"),
		strings.Join(splitList(viper.GetStringSlice("extra-managed-fields")), ","),
		configFile,
	)
}

// splitList flattens comma separated entries, as env vars arrive as one string
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
