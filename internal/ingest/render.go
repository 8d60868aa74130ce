package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/gcp-ingest/internal/account"
)

// Format selects how dry-run payloads are printed
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates s as a Format
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q (must be json or yaml)", s)
	}
}

// Render writes payload to w in the given format. An empty format means JSON.
func Render(w io.Writer, payload account.CloudAccount, format Format) error {
	switch format {
	case FormatYAML:
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload JSON: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to decode payload JSON: %w", err)
		}
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal payload YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON, "":
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal payload JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	default:
		return fmt.Errorf("invalid output format %q", format)
	}
}
