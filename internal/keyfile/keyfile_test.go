package keyfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
	}{
		{
			name:    "json key file",
			file:    "key.json",
			content: `{"customerId": "cust-1", "key": "K", "secret": "S", "domain": "acme", "domainSuffix": ".uptycs.io"}`,
		},
		{
			name: "yaml key file",
			file: "key.yaml",
			content: `customerId: cust-1
key: K
secret: S
domain: acme
domainSuffix: .uptycs.io
`,
		},
		{
			name:    "unknown extension read as json",
			file:    "apikey",
			content: `{"customerId": "cust-1", "key": "K", "secret": "S", "domain": "acme", "domainSuffix": ".uptycs.io"}`,
		},
		{
			name:    "missing secret",
			file:    "key.json",
			content: `{"customerId": "cust-1", "key": "K", "domain": "acme"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			file:    "key.json",
			content: `{"customerId":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := Load(writeFile(t, tt.file, tt.content))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if key.CustomerID != "cust-1" || key.Key != "K" || key.Secret != "S" {
				t.Errorf("Load() = %+v", key)
			}
			if got, want := key.BaseURL(), "https://acme.uptycs.io/public/api/customers/cust-1"; got != want {
				t.Errorf("BaseURL() = %q, want %q", got, want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing key file")
	}
}
