// Package gcpingest toggles Uptycs ingestion for the GCP projects of a folder.
//
// It resolves an organization folder to its projects, finds the Uptycs cloud
// accounts registered for those projects and sets every cloud service of
// each account to active or inactive.
//
// # Installation
//
//	go install github.com/blackwell-systems/gcp-ingest/cmd/gcp-ingest@latest
//
// # Quick Start
//
//	gcp-ingest -k uptycs_key.json -o 123456789012 -f Production -a disable
//	gcp-ingest --keyfile uptycs_key.json --org_id 123456789012 --folder Production --action enable
//	gcp-ingest -k uptycs_key.json -o 123456789012 -f Production -a enable --dry-run --output yaml
//
// # Configuration
//
// Flags can also be set through GCP_INGEST_* environment variables or
// $HOME/.gcp-ingest/config.yaml. Run "gcp-ingest config" to see the result.
//
// # Failure behavior
//
// Accounts are updated one at a time. The first failed update stops the run
// with exit status 1; accounts updated before it are not rolled back.
//
// # License
//
// Apache 2.0 - See LICENSE file for details.
package gcpingest
