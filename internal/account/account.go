// Package account models Uptycs cloud account records and the transforms
// needed to turn a record read from GET /cloudAccounts into a valid
// PUT /cloudAccounts/{id} payload.
//
// Records are kept as raw JSON objects so that fields this package does not
// know about survive the round trip byte for byte.
package account

import (
	"encoding/json"
	"fmt"
)

// ConnectorGCP is the connectorType of GCP cloud accounts
const ConnectorGCP = "gcp"

const (
	fieldID            = "id"
	fieldConnectorType = "connectorType"
	fieldTenantID      = "tenantId"
	fieldTenantName    = "tenantName"
	fieldCloudServices = "cloudServices"
	fieldStatus        = "status"
)

// CloudAccount is a single cloud account record as returned by the API
type CloudAccount map[string]json.RawMessage

// ServiceEntry is one element of a cloud account's cloudServices list
type ServiceEntry map[string]json.RawMessage

// ID returns the account identifier
func (a CloudAccount) ID() string {
	return a.stringField(fieldID)
}

// ConnectorType returns the provider of the account (gcp, aws, azure, ...)
func (a CloudAccount) ConnectorType() string {
	return a.stringField(fieldConnectorType)
}

// TenantID returns the external project identifier
func (a CloudAccount) TenantID() string {
	return a.stringField(fieldTenantID)
}

// TenantName returns the display name of the tenant
func (a CloudAccount) TenantName() string {
	return a.stringField(fieldTenantName)
}

// CloudServices decodes the cloudServices list. A record without the field
// yields a nil slice.
func (a CloudAccount) CloudServices() ([]ServiceEntry, error) {
	raw, ok := a[fieldCloudServices]
	if !ok || isNull(raw) {
		return nil, nil
	}

	var services []ServiceEntry
	if err := json.Unmarshal(raw, &services); err != nil {
		return nil, fmt.Errorf("failed to decode %s of account %q: %w", fieldCloudServices, a.ID(), err)
	}
	return services, nil
}

// Clone returns a shallow copy of the record. Values are immutable byte
// slices as far as this package is concerned, so a shallow copy is enough
// to keep edits from leaking into the source.
func (a CloudAccount) Clone() CloudAccount {
	out := make(CloudAccount, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func (a CloudAccount) stringField(key string) string {
	raw, ok := a[key]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
