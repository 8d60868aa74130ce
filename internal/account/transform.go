package account

import (
	"encoding/json"
	"fmt"
)

// ManagedFields are server-managed keys that GET returns but PUT rejects.
// If the API starts returning new read-only keys, extend this list or pass
// them as extra fields to StripManagedFields.
var ManagedFields = []string{
	"createdAt",
	"id",
	"updatedAt",
	"customerId",
	"deployerNode",
	"organizationUnitId",
	"organizationId",
	"tenantGroupId",
	"deploymentStatus",
	"publishReadOnlyEvents",
	"ingestDataEvents",
	"integrationType",
	"batchId",
	"sideQueryIntegrations",
	"sideQueryIntegrationsSummary",
	"links",
}

// Action is the requested ingestion change
type Action string

const (
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
)

// Service status values
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ActionError reports an action outside enable|disable
type ActionError struct {
	Action string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("invalid action %q: must be \"enable\" or \"disable\"", e.Action)
}

// ParseAction validates s as an Action
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionEnable, ActionDisable:
		return Action(s), nil
	default:
		return "", &ActionError{Action: s}
	}
}

// Status maps the action to the service status it sets
func (a Action) Status() (string, error) {
	switch a {
	case ActionEnable:
		return StatusActive, nil
	case ActionDisable:
		return StatusInactive, nil
	default:
		return "", &ActionError{Action: string(a)}
	}
}

// StripManagedFields returns a new record holding every key of a except the
// managed fields and any extra keys given. Absent keys are ignored.
func StripManagedFields(a CloudAccount, extra ...string) CloudAccount {
	exclude := make(map[string]struct{}, len(ManagedFields)+len(extra))
	for _, k := range ManagedFields {
		exclude[k] = struct{}{}
	}
	for _, k := range extra {
		exclude[k] = struct{}{}
	}

	out := make(CloudAccount, len(a))
	for k, v := range a {
		if _, skip := exclude[k]; skip {
			continue
		}
		out[k] = v
	}
	return out
}

// ApplyServiceStatus returns a copy of a with the status of every
// cloudServices entry set according to act. Entry order, entry count and
// all non-status fields are preserved. The input is not modified.
func ApplyServiceStatus(a CloudAccount, act Action) (CloudAccount, error) {
	status, err := act.Status()
	if err != nil {
		return nil, err
	}

	out := a.Clone()
	services, err := a.CloudServices()
	if err != nil {
		return nil, err
	}
	if services == nil {
		return out, nil
	}

	statusJSON, err := json.Marshal(status)
	if err != nil {
		return nil, err
	}

	updated := make([]ServiceEntry, len(services))
	for i, svc := range services {
		entry := make(ServiceEntry, len(svc)+1)
		for k, v := range svc {
			entry[k] = v
		}
		entry[fieldStatus] = statusJSON
		updated[i] = entry
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", fieldCloudServices, err)
	}
	out[fieldCloudServices] = raw
	return out, nil
}

// PrepareUpdate strips managed fields and applies the action, producing the
// body for PUT /cloudAccounts/{id}.
func PrepareUpdate(a CloudAccount, act Action, extra ...string) (CloudAccount, error) {
	return ApplyServiceStatus(StripManagedFields(a, extra...), act)
}
