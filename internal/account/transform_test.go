package account

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAccount = `{
	"id": "8961da24-c31a-4d42-9dce-b00dba9015f4",
	"createdAt": "2024-07-12T08:26:41.721Z",
	"updatedAt": "2024-07-12T08:26:41.721Z",
	"customerId": "c-1",
	"deployerNode": "node-1",
	"organizationUnitId": "ou-1",
	"organizationId": "org-1",
	"tenantGroupId": null,
	"deploymentStatus": "SUCCESS",
	"publishReadOnlyEvents": false,
	"ingestDataEvents": true,
	"integrationType": "DIRECT",
	"batchId": 7,
	"sideQueryIntegrations": [],
	"sideQueryIntegrationsSummary": {"count": 0},
	"links": [{"rel": "self", "href": "/cloudAccounts/8961da24"}],
	"connectorType": "gcp",
	"tenantId": "proj1",
	"tenantName": "Project One",
	"accessConfig": {"serviceAccount": "sa@proj1.iam.gserviceaccount.com"},
	"cloudServices": [
		{"name": "storage", "status": "inactive", "config": {"buckets": ["a", "b"]}},
		{"name": "compute", "status": "active", "interval": 300},
		{"name": "pubsub"}
	]
}`

func mustAccount(t *testing.T, s string) CloudAccount {
	t.Helper()
	var a CloudAccount
	require.NoError(t, json.Unmarshal([]byte(s), &a))
	return a
}

// decoded turns a record into plain Go values so comparisons ignore JSON
// formatting differences.
func decoded(t *testing.T, v any) any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestStripManagedFields(t *testing.T) {
	in := mustAccount(t, sampleAccount)

	out := StripManagedFields(in)

	for _, k := range ManagedFields {
		assert.NotContains(t, out, k)
	}
	for k, v := range in {
		if contains(ManagedFields, k) {
			continue
		}
		require.Contains(t, out, k)
		assert.Equal(t, string(v), string(out[k]), "value of %s changed", k)
	}
	assert.Len(t, out, 5)

	// input untouched
	assert.Contains(t, in, "id")
	assert.Equal(t, "8961da24-c31a-4d42-9dce-b00dba9015f4", in.ID())
}

func TestStripManagedFields_MissingKeys(t *testing.T) {
	in := mustAccount(t, `{"tenantId": "p", "cloudServices": []}`)

	out := StripManagedFields(in)

	assert.Equal(t, decoded(t, in), decoded(t, out))
}

func TestStripManagedFields_Extra(t *testing.T) {
	in := mustAccount(t, `{"id": "x", "tenantId": "p", "newServerField": 1}`)

	out := StripManagedFields(in, "newServerField")

	assert.Equal(t, CloudAccount{"tenantId": json.RawMessage(`"p"`)}, out)
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Action
		wantErr bool
	}{
		{name: "enable", in: "enable", want: ActionEnable},
		{name: "disable", in: "disable", want: ActionDisable},
		{name: "wipe", in: "wipe", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "case sensitive", in: "Enable", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			if tt.wantErr {
				var actionErr *ActionError
				require.ErrorAs(t, err, &actionErr)
				assert.Equal(t, tt.in, actionErr.Action)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyServiceStatus(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   string
	}{
		{name: "enable sets active", action: ActionEnable, want: StatusActive},
		{name: "disable sets inactive", action: ActionDisable, want: StatusInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mustAccount(t, sampleAccount)
			before, err := in.CloudServices()
			require.NoError(t, err)

			out, err := ApplyServiceStatus(in, tt.action)
			require.NoError(t, err)

			after, err := out.CloudServices()
			require.NoError(t, err)
			require.Len(t, after, len(before))

			for i := range after {
				assert.Equal(t, tt.want, statusOf(t, after[i]))

				// everything but status is unchanged
				wantRest := ServiceEntry{}
				for k, v := range before[i] {
					if k != fieldStatus {
						wantRest[k] = v
					}
				}
				gotRest := ServiceEntry{}
				for k, v := range after[i] {
					if k != fieldStatus {
						gotRest[k] = v
					}
				}
				if diff := cmp.Diff(decoded(t, wantRest), decoded(t, gotRest)); diff != "" {
					t.Errorf("service %d changed (-want +got):\n%s", i, diff)
				}
			}

			// order preserved
			for i, name := range []string{`"storage"`, `"compute"`, `"pubsub"`} {
				assert.Equal(t, name, string(after[i]["name"]))
			}

			// other top-level fields untouched
			for k, v := range in {
				if k == fieldCloudServices {
					continue
				}
				assert.Equal(t, string(v), string(out[k]))
			}
		})
	}
}

func TestApplyServiceStatus_DoesNotMutateInput(t *testing.T) {
	in := mustAccount(t, sampleAccount)
	original := string(in[fieldCloudServices])

	_, err := ApplyServiceStatus(in, ActionEnable)
	require.NoError(t, err)

	assert.Equal(t, original, string(in[fieldCloudServices]))
}

func TestApplyServiceStatus_Idempotent(t *testing.T) {
	for _, act := range []Action{ActionEnable, ActionDisable} {
		t.Run(string(act), func(t *testing.T) {
			in := mustAccount(t, sampleAccount)

			once, err := ApplyServiceStatus(in, act)
			require.NoError(t, err)
			twice, err := ApplyServiceStatus(once, act)
			require.NoError(t, err)

			if diff := cmp.Diff(decoded(t, once), decoded(t, twice)); diff != "" {
				t.Errorf("second application changed the record (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestApplyServiceStatus_InvalidAction(t *testing.T) {
	in := mustAccount(t, sampleAccount)

	_, err := ApplyServiceStatus(in, Action("wipe"))

	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "wipe", actionErr.Action)
}

func TestApplyServiceStatus_NoServices(t *testing.T) {
	in := mustAccount(t, `{"tenantId": "p"}`)

	out, err := ApplyServiceStatus(in, ActionEnable)
	require.NoError(t, err)

	assert.Equal(t, in, out)
}

func TestApplyServiceStatus_MalformedServices(t *testing.T) {
	in := mustAccount(t, `{"id": "a", "cloudServices": "oops"}`)

	_, err := ApplyServiceStatus(in, ActionEnable)

	assert.Error(t, err)
}

func TestPrepareUpdate(t *testing.T) {
	in := mustAccount(t, `{
		"id": "a1",
		"createdAt": "2024-07-12T08:26:41.721Z",
		"connectorType": "gcp",
		"tenantId": "proj1",
		"cloudServices": [{"status": "inactive"}]
	}`)

	out, err := PrepareUpdate(in, ActionEnable)
	require.NoError(t, err)

	want := map[string]any{
		"connectorType": "gcp",
		"tenantId":      "proj1",
		"cloudServices": []any{map[string]any{"status": "active"}},
	}
	if diff := cmp.Diff(want, decoded(t, out)); diff != "" {
		t.Errorf("PrepareUpdate() mismatch (-want +got):\n%s", diff)
	}
}

func statusOf(t *testing.T, s ServiceEntry) string {
	t.Helper()
	var v string
	require.NoError(t, json.Unmarshal(s[fieldStatus], &v))
	return v
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
