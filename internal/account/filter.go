package account

// ProjectSet is the membership test used by Filter
type ProjectSet interface {
	Has(projectID string) bool
}

// Filter returns the GCP accounts whose tenantId is in projects, in source
// order
func Filter(accounts []CloudAccount, projects ProjectSet) []CloudAccount {
	var matched []CloudAccount
	for _, a := range accounts {
		if a.ConnectorType() == ConnectorGCP && projects.Has(a.TenantID()) {
			matched = append(matched, a)
		}
	}
	return matched
}
