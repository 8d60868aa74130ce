package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/blackwell-systems/gcp-ingest/internal/uptycs"
)

// Querier runs a global inventory query
type Querier interface {
	QueryGlobal(ctx context.Context, sql string) ([]uptycs.QueryRow, error)
}

// QueryResolver resolves projects from the Uptycs GCP resource manager
// inventory tables
type QueryResolver struct {
	querier Querier
}

// NewQueryResolver creates a resolver backed by q
func NewQueryResolver(q Querier) *QueryResolver {
	return &QueryResolver{querier: q}
}

// Resolve implements Resolver
func (r *QueryResolver) Resolve(ctx context.Context, orgID, folder string) (Set, error) {
	rows, err := r.querier.QueryGlobal(ctx, FolderProjectsSQL(orgID, folder))
	if err != nil {
		return nil, &QueryError{OrgID: orgID, Folder: folder, Err: err}
	}

	set := make(Set, len(rows))
	for _, row := range rows {
		id, _ := row["project_id"].(string)
		set.Add(id)
	}
	return set, nil
}

// FolderProjectsSQL builds the global query listing the projects whose parent
// is the folder with the given display name in organization orgID
func FolderProjectsSQL(orgID, folder string) string {
	return fmt.Sprintf(`select distinct p.project_id, f.display_name as folder_name
from gcp_resourcemanager_project_current p, gcp_resourcemanager_folder_current f
where p.org_id = f.org_id and f.name = p.parent and p.org_id = '%s' and f.display_name = '%s'`,
		quote(orgID), quote(folder))
}

func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
