package projects

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"google.golang.org/api/cloudresourcemanager/v3"
	"google.golang.org/api/option"
)

const (
	projectStateActive = "ACTIVE"

	// GCP allows 10 levels of folders; anything deeper is a cycle or bad data
	maxFolderDepth = 10
)

// CRMResolver resolves projects directly from Cloud Resource Manager instead
// of the Uptycs inventory. Useful when the inventory is stale.
type CRMResolver struct {
	service *cloudresourcemanager.Service
	logger  *slog.Logger
}

// NewCRMResolver creates a resolver using opts for credentials/endpoint.
// Without options Application Default Credentials are used.
func NewCRMResolver(ctx context.Context, logger *slog.Logger, opts ...option.ClientOption) (*CRMResolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	svc, err := cloudresourcemanager.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource manager v3 service: %w", err)
	}
	return &CRMResolver{
		service: svc,
		logger:  logger.With(slog.String("component", "crm_resolver")),
	}, nil
}

// Resolve implements Resolver. Folders with the display name anywhere in the
// organization match, not only top-level ones. Only ACTIVE projects directly
// under a matching folder are returned.
func (r *CRMResolver) Resolve(ctx context.Context, orgID, folder string) (Set, error) {
	if _, err := strconv.ParseUint(orgID, 10, 64); err != nil {
		return nil, &QueryError{OrgID: orgID, Folder: folder, Err: fmt.Errorf("organization id must be numeric")}
	}

	folders, err := r.searchFolders(ctx, orgID, folder)
	if err != nil {
		return nil, &QueryError{OrgID: orgID, Folder: folder, Err: err}
	}

	set := make(Set)
	for _, name := range folders {
		err := r.service.Projects.List().Parent(name).Pages(ctx, func(page *cloudresourcemanager.ListProjectsResponse) error {
			for _, p := range page.Projects {
				if p.State != projectStateActive {
					r.logger.Debug("skipping project", "project", p.ProjectId, "state", p.State)
					continue
				}
				set.Add(p.ProjectId)
			}
			return nil
		})
		if err != nil {
			return nil, &QueryError{OrgID: orgID, Folder: folder, Err: fmt.Errorf("failed to list projects in %s: %w", name, err)}
		}
	}
	return set, nil
}

// searchFolders returns the folders named folder whose ancestry reaches
// organizations/orgID
func (r *CRMResolver) searchFolders(ctx context.Context, orgID, folder string) ([]string, error) {
	query := fmt.Sprintf(`displayName="%s"`, strings.ReplaceAll(folder, `"`, `\"`))

	var candidates []*cloudresourcemanager.Folder
	err := r.service.Folders.Search().Query(query).Pages(ctx, func(page *cloudresourcemanager.SearchFoldersResponse) error {
		candidates = append(candidates, page.Folders...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search folders: %w", err)
	}

	org := "organizations/" + orgID
	parents := map[string]string{}
	var names []string
	for _, f := range candidates {
		root, err := r.rootOf(ctx, f.Parent, parents)
		if err != nil {
			return nil, err
		}
		if root != org {
			r.logger.Debug("skipping folder outside organization", "folder", f.Name, "root", root)
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}

// rootOf follows folder parents up to the organization. parents caches
// folder -> parent lookups across calls.
func (r *CRMResolver) rootOf(ctx context.Context, parent string, parents map[string]string) (string, error) {
	for depth := 0; strings.HasPrefix(parent, "folders/"); depth++ {
		if depth >= maxFolderDepth {
			return "", fmt.Errorf("folder hierarchy above %s is deeper than %d levels", parent, maxFolderDepth)
		}
		next, ok := parents[parent]
		if !ok {
			f, err := r.service.Folders.Get(parent).Context(ctx).Do()
			if err != nil {
				return "", fmt.Errorf("failed to get folder %s: %w", parent, err)
			}
			next = f.Parent
			parents[parent] = next
		}
		parent = next
	}
	return parent, nil
}
