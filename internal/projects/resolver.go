// Package projects resolves a GCP folder, identified by organization id and
// folder display name, to the ids of the projects directly under it.
package projects

import (
	"context"
	"fmt"
	"sort"
)

// Resolver turns an organization folder into a set of project ids
type Resolver interface {
	Resolve(ctx context.Context, orgID, folder string) (Set, error)
}

// Set is a set of GCP project ids
type Set map[string]struct{}

// NewSet builds a set from ids
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id; empty ids are ignored
func (s Set) Add(id string) {
	if id != "" {
		s[id] = struct{}{}
	}
}

// Has reports whether id is in the set
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of project ids
func (s Set) Len() int { return len(s) }

// Sorted returns the ids in lexical order
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// QueryError wraps a failure to resolve the folder's projects
type QueryError struct {
	OrgID  string
	Folder string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("failed to resolve projects in org %s folder %q: %v", e.OrgID, e.Folder, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
