// internal/github/repo.go
package github

import (
	"strings"

	custom_errors "docs-browser/internal/errors"
	"docs-browser/internal/model"
)

// DefaultBranch is used when a repository string names no branch.
const DefaultBranch = "main"

// ParseRepoRef parses "owner/name" or "owner/name@branch".
func ParseRepoRef(s string) (model.RepoRef, error) {
	repo := strings.TrimSpace(s)
	branch := DefaultBranch
	if at := strings.LastIndex(repo, "@"); at >= 0 {
		branch = repo[at+1:]
		repo = repo[:at]
		if branch == "" {
			return model.RepoRef{}, &custom_errors.ErrInvalidRepoFormat{Repo: s}
		}
	}

	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return model.RepoRef{}, &custom_errors.ErrInvalidRepoFormat{Repo: s}
	}
	return model.RepoRef{Owner: parts[0], Name: parts[1], Branch: branch}, nil
}

// ParseRepoRefs parses every entry of repos, failing on the first invalid one.
func ParseRepoRefs(repos []string) ([]model.RepoRef, error) {
	refs := make([]model.RepoRef, 0, len(repos))
	for _, r := range repos {
		ref, err := ParseRepoRef(r)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
