package github

import (
	"context"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// repoListPageSize caps the label and collaborator picker lists.
const repoListPageSize = 100

// ListRepoLabels returns the label names defined in a repository, for
// the label picker.
func (c *Client) ListRepoLabels(ctx context.Context, owner, repo string) ([]string, *domain.RateLimitInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, nil, err
	}

	opts := &gh.ListOptions{PerPage: repoListPageSize}
	labels, resp, err := c.gh.Issues.ListLabels(ctx, owner, repo, opts)
	if err != nil {
		return nil, nil, c.wrapError(err, "list labels")
	}
	rl := c.finish(resp)

	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names, rl, nil
}

// ListCollaborators returns the logins with access to a repository, for
// the assignee picker.
func (c *Client) ListCollaborators(ctx context.Context, owner, repo string) ([]string, *domain.RateLimitInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, nil, err
	}

	opts := &gh.ListCollaboratorsOptions{
		ListOptions: gh.ListOptions{PerPage: repoListPageSize},
	}
	users, resp, err := c.gh.Repositories.ListCollaborators(ctx, owner, repo, opts)
	if err != nil {
		return nil, nil, c.wrapError(err, "list collaborators")
	}
	rl := c.finish(resp)

	logins := make([]string, 0, len(users))
	for _, u := range users {
		logins = append(logins, u.GetLogin())
	}
	return logins, rl, nil
}
