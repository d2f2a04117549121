package github

import (
	"context"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// searchPageSize is the maximum page size the search API allows.
const searchPageSize = 100

// SearchPullRequests runs a PR search query. The "is:pr" qualifier is
// added when the query does not carry one, so filter strings from config
// stay short.
func (c *Client) SearchPullRequests(ctx context.Context, query string, limit int) ([]domain.PullRequest, *domain.RateLimitInfo, error) {
	issues, rl, err := c.searchIssues(ctx, withQualifier(query, "is:pr"), limit)
	if err != nil {
		return nil, nil, err
	}

	prs := make([]domain.PullRequest, 0, len(issues))
	for _, issue := range issues {
		if !issue.IsPullRequest() {
			continue
		}
		prs = append(prs, mapPullRequest(issue))
	}
	return prs, rl, nil
}

// SearchIssues runs an issue search query. PRs that slip through the
// issues endpoint are dropped.
func (c *Client) SearchIssues(ctx context.Context, query string, limit int) ([]domain.Issue, *domain.RateLimitInfo, error) {
	found, rl, err := c.searchIssues(ctx, withQualifier(query, "is:issue"), limit)
	if err != nil {
		return nil, nil, err
	}

	issues := make([]domain.Issue, 0, len(found))
	for _, issue := range found {
		if issue.IsPullRequest() {
			continue
		}
		issues = append(issues, mapIssue(issue))
	}
	return issues, rl, nil
}

// searchIssues pages through the search API until limit results are
// collected or the results run out.
func (c *Client) searchIssues(ctx context.Context, query string, limit int) ([]*gh.Issue, *domain.RateLimitInfo, error) {
	perPage := limit
	if perPage > searchPageSize {
		perPage = searchPageSize
	}
	opts := &gh.SearchOptions{
		Sort:  "updated",
		Order: "desc",
		ListOptions: gh.ListOptions{
			PerPage: perPage,
		},
	}

	var all []*gh.Issue
	var rl *domain.RateLimitInfo

	for {
		if err := c.wait(ctx); err != nil {
			return nil, nil, err
		}

		result, resp, err := c.gh.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, nil, c.wrapError(err, "search")
		}
		rl = c.finish(resp)

		all = append(all, result.Issues...)
		if len(all) >= limit || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if len(all) > limit {
		all = all[:limit]
	}
	return all, rl, nil
}

// withQualifier prepends a type qualifier unless the query already
// names one.
func withQualifier(query, qualifier string) string {
	if strings.Contains(query, qualifier) {
		return query
	}
	return qualifier + " " + query
}

func mapPullRequest(issue *gh.Issue) domain.PullRequest {
	pr := domain.PullRequest{
		Number:       issue.GetNumber(),
		Title:        issue.GetTitle(),
		Body:         issue.GetBody(),
		State:        domain.PrState(issue.GetState()),
		IsDraft:      issue.GetDraft(),
		Labels:       mapLabels(issue.Labels),
		Assignees:    mapActors(issue.Assignees),
		CommentCount: issue.GetComments(),
		CreatedAt:    issue.GetCreatedAt().Time,
		UpdatedAt:    issue.GetUpdatedAt().Time,
		URL:          issue.GetHTMLURL(),
		Repo:         repoFromURL(issue.GetRepositoryURL()),
	}
	if user := issue.GetUser(); user != nil {
		pr.Author = &domain.Actor{Login: user.GetLogin(), Name: user.GetName()}
	}
	// The search endpoint reports merged PRs as closed; the merge
	// timestamp on the PR links disambiguates.
	if links := issue.GetPullRequestLinks(); links != nil && links.MergedAt != nil {
		pr.State = domain.PrStateMerged
	}
	return pr
}

func mapIssue(issue *gh.Issue) domain.Issue {
	out := domain.Issue{
		Number:       issue.GetNumber(),
		Title:        issue.GetTitle(),
		Body:         issue.GetBody(),
		State:        domain.IssueState(issue.GetState()),
		Labels:       mapLabels(issue.Labels),
		Assignees:    mapActors(issue.Assignees),
		CommentCount: issue.GetComments(),
		CreatedAt:    issue.GetCreatedAt().Time,
		UpdatedAt:    issue.GetUpdatedAt().Time,
		URL:          issue.GetHTMLURL(),
		Repo:         repoFromURL(issue.GetRepositoryURL()),
	}
	if user := issue.GetUser(); user != nil {
		out.Author = &domain.Actor{Login: user.GetLogin(), Name: user.GetName()}
	}
	return out
}

func mapLabels(labels []*gh.Label) []domain.Label {
	if len(labels) == 0 {
		return nil
	}
	out := make([]domain.Label, len(labels))
	for i, l := range labels {
		out[i] = domain.Label{Name: l.GetName(), Color: l.GetColor()}
	}
	return out
}

func mapActors(users []*gh.User) []domain.Actor {
	if len(users) == 0 {
		return nil
	}
	out := make([]domain.Actor, len(users))
	for i, u := range users {
		out[i] = domain.Actor{Login: u.GetLogin(), Name: u.GetName()}
	}
	return out
}

// repoFromURL derives the owner/name pair from an API repository URL,
// e.g. "https://api.github.com/repos/acme/widget".
func repoFromURL(url string) *domain.RepoRef {
	if url == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
	if len(parts) < 2 {
		return nil
	}
	return &domain.RepoRef{
		Owner: parts[len(parts)-2],
		Name:  parts[len(parts)-1],
	}
}
