package github

import (
	"context"
	"errors"
	"net/http"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// commentPageSize caps how many comments the detail view loads.
const commentPageSize = 100

// FetchPrDetail fetches the expanded PR data for the sidebar: full body,
// comments, and mergeability.
func (c *Client) FetchPrDetail(ctx context.Context, owner, repo string, number int) (*domain.PrDetail, *domain.RateLimitInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, nil, err
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, nil, c.wrapError(err, "get pull request")
	}
	c.finish(resp)

	comments, rl, err := c.listComments(ctx, owner, repo, number)
	if err != nil {
		return nil, nil, err
	}

	return &domain.PrDetail{
		Body:      pr.GetBody(),
		Comments:  comments,
		Mergeable: pr.GetMergeableState(),
	}, rl, nil
}

// CompareBranches returns how many commits head is behind base. The head
// side uses the "owner:ref" form so fork PRs compare correctly.
func (c *Client) CompareBranches(ctx context.Context, owner, repo, baseRef, headOwner, headRef string) (*int, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	head := headOwner + ":" + headRef
	cmp, resp, err := c.gh.Repositories.CompareCommits(ctx, owner, repo, baseRef, head, &gh.ListOptions{PerPage: 1})
	if err != nil {
		return nil, c.wrapError(err, "compare commits")
	}
	c.finish(resp)

	if cmp.BehindBy == nil {
		return nil, nil
	}
	behind := cmp.GetBehindBy()
	return &behind, nil
}

func (c *Client) listComments(ctx context.Context, owner, repo string, number int) ([]domain.Comment, *domain.RateLimitInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, nil, err
	}

	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: commentPageSize},
	}
	raw, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
	if err != nil {
		return nil, nil, c.wrapError(err, "list comments")
	}
	rl := c.finish(resp)

	comments := make([]domain.Comment, 0, len(raw))
	for _, cm := range raw {
		comments = append(comments, domain.Comment{
			Author:    domain.Actor{Login: cm.GetUser().GetLogin()},
			Body:      cm.GetBody(),
			CreatedAt: cm.GetCreatedAt().Time,
		})
	}
	return comments, rl, nil
}

// ApprovePr submits an approving review with an optional comment body.
func (c *Client) ApprovePr(ctx context.Context, owner, repo string, number int, body string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	review := &gh.PullRequestReviewRequest{
		Event: gh.Ptr("APPROVE"),
	}
	if body != "" {
		review.Body = gh.Ptr(body)
	}
	_, resp, err := c.gh.PullRequests.CreateReview(ctx, owner, repo, number, review)
	c.finish(resp)
	return c.wrapError(err, "approve pull request")
}

// MergePr merges a pull request with the repository's default method.
func (c *Client) MergePr(ctx context.Context, owner, repo string, number int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, resp, err := c.gh.PullRequests.Merge(ctx, owner, repo, number, "", nil)
	c.finish(resp)
	return c.wrapError(err, "merge pull request")
}

// ClosePr closes a pull request without merging.
func (c *Client) ClosePr(ctx context.Context, owner, repo string, number int) error {
	return c.editPrState(ctx, owner, repo, number, "closed")
}

// ReopenPr reopens a closed pull request.
func (c *Client) ReopenPr(ctx context.Context, owner, repo string, number int) error {
	return c.editPrState(ctx, owner, repo, number, "open")
}

func (c *Client) editPrState(ctx context.Context, owner, repo string, number int, state string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, resp, err := c.gh.PullRequests.Edit(ctx, owner, repo, number, &gh.PullRequest{
		State: gh.Ptr(state),
	})
	c.finish(resp)
	return c.wrapError(err, "edit pull request state")
}

// AddPrComment adds a comment to a pull request. PR comments go through
// the issues endpoint.
func (c *Client) AddPrComment(ctx context.Context, owner, repo string, number int, body string) error {
	return c.AddIssueComment(ctx, owner, repo, number, body)
}

// UpdateBranch updates the PR branch with the latest base. The API
// answers 202 Accepted because the update runs async; that is success.
func (c *Client) UpdateBranch(ctx context.Context, owner, repo string, number int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, resp, err := c.gh.PullRequests.UpdateBranch(ctx, owner, repo, number, nil)
	c.finish(resp)
	var accepted *gh.AcceptedError
	if errors.As(err, &accepted) {
		return nil
	}
	return c.wrapError(err, "update branch")
}

// ReadyForReview marks a draft PR as ready for review. There is no REST
// endpoint for this, so it goes through the GraphQL mutation using the
// PR's node ID.
func (c *Client) ReadyForReview(ctx context.Context, owner, repo string, number int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return c.wrapError(err, "get pull request")
	}
	c.finish(resp)

	payload := map[string]any{
		"query": `mutation($id: ID!) { markPullRequestReadyForReview(input: {pullRequestId: $id}) { pullRequest { isDraft } } }`,
		"variables": map[string]any{
			"id": pr.GetNodeID(),
		},
	}
	req, err := c.gh.NewRequest(http.MethodPost, "graphql", payload)
	if err != nil {
		return c.wrapError(err, "build graphql request")
	}
	resp, err = c.gh.Do(ctx, req, nil)
	c.finish(resp)
	return c.wrapError(err, "mark ready for review")
}
