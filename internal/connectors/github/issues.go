package github

import (
	"context"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// FetchIssueDetail fetches the expanded issue data for the sidebar: full
// body and comments.
func (c *Client) FetchIssueDetail(ctx context.Context, owner, repo string, number int) (*domain.IssueDetail, *domain.RateLimitInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, nil, err
	}

	issue, resp, err := c.gh.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, nil, c.wrapError(err, "get issue")
	}
	c.finish(resp)

	comments, rl, err := c.listComments(ctx, owner, repo, number)
	if err != nil {
		return nil, nil, err
	}

	return &domain.IssueDetail{
		Body:     issue.GetBody(),
		Comments: comments,
	}, rl, nil
}

// CloseIssue closes an issue.
func (c *Client) CloseIssue(ctx context.Context, owner, repo string, number int) error {
	return c.editIssueState(ctx, owner, repo, number, "closed")
}

// ReopenIssue reopens a closed issue.
func (c *Client) ReopenIssue(ctx context.Context, owner, repo string, number int) error {
	return c.editIssueState(ctx, owner, repo, number, "open")
}

func (c *Client) editIssueState(ctx context.Context, owner, repo string, number int, state string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, resp, err := c.gh.Issues.Edit(ctx, owner, repo, number, &gh.IssueRequest{
		State: gh.Ptr(state),
	})
	c.finish(resp)
	return c.wrapError(err, "edit issue state")
}

// AddIssueComment adds a comment to an issue or PR.
func (c *Client) AddIssueComment(ctx context.Context, owner, repo string, number int, body string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, resp, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	c.finish(resp)
	return c.wrapError(err, "create comment")
}

// AddLabels adds labels to an issue or PR.
func (c *Client) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, resp, err := c.gh.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels)
	c.finish(resp)
	return c.wrapError(err, "add labels")
}

// Assign adds assignees to an issue or PR.
func (c *Client) Assign(ctx context.Context, owner, repo string, number int, logins []string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, resp, err := c.gh.Issues.AddAssignees(ctx, owner, repo, number, logins)
	c.finish(resp)
	return c.wrapError(err, "add assignees")
}

// Unassign removes one assignee from an issue or PR.
func (c *Client) Unassign(ctx context.Context, owner, repo string, number int, login string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, resp, err := c.gh.Issues.RemoveAssignees(ctx, owner, repo, number, []string{login})
	c.finish(resp)
	return c.wrapError(err, "remove assignees")
}
