package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// ListWorkflowRuns fetches CI runs for one repository, newest first.
func (c *Client) ListWorkflowRuns(ctx context.Context, filter domain.ActionsFilter) ([]domain.WorkflowRun, *domain.RateLimitInfo, error) {
	owner, name, err := splitRepo(filter.Repo)
	if err != nil {
		return nil, nil, err
	}
	limit := domain.EffectiveLimit(filter.Limit, domain.DefaultActionsLimit)

	opts := &gh.ListWorkflowRunsOptions{
		Status: filter.Status,
		ListOptions: gh.ListOptions{
			PerPage: limit,
		},
	}

	if err := c.wait(ctx); err != nil {
		return nil, nil, err
	}

	runs, resp, err := c.gh.Actions.ListRepositoryWorkflowRuns(ctx, owner, name, opts)
	if err != nil {
		return nil, nil, c.wrapError(err, "list workflow runs")
	}
	rl := c.finish(resp)

	workflowRuns := runs.WorkflowRuns
	if len(workflowRuns) > limit {
		workflowRuns = workflowRuns[:limit]
	}
	out := make([]domain.WorkflowRun, 0, len(workflowRuns))
	for _, run := range workflowRuns {
		out = append(out, mapWorkflowRun(run, owner, name))
	}
	return out, rl, nil
}

func mapWorkflowRun(run *gh.WorkflowRun, owner, name string) domain.WorkflowRun {
	return domain.WorkflowRun{
		ID:           run.GetID(),
		RunNumber:    run.GetRunNumber(),
		WorkflowName: run.GetName(),
		Title:        run.GetDisplayTitle(),
		HeadBranch:   run.GetHeadBranch(),
		Event:        run.GetEvent(),
		Status:       domain.RunStatus(run.GetStatus()),
		Conclusion:   domain.RunConclusion(run.GetConclusion()),
		Repo:         &domain.RepoRef{Owner: owner, Name: name},
		URL:          run.GetHTMLURL(),
		CreatedAt:    run.GetCreatedAt().Time,
		UpdatedAt:    run.GetUpdatedAt().Time,
	}
}

// RerunWorkflowRun queues a re-run of a workflow run. The API answers
// 201 or 202 because the re-run is queued async; both are success.
func (c *Client) RerunWorkflowRun(ctx context.Context, owner, repo string, runID int64, failedOnly bool) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	var resp *gh.Response
	var err error
	if failedOnly {
		resp, err = c.gh.Actions.RerunFailedJobsByID(ctx, owner, repo, runID)
	} else {
		resp, err = c.gh.Actions.RerunWorkflowByID(ctx, owner, repo, runID)
	}
	c.finish(resp)
	var accepted *gh.AcceptedError
	if errors.As(err, &accepted) {
		return nil
	}
	return c.wrapError(err, "rerun workflow run")
}

// CancelWorkflowRun cancels an in-progress workflow run. Cancellation is
// async, so an accepted response counts as success.
func (c *Client) CancelWorkflowRun(ctx context.Context, owner, repo string, runID int64) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	resp, err := c.gh.Actions.CancelWorkflowRunByID(ctx, owner, repo, runID)
	c.finish(resp)
	var accepted *gh.AcceptedError
	if errors.As(err, &accepted) {
		return nil
	}
	return c.wrapError(err, "cancel workflow run")
}

// splitRepo parses an "owner/name" repository string.
func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("%w: repo %q is not owner/name", domain.ErrInvalidInput, repo)
	}
	return owner, name, nil
}
