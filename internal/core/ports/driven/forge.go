package driven

import (
	"context"

	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// Forge resolves per-host clients. A dashboard can mix github.com filters
// with enterprise-host filters; each host gets its own authenticated
// client.
type Forge interface {
	// ForHost returns the client for the given host, building it on
	// first use. Returns an error when no credentials exist for host.
	ForHost(host string) (ForgeClient, error)
}

// ForgeClient is the capability surface over one forge host. Reads return
// the fetched data plus a quota snapshot when the forge reported one;
// mutations return a descriptive error on failure.
//
// All calls block until the API answers; the engine serialises them on
// its single worker goroutine.
type ForgeClient interface {
	// --- Reads ---

	// SearchPullRequests runs a PR search query.
	SearchPullRequests(ctx context.Context, query string, limit int) ([]domain.PullRequest, *domain.RateLimitInfo, error)

	// SearchIssues runs an issue search query.
	SearchIssues(ctx context.Context, query string, limit int) ([]domain.Issue, *domain.RateLimitInfo, error)

	// ListNotifications fetches inbox notifications. The query accepts
	// space-separated tokens: "all", "participating", "repo:owner/name".
	ListNotifications(ctx context.Context, query string, limit int) ([]domain.Notification, *domain.RateLimitInfo, error)

	// ListWorkflowRuns fetches CI runs for one repository.
	ListWorkflowRuns(ctx context.Context, filter domain.ActionsFilter) ([]domain.WorkflowRun, *domain.RateLimitInfo, error)

	// FetchPrDetail fetches the expanded PR data for the sidebar.
	FetchPrDetail(ctx context.Context, owner, repo string, number int) (*domain.PrDetail, *domain.RateLimitInfo, error)

	// FetchIssueDetail fetches the expanded issue data for the sidebar.
	FetchIssueDetail(ctx context.Context, owner, repo string, number int) (*domain.IssueDetail, *domain.RateLimitInfo, error)

	// ListRepoLabels returns the label names defined in a repository.
	ListRepoLabels(ctx context.Context, owner, repo string) ([]string, *domain.RateLimitInfo, error)

	// ListCollaborators returns the logins with access to a repository.
	ListCollaborators(ctx context.Context, owner, repo string) ([]string, *domain.RateLimitInfo, error)

	// CompareBranches returns how many commits head is behind base, or
	// nil when the forge could not compute it.
	CompareBranches(ctx context.Context, owner, repo, baseRef, headOwner, headRef string) (*int, error)

	// RateLimit polls the current quota.
	RateLimit(ctx context.Context) (*domain.RateLimitInfo, error)

	// CurrentUser returns the authenticated user's login. Used to
	// resolve "@me" in assign operations.
	CurrentUser(ctx context.Context) (string, error)

	// --- PR mutations ---

	ApprovePr(ctx context.Context, owner, repo string, number int, body string) error
	MergePr(ctx context.Context, owner, repo string, number int) error
	ClosePr(ctx context.Context, owner, repo string, number int) error
	ReopenPr(ctx context.Context, owner, repo string, number int) error
	AddPrComment(ctx context.Context, owner, repo string, number int, body string) error
	UpdateBranch(ctx context.Context, owner, repo string, number int) error
	ReadyForReview(ctx context.Context, owner, repo string, number int) error

	// --- Issue mutations (assign/label calls also accept PR numbers:
	// the forge treats PRs as issues for those endpoints) ---

	CloseIssue(ctx context.Context, owner, repo string, number int) error
	ReopenIssue(ctx context.Context, owner, repo string, number int) error
	AddIssueComment(ctx context.Context, owner, repo string, number int, body string) error
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error
	Assign(ctx context.Context, owner, repo string, number int, logins []string) error
	Unassign(ctx context.Context, owner, repo string, number int, login string) error

	// --- Workflow run mutations ---

	// RerunWorkflowRun queues a re-run of a workflow run, optionally
	// limited to the failed jobs.
	RerunWorkflowRun(ctx context.Context, owner, repo string, runID int64, failedOnly bool) error

	// CancelWorkflowRun cancels an in-progress workflow run.
	CancelWorkflowRun(ctx context.Context, owner, repo string, runID int64) error

	// --- Notification mutations ---

	MarkNotificationRead(ctx context.Context, id string) error
	MarkNotificationDone(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	UnsubscribeNotification(ctx context.Context, id string) error
}
