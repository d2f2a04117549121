package engine

import (
	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// Request is the caller-to-engine half of the protocol. Variants map 1:1
// to forge capabilities; each carries exactly the inputs needed plus a
// destination for the result.
type Request interface {
	isRequest()
}

// Event is the engine-to-caller half of the protocol, delivered on the
// reply or notify channel the caller supplied. Delivery is best-effort:
// an abandoned or full channel drops the event.
type Event interface {
	isEvent()
}

// ---------------------------------------------------------------------------
// Fetch requests (UI pulls data on demand)
// ---------------------------------------------------------------------------

// FetchPrs fetches one PR filter slot.
type FetchPrs struct {
	FilterIdx int
	Filter    domain.PrFilter
	// Force skips the result cache and always hits the API.
	Force bool
	Reply chan<- Event
}

// FetchIssues fetches one issue filter slot.
type FetchIssues struct {
	FilterIdx int
	Filter    domain.IssueFilter
	Force     bool
	Reply     chan<- Event
}

// FetchNotifications fetches one notification filter slot.
type FetchNotifications struct {
	FilterIdx int
	Filter    domain.NotificationFilter
	Reply     chan<- Event
}

// FetchActions fetches one workflow run filter slot.
type FetchActions struct {
	FilterIdx int
	Filter    domain.ActionsFilter
	Reply     chan<- Event
}

// FetchPrDetail fetches expanded PR data including the compare call.
type FetchPrDetail struct {
	Owner         string
	Repo          string
	Number        int
	BaseRef       string
	HeadRepoOwner string
	HeadRef       string
	Reply         chan<- Event
}

// FetchIssueDetail fetches expanded issue data.
type FetchIssueDetail struct {
	Owner  string
	Repo   string
	Number int
	Reply  chan<- Event
}

// FetchRepoLabels fetches the label names defined in a repository, for
// the label picker.
type FetchRepoLabels struct {
	Owner string
	Repo  string
	Reply chan<- Event
}

// FetchRepoCollaborators fetches the logins with access to a repository,
// for the assignee picker.
type FetchRepoCollaborators struct {
	Owner string
	Repo  string
	Reply chan<- Event
}

// PrefetchPrDetails fetches PR details for a list of PRs sequentially.
// Each success streams its own PrDetailFetched event immediately;
// failures are logged and skipped.
type PrefetchPrDetails struct {
	Refs  []domain.PrRef
	Reply chan<- Event
}

// FetchRateLimit polls the current API quota.
type FetchRateLimit struct {
	Reply chan<- Event
}

// ---------------------------------------------------------------------------
// Background refresh registration (UI registers once per view)
// ---------------------------------------------------------------------------

// RegisterPrsRefresh replaces the PR view's background refresh slots.
type RegisterPrsRefresh struct {
	Filters []domain.PrFilter
	Notify  chan<- Event
}

// RegisterIssuesRefresh replaces the issue view's refresh slots.
type RegisterIssuesRefresh struct {
	Filters []domain.IssueFilter
	Notify  chan<- Event
}

// RegisterNotificationsRefresh replaces the notification view's refresh slots.
type RegisterNotificationsRefresh struct {
	Filters []domain.NotificationFilter
	Notify  chan<- Event
}

// RegisterActionsRefresh replaces the actions view's refresh slots.
type RegisterActionsRefresh struct {
	Filters []domain.ActionsFilter
	Notify  chan<- Event
}

// ---------------------------------------------------------------------------
// PR mutation requests.
// ---------------------------------------------------------------------------

// ApprovePr submits an approving review, with an optional comment body.
type ApprovePr struct {
	Owner  string
	Repo   string
	Number int
	Body   string
	Reply  chan<- Event
}

// MergePr merges a pull request.
type MergePr struct {
	Owner  string
	Repo   string
	Number int
	Reply  chan<- Event
}

// ClosePr closes a pull request without merging.
type ClosePr struct {
	Owner  string
	Repo   string
	Number int
	Reply  chan<- Event
}

// ReopenPr reopens a closed pull request.
type ReopenPr struct {
	Owner  string
	Repo   string
	Number int
	Reply  chan<- Event
}

// AddPrComment adds a comment to a pull request.
type AddPrComment struct {
	Owner  string
	Repo   string
	Number int
	Body   string
	Reply  chan<- Event
}

// UpdateBranch updates the PR branch with the latest base.
type UpdateBranch struct {
	Owner  string
	Repo   string
	Number int
	Reply  chan<- Event
}

// ReadyForReview marks a draft PR as ready for review.
type ReadyForReview struct {
	Owner  string
	Repo   string
	Number int
	Reply  chan<- Event
}

// AssignPr assigns users to a PR. The login "@me" resolves to the
// authenticated user before the mutation runs.
type AssignPr struct {
	Owner  string
	Repo   string
	Number int
	Logins []string
	Reply  chan<- Event
}

// UnassignPr removes one assignee from a PR. "@me" resolves as in AssignPr.
type UnassignPr struct {
	Owner  string
	Repo   string
	Number int
	Login  string
	Reply  chan<- Event
}

// AddPrLabels adds labels to a PR.
type AddPrLabels struct {
	Owner  string
	Repo   string
	Number int
	Labels []string
	Reply  chan<- Event
}

// ---------------------------------------------------------------------------
// Issue mutation requests.
// ---------------------------------------------------------------------------

// CloseIssue closes an issue.
type CloseIssue struct {
	Owner  string
	Repo   string
	Number int
	Reply  chan<- Event
}

// ReopenIssue reopens a closed issue.
type ReopenIssue struct {
	Owner  string
	Repo   string
	Number int
	Reply  chan<- Event
}

// AddIssueComment adds a comment to an issue.
type AddIssueComment struct {
	Owner  string
	Repo   string
	Number int
	Body   string
	Reply  chan<- Event
}

// AddIssueLabels adds labels to an issue.
type AddIssueLabels struct {
	Owner  string
	Repo   string
	Number int
	Labels []string
	Reply  chan<- Event
}

// AssignIssue assigns users to an issue.
type AssignIssue struct {
	Owner  string
	Repo   string
	Number int
	Logins []string
	Reply  chan<- Event
}

// UnassignIssue removes one assignee from an issue.
type UnassignIssue struct {
	Owner  string
	Repo   string
	Number int
	Login  string
	Reply  chan<- Event
}

// ---------------------------------------------------------------------------
// Workflow run mutation requests.
// ---------------------------------------------------------------------------

// RerunWorkflowRun queues a re-run of a workflow run. FailedOnly limits
// the re-run to the jobs that failed.
type RerunWorkflowRun struct {
	Owner      string
	Repo       string
	RunID      int64
	FailedOnly bool
	Reply      chan<- Event
}

// CancelWorkflowRun cancels an in-progress workflow run.
type CancelWorkflowRun struct {
	Owner string
	Repo  string
	RunID int64
	Reply chan<- Event
}

// ---------------------------------------------------------------------------
// Notification mutation requests.
// ---------------------------------------------------------------------------

// MarkNotificationRead marks one notification thread as read.
type MarkNotificationRead struct {
	ID    string
	Reply chan<- Event
}

// MarkNotificationDone marks one notification thread as done.
type MarkNotificationDone struct {
	ID    string
	Reply chan<- Event
}

// MarkAllNotificationsRead marks the whole inbox as read.
type MarkAllNotificationsRead struct {
	Reply chan<- Event
}

// UnsubscribeNotification unsubscribes from one thread.
type UnsubscribeNotification struct {
	ID    string
	Reply chan<- Event
}

// ---------------------------------------------------------------------------
// Control
// ---------------------------------------------------------------------------

// Shutdown stops the engine loop. Closing the handle has the same effect.
type Shutdown struct{}

func (FetchPrs) isRequest()                     {}
func (FetchIssues) isRequest()                  {}
func (FetchNotifications) isRequest()           {}
func (FetchActions) isRequest()                 {}
func (FetchPrDetail) isRequest()                {}
func (FetchIssueDetail) isRequest()             {}
func (FetchRepoLabels) isRequest()              {}
func (FetchRepoCollaborators) isRequest()       {}
func (PrefetchPrDetails) isRequest()            {}
func (FetchRateLimit) isRequest()               {}
func (RegisterPrsRefresh) isRequest()           {}
func (RegisterIssuesRefresh) isRequest()        {}
func (RegisterNotificationsRefresh) isRequest() {}
func (RegisterActionsRefresh) isRequest()       {}
func (ApprovePr) isRequest()                    {}
func (MergePr) isRequest()                      {}
func (ClosePr) isRequest()                      {}
func (ReopenPr) isRequest()                     {}
func (AddPrComment) isRequest()                 {}
func (UpdateBranch) isRequest()                 {}
func (ReadyForReview) isRequest()               {}
func (AssignPr) isRequest()                     {}
func (UnassignPr) isRequest()                   {}
func (AddPrLabels) isRequest()                  {}
func (CloseIssue) isRequest()                   {}
func (ReopenIssue) isRequest()                  {}
func (AddIssueComment) isRequest()              {}
func (AddIssueLabels) isRequest()               {}
func (AssignIssue) isRequest()                  {}
func (UnassignIssue) isRequest()                {}
func (RerunWorkflowRun) isRequest()             {}
func (CancelWorkflowRun) isRequest()            {}
func (MarkNotificationRead) isRequest()         {}
func (MarkNotificationDone) isRequest()         {}
func (MarkAllNotificationsRead) isRequest()     {}
func (UnsubscribeNotification) isRequest()      {}
func (Shutdown) isRequest()                     {}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// PrsFetched carries one PR filter slot's results. RateLimit is nil on
// cache hits: no call was made, so the quota is unchanged.
type PrsFetched struct {
	FilterIdx int
	Prs       []domain.PullRequest
	RateLimit *domain.RateLimitInfo
}

// IssuesFetched carries one issue filter slot's results.
type IssuesFetched struct {
	FilterIdx int
	Issues    []domain.Issue
	RateLimit *domain.RateLimitInfo
}

// NotificationsFetched carries one notification filter slot's results.
type NotificationsFetched struct {
	FilterIdx     int
	Notifications []domain.Notification
	RateLimit     *domain.RateLimitInfo
}

// ActionsFetched carries one workflow run filter slot's results.
type ActionsFetched struct {
	FilterIdx int
	Runs      []domain.WorkflowRun
	RateLimit *domain.RateLimitInfo
}

// PrDetailFetched carries one PR's expanded data.
type PrDetailFetched struct {
	Number    int
	Detail    domain.PrDetail
	RateLimit *domain.RateLimitInfo
}

// IssueDetailFetched carries one issue's expanded data.
type IssueDetailFetched struct {
	Number int
	Detail domain.IssueDetail
}

// RepoLabelsFetched carries a repository's label names for the label
// picker.
type RepoLabelsFetched struct {
	Owner     string
	Repo      string
	Labels    []string
	RateLimit *domain.RateLimitInfo
}

// RepoCollaboratorsFetched carries a repository's collaborator logins
// for the assignee picker.
type RepoCollaboratorsFetched struct {
	Owner     string
	Repo      string
	Logins    []string
	RateLimit *domain.RateLimitInfo
}

// FetchError is the unified error event for all fetch failures. Context
// names the failing operation, e.g. "FetchIssues[1]".
type FetchError struct {
	Context string
	Message string
}

// MutationOk reports a successful mutation with a human-readable
// description, e.g. "Approved PR #42".
type MutationOk struct {
	Description string
}

// MutationError reports a failed mutation.
type MutationError struct {
	Description string
	Message     string
}

// RateLimitUpdated carries a fresh quota snapshot.
type RateLimitUpdated struct {
	Info domain.RateLimitInfo
}

func (PrsFetched) isEvent()               {}
func (IssuesFetched) isEvent()            {}
func (NotificationsFetched) isEvent()     {}
func (ActionsFetched) isEvent()           {}
func (PrDetailFetched) isEvent()          {}
func (IssueDetailFetched) isEvent()       {}
func (RepoLabelsFetched) isEvent()        {}
func (RepoCollaboratorsFetched) isEvent() {}
func (FetchError) isEvent()               {}
func (MutationOk) isEvent()               {}
func (MutationError) isEvent()            {}
func (RateLimitUpdated) isEvent()         {}
