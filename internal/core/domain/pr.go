package domain

import "time"

// PrState is the lifecycle state of a pull request.
type PrState string

const (
	PrStateOpen   PrState = "open"
	PrStateClosed PrState = "closed"
	PrStateMerged PrState = "merged"
)

// ReviewDecision is the aggregate review outcome for a pull request.
type ReviewDecision string

const (
	ReviewApproved         ReviewDecision = "approved"
	ReviewChangesRequested ReviewDecision = "changes_requested"
	ReviewRequired         ReviewDecision = "review_required"
)

// PullRequest is a pull request row as shown in the dashboard table.
type PullRequest struct {
	Number         int            `json:"number"`
	Title          string         `json:"title"`
	Body           string         `json:"body,omitempty"`
	Author         *Actor         `json:"author,omitempty"`
	State          PrState        `json:"state"`
	IsDraft        bool           `json:"is_draft,omitempty"`
	ReviewDecision ReviewDecision `json:"review_decision,omitempty"`
	Additions      int            `json:"additions,omitempty"`
	Deletions      int            `json:"deletions,omitempty"`
	HeadRef        string         `json:"head_ref,omitempty"`
	BaseRef        string         `json:"base_ref,omitempty"`
	Labels         []Label        `json:"labels,omitempty"`
	Assignees      []Actor        `json:"assignees,omitempty"`
	CommentCount   int            `json:"comment_count,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	URL            string         `json:"url,omitempty"`
	Repo           *RepoRef       `json:"repo,omitempty"`

	// Head repository owner and name, set for fork PRs. Needed for the
	// compare call that computes BehindBy on the detail view.
	HeadRepoOwner string `json:"head_repo_owner,omitempty"`
	HeadRepoName  string `json:"head_repo_name,omitempty"`
}

// PrDetail is the expanded data fetched for the PR sidebar.
type PrDetail struct {
	Body     string    `json:"body"`
	Comments []Comment `json:"comments,omitempty"`

	// Mergeable is the mergeability reported by the detail query, empty
	// when the forge has not computed it yet.
	Mergeable string `json:"mergeable,omitempty"`

	// BehindBy is how many commits behind base this PR is, from the
	// compare API. Nil when the compare call was skipped or failed.
	BehindBy *int `json:"behind_by,omitempty"`
}

// PrRef carries everything needed to fetch a single PR detail, including
// the branch refs for the compare call.
type PrRef struct {
	Owner         string
	Repo          string
	Number        int
	BaseRef       string
	HeadRepoOwner string
	HeadRef       string
}
