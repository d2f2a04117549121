package domain

import "time"

// IssueState is the lifecycle state of an issue.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// Issue is an issue row as shown in the dashboard table.
type Issue struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Body         string     `json:"body,omitempty"`
	Author       *Actor     `json:"author,omitempty"`
	State        IssueState `json:"state"`
	Labels       []Label    `json:"labels,omitempty"`
	Assignees    []Actor    `json:"assignees,omitempty"`
	CommentCount int        `json:"comment_count,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	URL          string     `json:"url,omitempty"`
	Repo         *RepoRef   `json:"repo,omitempty"`
}

// IssueDetail is the expanded data fetched for the issue sidebar.
type IssueDetail struct {
	Body     string    `json:"body"`
	Comments []Comment `json:"comments,omitempty"`
}
