package domain

import "time"

// RunStatus is the execution state of a workflow run.
type RunStatus string

const (
	RunQueued     RunStatus = "queued"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunWaiting    RunStatus = "waiting"
)

// RunConclusion is the terminal outcome of a completed workflow run.
type RunConclusion string

const (
	ConclusionSuccess   RunConclusion = "success"
	ConclusionFailure   RunConclusion = "failure"
	ConclusionCancelled RunConclusion = "cancelled"
	ConclusionSkipped   RunConclusion = "skipped"
	ConclusionTimedOut  RunConclusion = "timed_out"
)

// WorkflowRun is a CI run row as shown in the actions view.
type WorkflowRun struct {
	ID           int64         `json:"id"`
	RunNumber    int           `json:"run_number"`
	WorkflowName string        `json:"workflow_name"`
	Title        string        `json:"title,omitempty"`
	HeadBranch   string        `json:"head_branch,omitempty"`
	Event        string        `json:"event,omitempty"`
	Status       RunStatus     `json:"status"`
	Conclusion   RunConclusion `json:"conclusion,omitempty"`
	Repo         *RepoRef      `json:"repo,omitempty"`
	URL          string        `json:"url,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
