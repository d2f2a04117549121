package domain

import "time"

// Actor is a user referenced by an item (author, assignee, reviewer).
type Actor struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
}

// RepoRef identifies a repository by owner and name.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns the "owner/name" form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// Label is an issue or PR label.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Comment is a single issue or PR comment.
type Comment struct {
	Author    Actor     `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// RateLimitInfo is the API quota snapshot returned alongside successful
// reads. It is absent on cache hits: no call was made, so the quota is
// unknown and unchanged.
type RateLimitInfo struct {
	// Limit is the total request budget for the current window.
	Limit int `json:"limit"`

	// Remaining is the number of requests left in the current window.
	Remaining int `json:"remaining"`

	// Cost is what the last call charged against the budget.
	Cost int `json:"cost"`
}
