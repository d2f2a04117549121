package domain

import "time"

// NotificationReason is why the user received a notification.
type NotificationReason string

const (
	ReasonAssign        NotificationReason = "assign"
	ReasonAuthor        NotificationReason = "author"
	ReasonComment       NotificationReason = "comment"
	ReasonMention       NotificationReason = "mention"
	ReasonReviewRequest NotificationReason = "review_requested"
	ReasonSubscribed    NotificationReason = "subscribed"
	ReasonCIActivity    NotificationReason = "ci_activity"
)

// Notification is a single inbox notification thread.
type Notification struct {
	ID           string             `json:"id"`
	SubjectType  string             `json:"subject_type,omitempty"`
	SubjectTitle string             `json:"subject_title"`
	Reason       NotificationReason `json:"reason"`
	Unread       bool               `json:"unread"`
	Repository   *RepoRef           `json:"repository,omitempty"`
	URL          string             `json:"url,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
