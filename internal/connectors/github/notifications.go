package github

import (
	"context"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// ListNotifications fetches inbox notifications. The query is a list of
// space-separated tokens:
//
//	all              include read notifications
//	participating    only participating/mentioned threads
//	repo:owner/name  scope to one repository
//
// An empty query means unread notifications across all repositories.
func (c *Client) ListNotifications(ctx context.Context, query string, limit int) ([]domain.Notification, *domain.RateLimitInfo, error) {
	var all, participating bool
	var repo string
	for _, token := range strings.Fields(query) {
		switch {
		case token == "all":
			all = true
		case token == "participating":
			participating = true
		case strings.HasPrefix(token, "repo:"):
			repo = strings.TrimPrefix(token, "repo:")
		}
	}

	opts := &gh.NotificationListOptions{
		All:           all,
		Participating: participating,
		ListOptions: gh.ListOptions{
			PerPage: limit,
		},
	}

	if err := c.wait(ctx); err != nil {
		return nil, nil, err
	}

	var notifs []*gh.Notification
	var resp *gh.Response
	var err error
	if repo != "" {
		owner, name, splitErr := splitRepo(repo)
		if splitErr != nil {
			return nil, nil, splitErr
		}
		notifs, resp, err = c.gh.Activity.ListRepositoryNotifications(ctx, owner, name, opts)
	} else {
		notifs, resp, err = c.gh.Activity.ListNotifications(ctx, opts)
	}
	if err != nil {
		return nil, nil, c.wrapError(err, "list notifications")
	}
	rl := c.finish(resp)

	if len(notifs) > limit {
		notifs = notifs[:limit]
	}
	out := make([]domain.Notification, 0, len(notifs))
	for _, n := range notifs {
		out = append(out, mapNotification(n))
	}
	return out, rl, nil
}

func mapNotification(n *gh.Notification) domain.Notification {
	out := domain.Notification{
		ID:        n.GetID(),
		Reason:    domain.NotificationReason(n.GetReason()),
		Unread:    n.GetUnread(),
		UpdatedAt: n.GetUpdatedAt().Time,
	}
	if subject := n.GetSubject(); subject != nil {
		out.SubjectType = subject.GetType()
		out.SubjectTitle = subject.GetTitle()
		out.URL = subject.GetURL()
	}
	if repo := n.GetRepository(); repo != nil {
		out.Repository = &domain.RepoRef{
			Owner: repo.GetOwner().GetLogin(),
			Name:  repo.GetName(),
		}
	}
	return out
}

// MarkNotificationRead marks one notification thread as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	resp, err := c.gh.Activity.MarkThreadRead(ctx, id)
	c.finish(resp)
	return c.wrapError(err, "mark thread read")
}

// MarkNotificationDone marks one notification thread as done.
func (c *Client) MarkNotificationDone(ctx context.Context, id string) error {
	threadID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return domain.ErrInvalidInput
	}
	if err := c.wait(ctx); err != nil {
		return err
	}
	resp, err := c.gh.Activity.MarkThreadDone(ctx, threadID)
	c.finish(resp)
	return c.wrapError(err, "mark thread done")
}

// MarkAllNotificationsRead marks the whole inbox as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	resp, err := c.gh.Activity.MarkNotificationsRead(ctx, gh.Timestamp{Time: time.Now()})
	c.finish(resp)
	return c.wrapError(err, "mark all read")
}

// UnsubscribeNotification unsubscribes from one thread.
func (c *Client) UnsubscribeNotification(ctx context.Context, id string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	resp, err := c.gh.Activity.DeleteThreadSubscription(ctx, id)
	c.finish(resp)
	return c.wrapError(err, "unsubscribe thread")
}
