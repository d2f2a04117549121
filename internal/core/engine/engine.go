package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/forgedash/internal/core/domain"
	"github.com/custodia-labs/forgedash/internal/core/ports/driven"
	"github.com/custodia-labs/forgedash/internal/logger"
)

// Engine is the background worker. One goroutine started by Start owns
// the forge clients, the result cache, and the refresh scheduler; nothing
// else touches them.
type Engine struct {
	cfg   domain.EngineConfig
	forge driven.Forge
	cache *ResultCache
	sched *RefreshScheduler
	q     *requestQueue
	ctx   context.Context
}

// New creates an engine. The config is normalised on the way in, so the
// refetch interval is never below the minimum and the poll interval is
// never zero.
func New(cfg domain.EngineConfig, forge driven.Forge) *Engine {
	cfg = cfg.Normalised()
	return &Engine{
		cfg:   cfg,
		forge: forge,
		cache: NewResultCache(cfg.RefetchInterval),
		sched: NewRefreshScheduler(),
		q:     newRequestQueue(),
		ctx:   context.Background(),
	}
}

// Start launches the worker goroutine and returns the handle the
// interactive layer uses to talk to it. Call once.
func (e *Engine) Start() Handle {
	go e.run()
	return Handle{q: e.q}
}

// run is the worker loop. Queued requests always win over the refresh
// ticker: the timer is only consulted when the queue is empty.
func (e *Engine) run() {
	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	logger.Debug("engine started (refetch %s, poll %s)", e.cfg.RefetchInterval, e.cfg.PollInterval)

	for {
		if req, ok := e.q.TryDequeue(); ok {
			if !e.dispatch(req) {
				e.q.Close()
				logger.Debug("engine stopped")
				return
			}
			continue
		}
		if e.q.Drained() {
			logger.Debug("engine stopped")
			return
		}
		select {
		case <-e.q.Wait():
		case <-ticker.C:
			e.tickRefresh()
		}
	}
}

// dispatch serves one request. Returns false only for Shutdown.
func (e *Engine) dispatch(req Request) bool {
	switch r := req.(type) {

	// --- Fetches ---

	// A successful interactive fetch also stamps the slot's refresh
	// entry, so the background tick does not refetch a view the user
	// just loaded.

	case FetchPrs:
		if err := e.fetchPrs(r.FilterIdx, r.Filter, r.Force, r.Reply); err != nil {
			e.fetchFailed(r.Reply, fmt.Sprintf("FetchPrs[%d]", r.FilterIdx), err)
		} else {
			e.sched.MarkFetched(r.FilterIdx, domain.ViewPrs)
		}

	case FetchIssues:
		if err := e.fetchIssues(r.FilterIdx, r.Filter, r.Force, r.Reply); err != nil {
			e.fetchFailed(r.Reply, fmt.Sprintf("FetchIssues[%d]", r.FilterIdx), err)
		} else {
			e.sched.MarkFetched(r.FilterIdx, domain.ViewIssues)
		}

	case FetchNotifications:
		if err := e.fetchNotifications(r.FilterIdx, r.Filter, false, r.Reply); err != nil {
			e.fetchFailed(r.Reply, fmt.Sprintf("FetchNotifications[%d]", r.FilterIdx), err)
		} else {
			e.sched.MarkFetched(r.FilterIdx, domain.ViewNotifications)
		}

	case FetchActions:
		if err := e.fetchActions(r.FilterIdx, r.Filter, false, r.Reply); err != nil {
			e.fetchFailed(r.Reply, fmt.Sprintf("FetchActions[%d]", r.FilterIdx), err)
		} else {
			e.sched.MarkFetched(r.FilterIdx, domain.ViewActions)
		}

	case FetchPrDetail:
		ref := domain.PrRef{
			Owner:         r.Owner,
			Repo:          r.Repo,
			Number:        r.Number,
			BaseRef:       r.BaseRef,
			HeadRepoOwner: r.HeadRepoOwner,
			HeadRef:       r.HeadRef,
		}
		if err := e.fetchPrDetail(ref, r.Reply); err != nil {
			e.fetchFailed(r.Reply, "FetchPrDetail", err)
		}

	case FetchIssueDetail:
		if err := e.fetchIssueDetail(r.Owner, r.Repo, r.Number, r.Reply); err != nil {
			e.fetchFailed(r.Reply, "FetchIssueDetail", err)
		}

	case FetchRepoLabels:
		if err := e.fetchRepoLabels(r.Owner, r.Repo, r.Reply); err != nil {
			e.fetchFailed(r.Reply, fmt.Sprintf("FetchRepoLabels %s/%s", r.Owner, r.Repo), err)
		}

	case FetchRepoCollaborators:
		if err := e.fetchRepoCollaborators(r.Owner, r.Repo, r.Reply); err != nil {
			e.fetchFailed(r.Reply, fmt.Sprintf("FetchRepoCollaborators %s/%s", r.Owner, r.Repo), err)
		}

	case PrefetchPrDetails:
		for _, ref := range r.Refs {
			if err := e.fetchPrDetail(ref, r.Reply); err != nil {
				logger.Warn("prefetch %s/%s#%d failed: %v", ref.Owner, ref.Repo, ref.Number, err)
			}
		}

	case FetchRateLimit:
		if err := e.fetchRateLimit(r.Reply); err != nil {
			e.fetchFailed(r.Reply, "FetchRateLimit", err)
		}

	// --- Refresh registration ---

	case RegisterPrsRefresh:
		configs := make([]domain.FilterConfig, len(r.Filters))
		for i, f := range r.Filters {
			configs[i] = f
		}
		e.sched.Register(domain.ViewPrs, configs, e.cfg.RefetchInterval, r.Notify)
		logger.Debug("registered %d pr refresh slots", len(configs))

	case RegisterIssuesRefresh:
		configs := make([]domain.FilterConfig, len(r.Filters))
		for i, f := range r.Filters {
			configs[i] = f
		}
		e.sched.Register(domain.ViewIssues, configs, e.cfg.RefetchInterval, r.Notify)
		logger.Debug("registered %d issue refresh slots", len(configs))

	case RegisterNotificationsRefresh:
		configs := make([]domain.FilterConfig, len(r.Filters))
		for i, f := range r.Filters {
			configs[i] = f
		}
		e.sched.Register(domain.ViewNotifications, configs, e.cfg.RefetchInterval, r.Notify)
		logger.Debug("registered %d notification refresh slots", len(configs))

	case RegisterActionsRefresh:
		configs := make([]domain.FilterConfig, len(r.Filters))
		for i, f := range r.Filters {
			configs[i] = f
		}
		e.sched.Register(domain.ViewActions, configs, e.cfg.RefetchInterval, r.Notify)
		logger.Debug("registered %d actions refresh slots", len(configs))

	// --- PR mutations ---

	case ApprovePr:
		e.mutate(r.Reply, fmt.Sprintf("Approved PR #%d", r.Number), func(c driven.ForgeClient) error {
			return c.ApprovePr(e.ctx, r.Owner, r.Repo, r.Number, r.Body)
		})

	case MergePr:
		e.mutate(r.Reply, fmt.Sprintf("Merged PR #%d", r.Number), func(c driven.ForgeClient) error {
			return c.MergePr(e.ctx, r.Owner, r.Repo, r.Number)
		})

	case ClosePr:
		e.mutate(r.Reply, fmt.Sprintf("Closed PR #%d", r.Number), func(c driven.ForgeClient) error {
			return c.ClosePr(e.ctx, r.Owner, r.Repo, r.Number)
		})

	case ReopenPr:
		e.mutate(r.Reply, fmt.Sprintf("Reopened PR #%d", r.Number), func(c driven.ForgeClient) error {
			return c.ReopenPr(e.ctx, r.Owner, r.Repo, r.Number)
		})

	case AddPrComment:
		e.mutate(r.Reply, fmt.Sprintf("Commented on PR #%d", r.Number), func(c driven.ForgeClient) error {
			return c.AddPrComment(e.ctx, r.Owner, r.Repo, r.Number, r.Body)
		})

	case UpdateBranch:
		e.mutate(r.Reply, fmt.Sprintf("Updated branch for PR #%d", r.Number), func(c driven.ForgeClient) error {
			return c.UpdateBranch(e.ctx, r.Owner, r.Repo, r.Number)
		})

	case ReadyForReview:
		e.mutate(r.Reply, fmt.Sprintf("Marked PR #%d ready for review", r.Number), func(c driven.ForgeClient) error {
			return c.ReadyForReview(e.ctx, r.Owner, r.Repo, r.Number)
		})

	case AssignPr:
		e.mutate(r.Reply, fmt.Sprintf("Assigned PR #%d", r.Number), func(c driven.ForgeClient) error {
			logins, err := e.resolveLogins(c, r.Logins)
			if err != nil {
				return err
			}
			return c.Assign(e.ctx, r.Owner, r.Repo, r.Number, logins)
		})

	case UnassignPr:
		e.mutate(r.Reply, fmt.Sprintf("Unassigned PR #%d", r.Number), func(c driven.ForgeClient) error {
			logins, err := e.resolveLogins(c, []string{r.Login})
			if err != nil {
				return err
			}
			return c.Unassign(e.ctx, r.Owner, r.Repo, r.Number, logins[0])
		})

	case AddPrLabels:
		e.mutate(r.Reply, fmt.Sprintf("Labeled PR #%d", r.Number), func(c driven.ForgeClient) error {
			return c.AddLabels(e.ctx, r.Owner, r.Repo, r.Number, r.Labels)
		})

	// --- Issue mutations ---

	case CloseIssue:
		e.mutate(r.Reply, fmt.Sprintf("Closed issue #%d", r.Number), func(c driven.ForgeClient) error {
			return c.CloseIssue(e.ctx, r.Owner, r.Repo, r.Number)
		})

	case ReopenIssue:
		e.mutate(r.Reply, fmt.Sprintf("Reopened issue #%d", r.Number), func(c driven.ForgeClient) error {
			return c.ReopenIssue(e.ctx, r.Owner, r.Repo, r.Number)
		})

	case AddIssueComment:
		e.mutate(r.Reply, fmt.Sprintf("Commented on issue #%d", r.Number), func(c driven.ForgeClient) error {
			return c.AddIssueComment(e.ctx, r.Owner, r.Repo, r.Number, r.Body)
		})

	case AddIssueLabels:
		e.mutate(r.Reply, fmt.Sprintf("Labeled issue #%d", r.Number), func(c driven.ForgeClient) error {
			return c.AddLabels(e.ctx, r.Owner, r.Repo, r.Number, r.Labels)
		})

	case AssignIssue:
		e.mutate(r.Reply, fmt.Sprintf("Assigned issue #%d", r.Number), func(c driven.ForgeClient) error {
			logins, err := e.resolveLogins(c, r.Logins)
			if err != nil {
				return err
			}
			return c.Assign(e.ctx, r.Owner, r.Repo, r.Number, logins)
		})

	case UnassignIssue:
		e.mutate(r.Reply, fmt.Sprintf("Unassigned issue #%d", r.Number), func(c driven.ForgeClient) error {
			logins, err := e.resolveLogins(c, []string{r.Login})
			if err != nil {
				return err
			}
			return c.Unassign(e.ctx, r.Owner, r.Repo, r.Number, logins[0])
		})

	// --- Workflow run mutations ---

	case RerunWorkflowRun:
		desc := fmt.Sprintf("Re-ran workflow run #%d", r.RunID)
		if r.FailedOnly {
			desc = fmt.Sprintf("Re-ran failed jobs for run #%d", r.RunID)
		}
		e.mutate(r.Reply, desc, func(c driven.ForgeClient) error {
			return c.RerunWorkflowRun(e.ctx, r.Owner, r.Repo, r.RunID, r.FailedOnly)
		})

	case CancelWorkflowRun:
		e.mutate(r.Reply, fmt.Sprintf("Cancelled workflow run #%d", r.RunID), func(c driven.ForgeClient) error {
			return c.CancelWorkflowRun(e.ctx, r.Owner, r.Repo, r.RunID)
		})

	// --- Notification mutations ---

	case MarkNotificationRead:
		e.mutate(r.Reply, "Marked notification read", func(c driven.ForgeClient) error {
			return c.MarkNotificationRead(e.ctx, r.ID)
		})

	case MarkNotificationDone:
		e.mutate(r.Reply, "Marked notification done", func(c driven.ForgeClient) error {
			return c.MarkNotificationDone(e.ctx, r.ID)
		})

	case MarkAllNotificationsRead:
		e.mutate(r.Reply, "Marked all notifications read", func(c driven.ForgeClient) error {
			return c.MarkAllNotificationsRead(e.ctx)
		})

	case UnsubscribeNotification:
		e.mutate(r.Reply, "Unsubscribed from notification", func(c driven.ForgeClient) error {
			return c.UnsubscribeNotification(e.ctx, r.ID)
		})

	// --- Control ---

	case Shutdown:
		return false

	default:
		logger.Warn("unknown request type %T", req)
	}
	return true
}

// tickRefresh fetches every due registration, bypassing the cache. A
// failed background fetch is logged and retried on the next tick; the
// entry is only stamped on success, so backoff falls out of the poll
// cadence.
func (e *Engine) tickRefresh() {
	due := e.sched.DueEntries()
	if len(due) == 0 {
		return
	}
	logger.Debug("background refresh: %d entries due", len(due))

	for _, d := range due {
		var err error
		switch f := d.Filter.(type) {
		case domain.PrFilter:
			err = e.fetchPrs(d.FilterIdx, f, true, d.Notify)
		case domain.IssueFilter:
			err = e.fetchIssues(d.FilterIdx, f, true, d.Notify)
		case domain.NotificationFilter:
			err = e.fetchNotifications(d.FilterIdx, f, true, d.Notify)
		case domain.ActionsFilter:
			err = e.fetchActions(d.FilterIdx, f, true, d.Notify)
		default:
			continue
		}
		if err != nil {
			logger.Warn("background %s[%d] failed: %v", d.Filter.Kind(), d.FilterIdx, err)
			continue
		}
		e.sched.MarkFetched(d.FilterIdx, d.Filter.Kind())
	}
}

// --- Fetch helpers. Each emits its own success event and returns the
// error for the caller to report, so interactive requests surface a
// FetchError while background refreshes only log. ---

func (e *Engine) fetchPrs(idx int, f domain.PrFilter, force bool, dest chan<- Event) error {
	limit := domain.EffectiveLimit(f.Limit, domain.DefaultSearchLimit)
	key := fmt.Sprintf("prs:%s:%d", f.Filters, limit)

	if !force {
		if payload, ok := e.cache.Get(key); ok {
			var prs []domain.PullRequest
			if err := json.Unmarshal([]byte(payload), &prs); err == nil {
				logger.Debug("cache hit %s", key)
				e.emit(dest, PrsFetched{FilterIdx: idx, Prs: prs})
				return nil
			}
		}
	}

	client, err := e.forge.ForHost(domain.EffectiveHost(f.Host))
	if err != nil {
		return err
	}
	prs, rl, err := client.SearchPullRequests(e.ctx, f.Filters, limit)
	if err != nil {
		return err
	}
	e.store(key, prs)
	e.emit(dest, PrsFetched{FilterIdx: idx, Prs: prs, RateLimit: rl})
	return nil
}

func (e *Engine) fetchIssues(idx int, f domain.IssueFilter, force bool, dest chan<- Event) error {
	limit := domain.EffectiveLimit(f.Limit, domain.DefaultSearchLimit)
	key := fmt.Sprintf("issues:%s:%d", f.Filters, limit)

	if !force {
		if payload, ok := e.cache.Get(key); ok {
			var issues []domain.Issue
			if err := json.Unmarshal([]byte(payload), &issues); err == nil {
				logger.Debug("cache hit %s", key)
				e.emit(dest, IssuesFetched{FilterIdx: idx, Issues: issues})
				return nil
			}
		}
	}

	client, err := e.forge.ForHost(domain.EffectiveHost(f.Host))
	if err != nil {
		return err
	}
	issues, rl, err := client.SearchIssues(e.ctx, f.Filters, limit)
	if err != nil {
		return err
	}
	e.store(key, issues)
	e.emit(dest, IssuesFetched{FilterIdx: idx, Issues: issues, RateLimit: rl})
	return nil
}

func (e *Engine) fetchNotifications(idx int, f domain.NotificationFilter, force bool, dest chan<- Event) error {
	limit := domain.EffectiveLimit(f.Limit, domain.DefaultNotificationLimit)
	key := fmt.Sprintf("notifications:%s:%d", f.Filters, limit)

	if !force {
		if payload, ok := e.cache.Get(key); ok {
			var notifs []domain.Notification
			if err := json.Unmarshal([]byte(payload), &notifs); err == nil {
				logger.Debug("cache hit %s", key)
				e.emit(dest, NotificationsFetched{FilterIdx: idx, Notifications: notifs})
				return nil
			}
		}
	}

	client, err := e.forge.ForHost(domain.EffectiveHost(f.Host))
	if err != nil {
		return err
	}
	notifs, rl, err := client.ListNotifications(e.ctx, f.Filters, limit)
	if err != nil {
		return err
	}
	e.store(key, notifs)
	e.emit(dest, NotificationsFetched{FilterIdx: idx, Notifications: notifs, RateLimit: rl})
	return nil
}

func (e *Engine) fetchActions(idx int, f domain.ActionsFilter, force bool, dest chan<- Event) error {
	key := fmt.Sprintf("actions:%s:%s:%d", f.Repo, f.Status, domain.EffectiveLimit(f.Limit, domain.DefaultActionsLimit))

	if !force {
		if payload, ok := e.cache.Get(key); ok {
			var runs []domain.WorkflowRun
			if err := json.Unmarshal([]byte(payload), &runs); err == nil {
				logger.Debug("cache hit %s", key)
				e.emit(dest, ActionsFetched{FilterIdx: idx, Runs: runs})
				return nil
			}
		}
	}

	client, err := e.forge.ForHost(domain.EffectiveHost(f.Host))
	if err != nil {
		return err
	}
	runs, rl, err := client.ListWorkflowRuns(e.ctx, f)
	if err != nil {
		return err
	}
	e.store(key, runs)
	e.emit(dest, ActionsFetched{FilterIdx: idx, Runs: runs, RateLimit: rl})
	return nil
}

func (e *Engine) fetchPrDetail(ref domain.PrRef, dest chan<- Event) error {
	key := fmt.Sprintf("pr:%s/%s#%d", ref.Owner, ref.Repo, ref.Number)

	if payload, ok := e.cache.Get(key); ok {
		var detail domain.PrDetail
		if err := json.Unmarshal([]byte(payload), &detail); err == nil {
			logger.Debug("cache hit %s", key)
			e.emit(dest, PrDetailFetched{Number: ref.Number, Detail: detail})
			return nil
		}
	}

	client, err := e.forge.ForHost(domain.DefaultHost)
	if err != nil {
		return err
	}
	detail, rl, err := client.FetchPrDetail(e.ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return err
	}
	// The detail query does not always report how far behind base the
	// branch is; fill it in with a compare call when we know the head.
	if detail.BehindBy == nil && ref.BaseRef != "" && ref.HeadRepoOwner != "" {
		behind, cerr := client.CompareBranches(e.ctx, ref.Owner, ref.Repo, ref.BaseRef, ref.HeadRepoOwner, ref.HeadRef)
		if cerr != nil {
			logger.Debug("compare %s/%s %s...%s failed: %v", ref.Owner, ref.Repo, ref.BaseRef, ref.HeadRef, cerr)
		} else {
			detail.BehindBy = behind
		}
	}
	e.store(key, detail)
	e.emit(dest, PrDetailFetched{Number: ref.Number, Detail: *detail, RateLimit: rl})
	return nil
}

func (e *Engine) fetchIssueDetail(owner, repo string, number int, dest chan<- Event) error {
	key := fmt.Sprintf("issue:%s/%s#%d", owner, repo, number)

	if payload, ok := e.cache.Get(key); ok {
		var detail domain.IssueDetail
		if err := json.Unmarshal([]byte(payload), &detail); err == nil {
			logger.Debug("cache hit %s", key)
			e.emit(dest, IssueDetailFetched{Number: number, Detail: detail})
			return nil
		}
	}

	client, err := e.forge.ForHost(domain.DefaultHost)
	if err != nil {
		return err
	}
	detail, _, err := client.FetchIssueDetail(e.ctx, owner, repo, number)
	if err != nil {
		return err
	}
	e.store(key, detail)
	e.emit(dest, IssueDetailFetched{Number: number, Detail: *detail})
	return nil
}

func (e *Engine) fetchRepoLabels(owner, repo string, dest chan<- Event) error {
	key := fmt.Sprintf("labels:%s/%s", owner, repo)

	if payload, ok := e.cache.Get(key); ok {
		var labels []string
		if err := json.Unmarshal([]byte(payload), &labels); err == nil {
			logger.Debug("cache hit %s", key)
			e.emit(dest, RepoLabelsFetched{Owner: owner, Repo: repo, Labels: labels})
			return nil
		}
	}

	client, err := e.forge.ForHost(domain.DefaultHost)
	if err != nil {
		return err
	}
	labels, rl, err := client.ListRepoLabels(e.ctx, owner, repo)
	if err != nil {
		return err
	}
	e.store(key, labels)
	e.emit(dest, RepoLabelsFetched{Owner: owner, Repo: repo, Labels: labels, RateLimit: rl})
	return nil
}

func (e *Engine) fetchRepoCollaborators(owner, repo string, dest chan<- Event) error {
	key := fmt.Sprintf("collaborators:%s/%s", owner, repo)

	if payload, ok := e.cache.Get(key); ok {
		var logins []string
		if err := json.Unmarshal([]byte(payload), &logins); err == nil {
			logger.Debug("cache hit %s", key)
			e.emit(dest, RepoCollaboratorsFetched{Owner: owner, Repo: repo, Logins: logins})
			return nil
		}
	}

	client, err := e.forge.ForHost(domain.DefaultHost)
	if err != nil {
		return err
	}
	logins, rl, err := client.ListCollaborators(e.ctx, owner, repo)
	if err != nil {
		return err
	}
	e.store(key, logins)
	e.emit(dest, RepoCollaboratorsFetched{Owner: owner, Repo: repo, Logins: logins, RateLimit: rl})
	return nil
}

func (e *Engine) fetchRateLimit(dest chan<- Event) error {
	client, err := e.forge.ForHost(domain.DefaultHost)
	if err != nil {
		return err
	}
	info, err := client.RateLimit(e.ctx)
	if err != nil {
		return err
	}
	e.emit(dest, RateLimitUpdated{Info: *info})
	return nil
}

// mutate runs one write operation against the default host and reports
// the outcome. Rate-limit failures are rewritten into the friendly
// message; everything else passes through verbatim.
func (e *Engine) mutate(reply chan<- Event, desc string, fn func(driven.ForgeClient) error) {
	client, err := e.forge.ForHost(domain.DefaultHost)
	if err != nil {
		e.emit(reply, MutationError{Description: desc, Message: err.Error()})
		return
	}
	if err := fn(client); err != nil {
		msg := err.Error()
		if domain.IsRateLimited(err) {
			msg = domain.RateLimitMessage(err)
		}
		logger.Warn("%s failed: %v", desc, err)
		e.emit(reply, MutationError{Description: desc, Message: msg})
		return
	}
	logger.Debug("%s", desc)
	e.emit(reply, MutationOk{Description: desc})
}

// resolveLogins expands "@me" to the authenticated login. CurrentUser is
// asked at most once per call; if it fails, the mutation never runs.
func (e *Engine) resolveLogins(client driven.ForgeClient, logins []string) ([]string, error) {
	resolved := make([]string, len(logins))
	me := ""
	for i, l := range logins {
		if l != "@me" {
			resolved[i] = l
			continue
		}
		if me == "" {
			var err error
			me, err = client.CurrentUser(e.ctx)
			if err != nil {
				return nil, fmt.Errorf("resolve @me: %w", err)
			}
		}
		resolved[i] = me
	}
	return resolved, nil
}

// fetchFailed reports a fetch error to the requester.
func (e *Engine) fetchFailed(dest chan<- Event, op string, err error) {
	msg := err.Error()
	if domain.IsRateLimited(err) {
		msg = domain.RateLimitMessage(err)
	}
	logger.Warn("%s failed: %v", op, err)
	e.emit(dest, FetchError{Context: op, Message: msg})
}

// store caches v under key as JSON. An encode failure only costs the
// cache entry, never the fetch.
func (e *Engine) store(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("cache encode %s failed: %v", key, err)
		return
	}
	e.cache.Put(key, string(data))
}

// emit delivers an event without ever blocking the worker. A nil or full
// channel drops the event.
func (e *Engine) emit(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}
