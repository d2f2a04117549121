package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/forgedash/internal/adapters/driven/config/file"
	ghconn "github.com/custodia-labs/forgedash/internal/connectors/github"
	"github.com/custodia-labs/forgedash/internal/core/domain"
	"github.com/custodia-labs/forgedash/internal/core/engine"
	"github.com/custodia-labs/forgedash/internal/logger"
)

// eventBuffer sizes the event channel. The engine drops events when the
// channel is full, so the buffer absorbs bursts like a prefetch batch.
const eventBuffer = 256

// runDash starts the engine and streams its events to stdout as JSON
// lines until interrupted. Each line is {"type": ..., "data": ...}.
func runDash(cmd *cobra.Command, _ []string) error {
	store, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	cfg, err := store.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	forge := ghconn.NewForge(ghconn.EnvTokenProvider{})
	eng := engine.New(cfg.EngineConfig(), forge)
	h := eng.Start()
	defer h.Close()

	events := make(chan engine.Event, eventBuffer)
	registerAndFetch(h, cfg, events)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	updates, err := store.Watch(ctx)
	if err != nil {
		logger.Warn("config watch unavailable: %v", err)
		updates = nil
	}

	enc := json.NewEncoder(os.Stdout)
	for {
		select {
		case <-ctx.Done():
			return nil

		case newCfg, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			cfg = newCfg
			registerAndFetch(h, cfg, events)

		case ev := <-events:
			if prs, ok := ev.(engine.PrsFetched); ok {
				prefetchDetails(h, cfg, prs, events)
			}
			if err := enc.Encode(envelope{Type: eventName(ev), Data: ev}); err != nil {
				return fmt.Errorf("write event: %w", err)
			}
		}
	}
}

// registerAndFetch points the background refresh at the configured
// filters and kicks off an immediate fetch of every slot.
func registerAndFetch(h engine.Handle, cfg domain.DashboardConfig, events chan engine.Event) {
	h.Send(engine.RegisterPrsRefresh{Filters: cfg.Prs, Notify: events})
	h.Send(engine.RegisterIssuesRefresh{Filters: cfg.Issues, Notify: events})
	h.Send(engine.RegisterNotificationsRefresh{Filters: cfg.Notifications, Notify: events})
	h.Send(engine.RegisterActionsRefresh{Filters: cfg.Actions, Notify: events})

	for i, f := range cfg.Prs {
		h.Send(engine.FetchPrs{FilterIdx: i, Filter: f, Reply: events})
	}
	for i, f := range cfg.Issues {
		h.Send(engine.FetchIssues{FilterIdx: i, Filter: f, Reply: events})
	}
	for i, f := range cfg.Notifications {
		h.Send(engine.FetchNotifications{FilterIdx: i, Filter: f, Reply: events})
	}
	for i, f := range cfg.Actions {
		h.Send(engine.FetchActions{FilterIdx: i, Filter: f, Reply: events})
	}
}

// prefetchDetails warms the detail cache for the first N PRs of a freshly
// fetched list. Repeats are absorbed by the cache.
func prefetchDetails(h engine.Handle, cfg domain.DashboardConfig, prs engine.PrsFetched, events chan engine.Event) {
	refs := detailRefs(prs.Prs, cfg.Github.PrefetchPrDetails)
	if len(refs) > 0 {
		h.Send(engine.PrefetchPrDetails{Refs: refs, Reply: events})
	}
}

// detailRefs picks the first count PRs that carry enough repository
// information to fetch a detail for.
func detailRefs(prs []domain.PullRequest, count int) []domain.PrRef {
	if count <= 0 {
		return nil
	}
	var refs []domain.PrRef
	for _, pr := range prs {
		if len(refs) == count {
			break
		}
		if pr.Repo == nil {
			continue
		}
		refs = append(refs, domain.PrRef{
			Owner:         pr.Repo.Owner,
			Repo:          pr.Repo.Name,
			Number:        pr.Number,
			BaseRef:       pr.BaseRef,
			HeadRepoOwner: pr.HeadRepoOwner,
			HeadRef:       pr.HeadRef,
		})
	}
	return refs
}

// envelope is one stdout line.
type envelope struct {
	Type string       `json:"type"`
	Data engine.Event `json:"data"`
}

func eventName(ev engine.Event) string {
	switch ev.(type) {
	case engine.PrsFetched:
		return "prs"
	case engine.IssuesFetched:
		return "issues"
	case engine.NotificationsFetched:
		return "notifications"
	case engine.ActionsFetched:
		return "actions"
	case engine.PrDetailFetched:
		return "pr_detail"
	case engine.IssueDetailFetched:
		return "issue_detail"
	case engine.RepoLabelsFetched:
		return "repo_labels"
	case engine.RepoCollaboratorsFetched:
		return "repo_collaborators"
	case engine.FetchError:
		return "fetch_error"
	case engine.MutationOk:
		return "mutation_ok"
	case engine.MutationError:
		return "mutation_error"
	case engine.RateLimitUpdated:
		return "rate_limit"
	default:
		return "unknown"
	}
}
