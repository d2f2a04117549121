package domain

import "time"

// EngineConfig is the configuration value the engine is constructed from.
// The engine reads no files, flags, or environment variables; everything
// flows in here.
type EngineConfig struct {
	// RefetchInterval is how often registered background refreshes fire.
	// It doubles as the result cache TTL.
	RefetchInterval time.Duration

	// PollInterval is how often the engine checks the scheduler for due
	// entries. Zero means DefaultPollInterval.
	PollInterval time.Duration
}

// DefaultPollInterval is the scheduler check cadence when unset.
const DefaultPollInterval = 30 * time.Second

// MinRefetchInterval is the floor for the refresh interval; anything
// shorter would hammer the API for no benefit.
const MinRefetchInterval = time.Minute

// DefaultEngineConfig returns the engine defaults: refresh every 10
// minutes, poll the scheduler every 30 seconds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		RefetchInterval: 10 * time.Minute,
		PollInterval:    DefaultPollInterval,
	}
}

// Normalised returns a copy with zero values filled in and the refetch
// interval clamped to MinRefetchInterval.
func (c EngineConfig) Normalised() EngineConfig {
	out := c
	if out.RefetchInterval < MinRefetchInterval {
		out.RefetchInterval = MinRefetchInterval
	}
	if out.PollInterval <= 0 {
		out.PollInterval = DefaultPollInterval
	}
	return out
}

// GithubConfig is the [github] section of the dashboard config file.
type GithubConfig struct {
	// RefetchIntervalMinutes drives both the background refresh cadence
	// and the result cache TTL.
	RefetchIntervalMinutes int `toml:"refetch_interval_minutes"`

	// PrefetchPrDetails is how many PR details to prefetch after a list
	// loads. Zero means on-demand only.
	PrefetchPrDetails int `toml:"prefetch_pr_details"`
}

// DashboardConfig is the full dashboard configuration: the engine settings
// plus the per-view filter lists the UI registers with the engine.
type DashboardConfig struct {
	Github        GithubConfig         `toml:"github"`
	Prs           []PrFilter           `toml:"-"`
	Issues        []IssueFilter        `toml:"-"`
	Notifications []NotificationFilter `toml:"-"`
	Actions       []ActionsFilter      `toml:"-"`
}

// EngineConfig derives the engine construction value from the file config.
func (c DashboardConfig) EngineConfig() EngineConfig {
	cfg := DefaultEngineConfig()
	if c.Github.RefetchIntervalMinutes > 0 {
		cfg.RefetchInterval = time.Duration(c.Github.RefetchIntervalMinutes) * time.Minute
	}
	return cfg.Normalised()
}
