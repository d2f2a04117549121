package domain

// ViewKind identifies which dashboard section a filter or refresh
// registration belongs to.
type ViewKind int

const (
	// ViewPrs is the pull request view.
	ViewPrs ViewKind = iota
	// ViewIssues is the issue view.
	ViewIssues
	// ViewNotifications is the notification inbox view.
	ViewNotifications
	// ViewActions is the CI workflow run view.
	ViewActions
)

// String returns the string representation of the view kind.
func (v ViewKind) String() string {
	switch v {
	case ViewPrs:
		return "prs"
	case ViewIssues:
		return "issues"
	case ViewNotifications:
		return "notifications"
	case ViewActions:
		return "actions"
	default:
		return "unknown"
	}
}

// FilterConfig is a named query driving one fetch. Each view kind has its
// own filter shape; the interface lets the refresh scheduler treat them
// uniformly.
type FilterConfig interface {
	// Kind returns the view this filter belongs to.
	Kind() ViewKind
}

// PrFilter configures one pull request query slot.
type PrFilter struct {
	// Title is the tab label shown by the UI.
	Title string `toml:"title"`

	// Filters is the forge search query, e.g. "is:open author:@me".
	Filters string `toml:"filters"`

	// Limit caps the result count. Zero means the default (100).
	Limit int `toml:"limit"`

	// Host overrides the forge host. Empty means github.com.
	Host string `toml:"host"`
}

// Kind implements FilterConfig.
func (PrFilter) Kind() ViewKind { return ViewPrs }

// IssueFilter configures one issue query slot.
type IssueFilter struct {
	Title   string `toml:"title"`
	Filters string `toml:"filters"`
	Limit   int    `toml:"limit"`
	Host    string `toml:"host"`
}

// Kind implements FilterConfig.
func (IssueFilter) Kind() ViewKind { return ViewIssues }

// NotificationFilter configures one notification query slot.
type NotificationFilter struct {
	Title   string `toml:"title"`
	Filters string `toml:"filters"`
	Limit   int    `toml:"limit"`
	Host    string `toml:"host"`
}

// Kind implements FilterConfig.
func (NotificationFilter) Kind() ViewKind { return ViewNotifications }

// ActionsFilter configures one workflow run query slot. Unlike the other
// filters it targets a single repository rather than a search query.
type ActionsFilter struct {
	Title string `toml:"title"`

	// Repo is the "owner/name" repository to fetch workflow runs for.
	Repo string `toml:"repo"`

	// Status narrows runs by the forge's status/conclusion query param,
	// e.g. "in_progress" or "failure". Empty fetches all.
	Status string `toml:"status"`

	Limit int    `toml:"limit"`
	Host  string `toml:"host"`
}

// Kind implements FilterConfig.
func (ActionsFilter) Kind() ViewKind { return ViewActions }

// Default result limits applied when a filter leaves Limit at zero.
const (
	DefaultSearchLimit       = 100
	DefaultNotificationLimit = 50
	DefaultActionsLimit      = 30
)

// DefaultHost is the forge host assumed when a filter does not name one.
const DefaultHost = "github.com"

// EffectiveHost returns host, or DefaultHost when host is empty.
func EffectiveHost(host string) string {
	if host == "" {
		return DefaultHost
	}
	return host
}

// EffectiveLimit returns limit, or fallback when limit is zero or negative.
func EffectiveLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}
