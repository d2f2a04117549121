package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/forgedash/internal/core/domain"
)

// ConfigFileName is the dashboard config file name.
const ConfigFileName = "config.toml"

// fileSchema is the on-disk TOML layout. Filter lists live under
// per-view tables so the file reads as
//
//	[github]
//	refetch_interval_minutes = 10
//
//	[[prs.filters]]
//	title = "My PRs"
//	filters = "is:open author:@me"
type fileSchema struct {
	Github domain.GithubConfig `toml:"github"`
	Prs    struct {
		Filters []domain.PrFilter `toml:"filters"`
	} `toml:"prs"`
	Issues struct {
		Filters []domain.IssueFilter `toml:"filters"`
	} `toml:"issues"`
	Notifications struct {
		Filters []domain.NotificationFilter `toml:"filters"`
	} `toml:"notifications"`
	Actions struct {
		Filters []domain.ActionsFilter `toml:"filters"`
	} `toml:"actions"`
}

// ConfigStore loads dashboard configuration from a TOML file.
type ConfigStore struct {
	filePath string
}

// NewConfigStore creates a config store rooted at configDir. If configDir
// is empty it defaults to ~/.config/forgedash.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(base, "forgedash")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, ConfigFileName),
	}, nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Load reads and decodes the config file. A missing file yields the
// default dashboard rather than an error, so first runs work untouched.
func (s *ConfigStore) Load() (domain.DashboardConfig, error) {
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return DefaultDashboardConfig(), nil
	}
	if err != nil {
		return domain.DashboardConfig{}, fmt.Errorf("read config: %w", err)
	}

	var schema fileSchema
	if err := toml.Unmarshal(data, &schema); err != nil {
		return domain.DashboardConfig{}, fmt.Errorf("parse %s: %w", s.filePath, err)
	}

	cfg := domain.DashboardConfig{
		Github:        schema.Github,
		Prs:           schema.Prs.Filters,
		Issues:        schema.Issues.Filters,
		Notifications: schema.Notifications.Filters,
		Actions:       schema.Actions.Filters,
	}
	if len(cfg.Prs) == 0 && len(cfg.Issues) == 0 && len(cfg.Notifications) == 0 && len(cfg.Actions) == 0 {
		defaults := DefaultDashboardConfig()
		cfg.Prs = defaults.Prs
		cfg.Issues = defaults.Issues
		cfg.Notifications = defaults.Notifications
	}
	return cfg, nil
}

// DefaultDashboardConfig is the dashboard shown when no config file
// exists: the user's own PRs and review requests, their issues, and the
// unread inbox.
func DefaultDashboardConfig() domain.DashboardConfig {
	return domain.DashboardConfig{
		Prs: []domain.PrFilter{
			{Title: "My Pull Requests", Filters: "is:open author:@me"},
			{Title: "Needs My Review", Filters: "is:open review-requested:@me"},
			{Title: "Involved", Filters: "is:open involves:@me -author:@me"},
		},
		Issues: []domain.IssueFilter{
			{Title: "My Issues", Filters: "is:open author:@me"},
			{Title: "Assigned", Filters: "is:open assignee:@me"},
		},
		Notifications: []domain.NotificationFilter{
			{Title: "Inbox", Filters: ""},
		},
	}
}
