// Package file provides the TOML-based dashboard configuration adapter.
// It loads the config file into domain.DashboardConfig and can watch the
// file for edits so a running dashboard picks up filter changes without
// a restart.
package file
