// Package github implements the forge port against the GitHub REST API
// using go-github. One Client per host, built lazily by the Forge; all
// calls pass through a dual-strategy rate limiter that throttles
// proactively and backs off on quota headers.
package github
