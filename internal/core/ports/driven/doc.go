// Package driven defines the outbound ports of the forgedash core.
// The engine depends on these interfaces only; the production
// implementation lives in internal/connectors/github and tests
// substitute scripted stubs.
package driven
