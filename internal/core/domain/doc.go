// Package domain contains the core business types for forgedash.
// Domain types have no dependencies on connectors, adapters, or the engine;
// they are plain data shared across all layers.
package domain
