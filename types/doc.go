// Package types contains the shared value types and interfaces used across the
// timeshard library.
//
// Keeping these definitions in a leaf package lets subpackages (planner,
// inventory, store, internal helpers) depend on them without importing the
// root timeshard package. The root package re-exports the common types via
// aliases, so most users never import types directly.
package types
