// Package badger provides BadgerDB-backed implementations of the storage
// repository interfaces. Concept vectors and mapping records are stored as
// MUS-encoded values under typed key prefixes.
package badger
