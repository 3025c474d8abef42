// Package indexer builds the persisted embedding index over the local
// vocabulary. It is an offline batch step run ahead of query serving:
// concepts are embedded in batches through a worker pool and the resulting
// unit-normalized vectors are written to the vector repository. Rebuilding
// while serving queries is not supported.
package indexer
