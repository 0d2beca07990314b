// package tasks implements long-running catalog operations.
//
// The core abstraction is CatalogEngine, which orchestrates archive uploads,
// full catalog snapshots, and thumbnail prefetching. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks
