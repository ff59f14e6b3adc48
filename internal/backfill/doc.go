// Package backfill implements the bounded-concurrency historical ingestion
// pipeline.
//
// A fixed pool of workers pulls pending item ids from a shared channel and
// drives each through fetch, normalize, and persist before sleeping a fixed
// rate-limit delay. Results flow back over a completion channel in whatever
// order items finish; the orchestrator aggregates counters and emits progress
// and ETA telemetry. No item's success depends on another's.
package backfill
