// Package feed holds the paginated user feed: the accumulator state machine
// that gathers pages from a Source, and the pure projection that filters and
// sorts the accumulated records for display.
//
// The accumulator allows a single outstanding fetch. Calls made while a fetch
// is in flight are ignored, fetches after exhaustion or failure are ignored,
// and Reset supersedes any in-flight fetch by bumping an epoch so the late
// result is dropped instead of merged.
//
// Project is a pure function; Memo wraps it so callers that re-render often
// only pay for a recomputation when the records, filter, sort key or
// exclusion set actually changed.
package feed
