// Package adapter implements the snapshot sources the dashboard polls.
//
// A Fetcher returns the raw bytes of the current snapshot and nothing else;
// change detection and parsing belong to the poller. Every failure is wrapped
// in domain.ErrFetchFailure so callers can tell transport problems apart from
// malformed payloads.
//
// # Sources
//
// HTTPFetcher issues a GET against the configured endpoint URL and path (the
// "data" path by default). Non-2xx answers are failures.
//
// FileFetcher re-reads a file from disk, which is handy for replaying a
// captured payload without running a data server.
package adapter
