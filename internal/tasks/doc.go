// package tasks implements the playlist curation loop.
//
// The core abstraction is Monitor, which polls the station's now-playing
// source, detects song changes, resolves them against the catalog via
// Resolver, and maintains a duplicate-free playlist through Membership.
// Cycle outcomes are emitted as Events for logging and history recording.
package tasks
