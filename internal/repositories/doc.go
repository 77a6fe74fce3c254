// package repositories provides the persistence layer for curation history.
//
// The events table is append-only: the monitor records one row per curation
// decision and nothing ever updates or deletes rows.
package repositories
