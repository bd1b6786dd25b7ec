// Package tasks orchestrates playlist curation runs with real-time progress reporting.
//
// # Core Operations
//
// The [CurationEngine] interface defines three operations:
//
//  1. [CurationEngine.Update] : Full refresh of one playlist
//     - Resolves the playlist config and its stored playlist ID
//     - Discovers candidates, scores them against the previous snapshot, filters, and allocates
//     - Publishes the selection with the strategy the logic type calls for
//     - Persists a snapshot (database row plus JSON and CSV files) and an audit record
//
//  2. [CurationEngine.Rollover] : Retire a playlist and start a new generation
//     - Optionally renames the outgoing playlist with a final suffix
//     - Creates the next generation and updates the stored mapping
//     - Seeds monthly and yearly playlists from the daily and weekly tops
//
//  3. [CurationEngine.EnsurePlaylists] : Bootstrap missing playlists
//     - Adopts playlists that already exist under the expected name
//     - Creates the rest and records every mapping
//
// # Progress Reporting
//
// All operations accept an optional channel for progress updates.
//
// The [ProgressUpdate] struct carries the phase, step counters, and a
// display message. Sends use select with default so a slow or absent
// consumer never blocks a run.
//
// # Run Records
//
// Every update attempt leaves a [models.RunRecord]: successes store the
// published track count, failures store the error message. Rollover and
// bootstrap failures propagate to the caller instead.
//
// # Implementation
//
// [Engine] implements [CurationEngine] with dependencies on:
//   - [services.Service] : streaming provider client
//   - [selector.Selector] : candidate discovery and the scoring pipeline
//   - repositories : snapshots, run records, and playlist mappings
package tasks
