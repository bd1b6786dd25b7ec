// Package repositories provides the persistence layer for curation state.
//
// Three repositories cover the update engine's needs:
//   - [SnapshotRepository] : append-only selection snapshots with
//     latest-by-type reads for popularity deltas
//   - [RunRepository] : append-only update audit log with per-type stats
//   - [MappingRepository] : the playlist type → external playlist id table
//
// Append-only tables pair with a single-row {table}_sequence counter that
// [NextSequence] increments transactionally per insert, giving stable
// insertion ordering even when timestamps collide.
package repositories
