// Package models defines the domain entities for the playlist curation service.
//
// The package contains three categories of types:
//
// 1. Pipeline values: transient data flowing through track selection
//   - [Track] : A candidate track with scoring and filtering attributes
//   - [Artist] : Track credit, first entry is the primary artist
//   - [Album] : New-release entry that seeds discovery searches
//
// 2. Persistent entities: rows owned by the update engine
//   - [Snapshot] : Immutable record of one published selection
//   - [RunRecord] : Append-only audit record of one update attempt
//
// 3. Enumerations: closed sets driving pipeline decisions
//   - [LogicType] : Update strategy (replace, accumulate, fallback append)
//   - [Period] : Cadence tag driving recency weighting
package models
