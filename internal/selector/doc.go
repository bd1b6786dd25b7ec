// Package selector implements the track selection pipeline: candidate
// discovery, multi-factor scoring, predicate filtering, and genre-diversity
// allocation.
//
// # Discovery
//
// [Selector.Discover] queries the streaming catalog through the narrow
// [Catalog] interface. Each update logic casts a different net:
//
//   - previous_day : albums released exactly yesterday, plus two search
//     terms per genre bucket
//   - previous_week : albums released in the last seven days, three terms
//     per bucket
//   - month_to_date / year_to_date : albums since the period start, three
//     terms per bucket with wider search limits
//   - anything else : every current release, three terms per bucket
//
// Genre-term results are stamped with their bucket name so the allocator
// can spread the final selection across buckets.
//
// # Pure Stages
//
// Scoring, sorting, filtering, and allocation are pure functions over
// track slices. They never call out, never mutate their input, and
// tolerate empty input, so the update engine composes them in a fixed
// order and tests drive each stage in isolation:
//
//	tracks = selector.Score(tracks, previous, period, weights, now)
//	tracks = selector.SortByScore(tracks)
//	tracks = selector.FilterByPopularity(tracks, cfg.MinPopularity)
//	tracks = selector.FilterExplicit(tracks, cfg.AllowExplicit)
//	tracks = selector.CapPerArtist(tracks, playlist.ArtistCap)
//	tracks = selector.ExcludeExisting(tracks, existingIDs)
//	tracks = selector.DedupeByID(tracks)
//	tracks = selector.Allocate(tracks, playlist.Size, playlist.DiversityFloorPct)
package selector
