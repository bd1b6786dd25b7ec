package selector

import "github.com/desertthunder/spincycle/internal/models"

// FilterByPopularity keeps tracks at or above the popularity floor. A
// floor of zero or less keeps everything.
func FilterByPopularity(tracks []models.Track, minPopularity int) []models.Track {
	if minPopularity <= 0 {
		return tracks
	}
	kept := make([]models.Track, 0, len(tracks))
	for _, track := range tracks {
		if track.Popularity >= minPopularity {
			kept = append(kept, track)
		}
	}
	return kept
}

// FilterExplicit drops explicit tracks unless the policy allows them.
func FilterExplicit(tracks []models.Track, allowExplicit bool) []models.Track {
	if allowExplicit {
		return tracks
	}
	kept := make([]models.Track, 0, len(tracks))
	for _, track := range tracks {
		if !track.Explicit {
			kept = append(kept, track)
		}
	}
	return kept
}

// CapPerArtist limits how many tracks one primary artist contributes,
// keeping earlier entries. Run it after sorting so each artist retains
// their highest scoring tracks. A limit of zero or less means no cap.
func CapPerArtist(tracks []models.Track, limit int) []models.Track {
	if limit <= 0 {
		return tracks
	}
	counts := make(map[string]int)
	kept := make([]models.Track, 0, len(tracks))
	for _, track := range tracks {
		key := track.PrimaryArtistKey()
		if counts[key] >= limit {
			continue
		}
		counts[key]++
		kept = append(kept, track)
	}
	return kept
}

// ExcludeExisting removes candidates whose identifier is already present
// in the playlist. Any match excludes; there is no freshness window.
func ExcludeExisting(tracks []models.Track, existing map[string]struct{}) []models.Track {
	if len(existing) == 0 {
		return tracks
	}
	kept := make([]models.Track, 0, len(tracks))
	for _, track := range tracks {
		if _, ok := existing[track.ID]; ok {
			continue
		}
		kept = append(kept, track)
	}
	return kept
}

// DedupeByID removes repeated identifiers within the candidate list,
// keeping the first occurrence. Tracks without an identifier are dropped.
func DedupeByID(tracks []models.Track) []models.Track {
	seen := make(map[string]struct{}, len(tracks))
	kept := make([]models.Track, 0, len(tracks))
	for _, track := range tracks {
		if track.ID == "" {
			continue
		}
		if _, ok := seen[track.ID]; ok {
			continue
		}
		seen[track.ID] = struct{}{}
		kept = append(kept, track)
	}
	return kept
}
