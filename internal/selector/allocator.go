package selector

import "github.com/desertthunder/spincycle/internal/models"

// fallbackGenre buckets tracks that carry no genre attribution.
const fallbackGenre = "Other"

// Allocate bounds a scored selection to targetSize while spreading
// representation across genre buckets.
//
// With a diversity floor (floorPct > 0) every bucket contributes up to
// max(1, targetSize*floorPct/100) tracks before ranking applies. Without
// one the slots split evenly across buckets and any remaining room is
// topped up with the highest scoring leftovers. Both policies finish with
// a stable descending sort and a hard truncation: the size bound always
// holds, genre coverage is best effort.
func Allocate(tracks []models.Track, targetSize int, floorPct int) []models.Track {
	if len(tracks) == 0 || targetSize <= 0 {
		return nil
	}

	buckets, order := bucketByGenre(tracks)

	var allocated []models.Track
	if floorPct > 0 {
		allocated = allocateWithFloor(buckets, order, targetSize, floorPct)
	} else {
		allocated = allocateEvenly(tracks, buckets, order, targetSize)
	}

	allocated = SortByScore(allocated)
	if len(allocated) > targetSize {
		allocated = allocated[:targetSize]
	}
	return allocated
}

// bucketByGenre groups tracks by genre in first-seen order so allocation
// is deterministic for a given input ordering.
func bucketByGenre(tracks []models.Track) (map[string][]models.Track, []string) {
	buckets := make(map[string][]models.Track)
	order := make([]string, 0)
	for _, track := range tracks {
		genre := track.Genre
		if genre == "" {
			genre = fallbackGenre
		}
		if _, ok := buckets[genre]; !ok {
			order = append(order, genre)
		}
		buckets[genre] = append(buckets[genre], track)
	}
	return buckets, order
}

// allocateWithFloor guarantees each bucket its floor before the final
// ranking. Buckets with fewer tracks than the floor contribute what they
// have.
func allocateWithFloor(buckets map[string][]models.Track, order []string, targetSize, floorPct int) []models.Track {
	floor := max(1, targetSize*floorPct/100)
	var allocated []models.Track
	for _, genre := range order {
		bucket := buckets[genre]
		allocated = append(allocated, bucket[:min(floor, len(bucket))]...)
	}
	return allocated
}

// allocateEvenly splits the target across buckets and fills leftover room
// with the best remaining tracks. When supply fits the target it returns
// everything.
func allocateEvenly(tracks []models.Track, buckets map[string][]models.Track, order []string, targetSize int) []models.Track {
	if len(tracks) <= targetSize {
		return tracks
	}

	perGenre := max(1, targetSize/len(order))
	allocated := make([]models.Track, 0, targetSize)
	var leftovers []models.Track
	for _, genre := range order {
		bucket := buckets[genre]
		take := min(perGenre, len(bucket))
		allocated = append(allocated, bucket[:take]...)
		leftovers = append(leftovers, bucket[take:]...)
	}

	if room := targetSize - len(allocated); room > 0 && len(leftovers) > 0 {
		leftovers = SortByScore(leftovers)
		allocated = append(allocated, leftovers[:min(room, len(leftovers))]...)
	}
	return allocated
}
