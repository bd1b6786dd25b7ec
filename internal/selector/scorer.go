package selector

import (
	"sort"
	"time"

	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/shared"
)

// Weights are the linear coefficients blended into a track's score. They
// are direct multipliers and are not required to sum to one.
type Weights struct {
	Popularity float64
	Delta      float64
	Recency    float64
}

// scoreBaseline is a fixed contribution standing in for audio-feature fit,
// which the pipeline does not model.
const scoreBaseline = 0.025

// WeightsFromConfig lifts configured scoring weights into the scorer's
// domain type. Zero values fall back to the stock blend.
func WeightsFromConfig(cfg shared.WeightsConfig) Weights {
	w := Weights{
		Popularity: cfg.Popularity,
		Delta:      cfg.PopularityDelta,
		Recency:    cfg.RecencyBoost,
	}
	if w.Popularity == 0 {
		w.Popularity = 0.55
	}
	if w.Delta == 0 {
		w.Delta = 0.30
	}
	if w.Recency == 0 {
		w.Recency = 0.10
	}
	return w
}

// weightsFor builds the blend for one cadence. Daily lists lean hardest on
// recency while yearly lists favor raw popularity; the delta weight always
// comes from configuration. A fresh value is returned on every call so no
// caller ever observes another period's overrides.
func weightsFor(period models.Period, configured Weights) Weights {
	w := configured
	switch period {
	case models.PeriodDaily:
		w.Popularity, w.Recency = 0.50, 0.20
	case models.PeriodWeekly:
		w.Popularity, w.Recency = 0.55, 0.15
	case models.PeriodMonthly:
		w.Popularity, w.Recency = 0.55, 0.10
	case models.PeriodYearly:
		w.Popularity, w.Recency = 0.60, 0.08
	}
	return w
}

// recencyBoost steps a fixed bonus for tracks released within the period's
// horizon. Missing or partial release dates earn nothing.
func recencyBoost(track models.Track, period models.Period, now time.Time) float64 {
	age, ok := track.AgeDays(now)
	if !ok {
		return 0
	}
	switch {
	case period == models.PeriodDaily && age <= 1:
		return 0.15
	case period == models.PeriodWeekly && age <= 7:
		return 0.12
	case period == models.PeriodMonthly && age <= 30:
		return 0.10
	case period == models.PeriodYearly && age <= 365:
		return 0.08
	}
	return 0
}

// Score assigns a desirability score to every track and returns a new
// slice in the input order; sorting is a separate step.
//
// The score blends three signals under the period's weight profile:
// normalized popularity, the signed popularity change against the same
// track in the previous snapshot, and a recency step bonus.
func Score(tracks []models.Track, previous *models.Snapshot, period models.Period, weights Weights, now time.Time) []models.Track {
	if len(tracks) == 0 {
		return nil
	}

	w := weightsFor(period, weights)
	scored := make([]models.Track, len(tracks))
	for i, track := range tracks {
		popularity := float64(track.Popularity) / 100.0

		delta := 0.0
		if prev, ok := previous.FindTrack(track.ID); ok {
			delta = popularity - float64(prev.Popularity)/100.0
		}

		recency := recencyBoost(track, period, now)

		track.Score = w.Popularity*popularity + w.Delta*delta + w.Recency*recency + scoreBaseline
		scored[i] = track
	}
	return scored
}

// SortByScore returns the tracks ordered by descending score. The sort is
// stable: equal scores keep their input order.
func SortByScore(tracks []models.Track) []models.Track {
	if len(tracks) == 0 {
		return nil
	}
	sorted := make([]models.Track, len(tracks))
	copy(sorted, tracks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}
