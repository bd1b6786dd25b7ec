package tasks

import (
	"fmt"

	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/services"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within the operation
	Total   int    // Total steps in this operation
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced consumers
}

// Operation phase enumeration
type Phase int

const (
	Discover Phase = iota
	Score
	Filter
	Allocate
	Publish
	Snapshot
	RenamePlaylist
	CreatePlaylist
	SeedPlaylist
)

func (p Phase) String() string {
	switch p {
	case Discover:
		return "discover"
	case Score:
		return "score"
	case Filter:
		return "filter"
	case Allocate:
		return "allocate"
	case Publish:
		return "publish"
	case Snapshot:
		return "snapshot"
	case RenamePlaylist:
		return "rename_playlist"
	case CreatePlaylist:
		return "create_playlist"
	case SeedPlaylist:
		return "seed_playlist"
	default:
		return ""
	}
}

func discoveringUpdate(step, total int, logic models.LogicType) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Discover,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Discovering candidates (%s)...", logic),
	}
}

func scoringUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Score,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Scoring %d candidates...", count),
	}
}

func filteringUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Filter,
		Step:    step,
		Total:   total,
		Message: "Applying filters...",
	}
}

func allocatingUpdate(step, total, target int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Allocate,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Allocating %d slots across genres...", target),
	}
}

func publishingUpdate(step, total int, strategy string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Publish,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Publishing selection (%s)...", strategy),
	}
}

func emptySelectionUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Publish,
		Step:    step,
		Total:   total,
		Message: "No tracks selected, leaving playlist untouched",
	}
}

func snapshottingUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Snapshot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Saving snapshot (%d tracks)...", count),
	}
}

func renamingUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RenamePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Renaming final playlist: %s", name),
	}
}

func creatingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Creating playlist: %s", name),
	}
}

func createdPlaylistUpdate(step, total int, pl *services.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func seedingUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Seeding with %d tracks...", count),
	}
}
