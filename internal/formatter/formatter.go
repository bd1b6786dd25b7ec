// package formatter converts playlist snapshots to exportable formats (JSON, CSV) and computes playlist analytics
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/shared"
)

// timestamp layout used in snapshot filenames
const fileStampLayout = "20060102_150405"

// SnapshotJSON converts a snapshot to indented JSON with its full track payload.
func SnapshotJSON(snapshot *models.Snapshot) ([]byte, error) {
	return shared.MarshalJSON(snapshot, true)
}

// SnapshotCSV converts a snapshot's tracks to CSV format with columns:
// ID, Title, Artists, Album, ReleaseDate, Popularity, Explicit, Genre, Score
func SnapshotCSV(snapshot *models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artists", "Album", "ReleaseDate", "Popularity", "Explicit", "Genre", "Score"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range snapshot.Tracks {
		names := make([]string, len(track.Artists))
		for i, artist := range track.Artists {
			names[i] = artist.Name
		}

		record := []string{
			track.ID,
			track.Title,
			strings.Join(names, "; "),
			track.Album,
			track.ReleaseDate,
			strconv.Itoa(track.Popularity),
			strconv.FormatBool(track.Explicit),
			track.Genre,
			strconv.FormatFloat(track.Score, 'f', 4, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SnapshotExportResult contains the paths of files created by WriteSnapshotFiles
type SnapshotExportResult struct {
	JSONFile string
	CSVFile  string
}

// WriteSnapshotFiles saves a snapshot under dir as a JSON and a CSV file.
//
// Files are named {playlist_type}_{timestamp}.json and {playlist_type}_{timestamp}.csv
// so successive runs never overwrite each other.
func WriteSnapshotFiles(snapshot *models.Snapshot, dir string) (*SnapshotExportResult, error) {
	if err := shared.EnsureDir(dir); err != nil {
		return nil, err
	}

	base := fmt.Sprintf("%s_%s", snapshot.PlaylistType, snapshot.TakenAt.Format(fileStampLayout))

	jsonData, err := SnapshotJSON(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to generate snapshot JSON: %w", err)
	}
	jsonFile := filepath.Join(dir, base+".json")
	if err := os.WriteFile(jsonFile, jsonData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write JSON file: %w", err)
	}

	csvData, err := SnapshotCSV(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to generate snapshot CSV: %w", err)
	}
	csvFile := filepath.Join(dir, base+".csv")
	if err := os.WriteFile(csvFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	return &SnapshotExportResult{JSONFile: jsonFile, CSVFile: csvFile}, nil
}

// ArtistCount pairs an artist name with how many tracks credit them.
type ArtistCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ArtistDiversity returns the ratio of distinct artist names to track count,
// counting every credited artist. Returns zero for an empty track list.
func ArtistDiversity(tracks []models.Track) float64 {
	if len(tracks) == 0 {
		return 0
	}

	names := make(map[string]struct{})
	for _, track := range tracks {
		for _, artist := range track.Artists {
			names[artist.Name] = struct{}{}
		}
	}
	return float64(len(names)) / float64(len(tracks))
}

// MostCommonArtists returns the most frequently credited artists in
// descending order. Equal counts keep first-seen order. A limit of zero or
// less returns the full ranking.
func MostCommonArtists(tracks []models.Track, limit int) []ArtistCount {
	counts := make(map[string]int)
	var order []string
	for _, track := range tracks {
		for _, artist := range track.Artists {
			if _, seen := counts[artist.Name]; !seen {
				order = append(order, artist.Name)
			}
			counts[artist.Name]++
		}
	}

	ranked := make([]ArtistCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, ArtistCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
