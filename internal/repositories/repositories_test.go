package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testTracks(ids ...string) []models.Track {
	tracks := make([]models.Track, len(ids))
	for i, id := range ids {
		tracks[i] = models.Track{ID: id, Title: "Track " + id, Popularity: 50 + i}
	}
	return tracks
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "runs")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}

	// tables advance independently
	got, err := NextSequence(db, "snapshots")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	if got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func TestSnapshotRepository(t *testing.T) {
	taken := time.Date(2024, 6, 15, 6, 0, 0, 0, time.UTC)

	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		snapshot := models.NewSnapshot("daily", testTracks("t1", "t2"), taken)

		if err := repo.Create(&snapshot); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}

		if snapshot.ID == "" {
			t.Error("snapshot ID should be set after creation")
		}
		if snapshot.Seq != 1 {
			t.Errorf("seq: got %d, want 1", snapshot.Seq)
		}
	})

	t.Run("CreateRejectsInvalid", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		snapshot := models.Snapshot{TakenAt: taken, Tracks: testTracks("t1")}

		if err := repo.Create(&snapshot); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("LatestAbsent", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		snapshot, err := repo.Latest("daily")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snapshot != nil {
			t.Errorf("got %+v, want nil", snapshot)
		}
	})

	t.Run("LatestRoundTrip", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		first := models.NewSnapshot("daily", testTracks("t1", "t2"), taken)
		second := models.NewSnapshot("daily", testTracks("t3", "t4", "t5"), taken.Add(time.Hour))

		if err := repo.Create(&first); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}
		if err := repo.Create(&second); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}

		latest, err := repo.Latest("daily")
		if err != nil {
			t.Fatalf("failed to get latest: %v", err)
		}
		if latest == nil {
			t.Fatal("expected a snapshot")
		}

		if latest.TrackCount != 3 {
			t.Errorf("track count: got %d, want 3", latest.TrackCount)
		}
		want := []string{"t3", "t4", "t5"}
		for i, id := range want {
			if latest.Tracks[i].ID != id {
				t.Errorf("track %d: got %s, want %s", i, latest.Tracks[i].ID, id)
			}
		}
		if !latest.TakenAt.Equal(second.TakenAt) {
			t.Errorf("taken at: got %v, want %v", latest.TakenAt, second.TakenAt)
		}
	})

	t.Run("LatestBreaksTimestampTiesByInsertion", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		first := models.NewSnapshot("daily", testTracks("t1"), taken)
		second := models.NewSnapshot("daily", testTracks("t2"), taken)

		if err := repo.Create(&first); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}
		if err := repo.Create(&second); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}

		latest, err := repo.Latest("daily")
		if err != nil {
			t.Fatalf("failed to get latest: %v", err)
		}
		if latest.Tracks[0].ID != "t2" {
			t.Errorf("got %s, want the later insert t2", latest.Tracks[0].ID)
		}
	})

	t.Run("LatestScopedToType", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		daily := models.NewSnapshot("daily", testTracks("t1"), taken)
		weekly := models.NewSnapshot("weekly", testTracks("t2"), taken.Add(time.Hour))

		if err := repo.Create(&daily); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}
		if err := repo.Create(&weekly); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}

		latest, err := repo.Latest("daily")
		if err != nil {
			t.Fatalf("failed to get latest: %v", err)
		}
		if latest.Tracks[0].ID != "t1" {
			t.Errorf("got %s, want t1", latest.Tracks[0].ID)
		}
	})

	t.Run("ListByType", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		for i := range 3 {
			snapshot := models.NewSnapshot("daily", testTracks("t1"), taken.Add(time.Duration(i)*time.Hour))
			if err := repo.Create(&snapshot); err != nil {
				t.Fatalf("failed to create snapshot: %v", err)
			}
		}

		all, err := repo.ListByType("daily", 0)
		if err != nil {
			t.Fatalf("failed to list snapshots: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("got %d snapshots, want 3", len(all))
		}
		if !all[0].TakenAt.After(all[1].TakenAt) || !all[1].TakenAt.After(all[2].TakenAt) {
			t.Error("snapshots should be newest first")
		}

		limited, err := repo.ListByType("daily", 2)
		if err != nil {
			t.Fatalf("failed to list snapshots: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("got %d snapshots, want 2", len(limited))
		}
	})

	t.Run("Count", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSnapshotRepository(db)
		count, err := repo.Count("daily")
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 0 {
			t.Errorf("got %d, want 0", count)
		}

		snapshot := models.NewSnapshot("daily", testTracks("t1"), taken)
		if err := repo.Create(&snapshot); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}

		count, err = repo.Count("daily")
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("got %d, want 1", count)
		}
	})
}

func TestRunRepository(t *testing.T) {
	ran := time.Date(2024, 6, 15, 6, 0, 0, 0, time.UTC)

	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		record := models.RunRecord{PlaylistType: "daily", RanAt: ran, TrackCount: 50, Success: true}

		if err := repo.Create(&record); err != nil {
			t.Fatalf("failed to create run record: %v", err)
		}
		if record.ID == "" {
			t.Error("record ID should be set after creation")
		}
	})

	t.Run("CreateRejectsInvalid", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		record := models.RunRecord{RanAt: ran}

		if err := repo.Create(&record); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("ListByType", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)
		records := []models.RunRecord{
			{PlaylistType: "daily", RanAt: ran, TrackCount: 50, Success: true},
			{PlaylistType: "daily", RanAt: ran.Add(time.Hour), TrackCount: 0, Success: false, ErrorMessage: "service down"},
			{PlaylistType: "weekly", RanAt: ran, TrackCount: 75, Success: true},
		}
		for i := range records {
			if err := repo.Create(&records[i]); err != nil {
				t.Fatalf("failed to create run record: %v", err)
			}
		}

		daily, err := repo.ListByType("daily", 10)
		if err != nil {
			t.Fatalf("failed to list run records: %v", err)
		}
		if len(daily) != 2 {
			t.Fatalf("got %d records, want 2", len(daily))
		}

		// newest first, failure details intact
		if daily[0].Success {
			t.Error("newest record should be the failure")
		}
		if daily[0].ErrorMessage != "service down" {
			t.Errorf("error message: got %q", daily[0].ErrorMessage)
		}
		if daily[1].TrackCount != 50 {
			t.Errorf("track count: got %d, want 50", daily[1].TrackCount)
		}

		limited, err := repo.ListByType("daily", 1)
		if err != nil {
			t.Fatalf("failed to list run records: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("got %d records, want 1", len(limited))
		}
	})

	t.Run("Stats", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewRunRepository(db)

		empty, err := repo.Stats("daily")
		if err != nil {
			t.Fatalf("failed to aggregate stats: %v", err)
		}
		if empty.Total != 0 || empty.Successful != 0 || empty.Failed != 0 {
			t.Errorf("got %+v, want zeroes", empty)
		}

		outcomes := []bool{true, true, false}
		for _, success := range outcomes {
			record := models.RunRecord{PlaylistType: "daily", RanAt: ran, Success: success}
			if err := repo.Create(&record); err != nil {
				t.Fatalf("failed to create run record: %v", err)
			}
		}

		stats, err := repo.Stats("daily")
		if err != nil {
			t.Fatalf("failed to aggregate stats: %v", err)
		}
		if stats.Total != 3 || stats.Successful != 2 || stats.Failed != 1 {
			t.Errorf("got %+v, want 3/2/1", stats)
		}
	})
}

func TestMappingRepository(t *testing.T) {
	t.Run("GetAbsent", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMappingRepository(db)
		id, err := repo.Get("daily")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "" {
			t.Errorf("got %q, want empty", id)
		}
	})

	t.Run("SetAndGet", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMappingRepository(db)
		if err := repo.Set("daily", "spotify123"); err != nil {
			t.Fatalf("failed to set mapping: %v", err)
		}

		id, err := repo.Get("daily")
		if err != nil {
			t.Fatalf("failed to get mapping: %v", err)
		}
		if id != "spotify123" {
			t.Errorf("got %q, want spotify123", id)
		}
	})

	t.Run("SetReplacesExisting", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMappingRepository(db)
		if err := repo.Set("monthly", "old-playlist"); err != nil {
			t.Fatalf("failed to set mapping: %v", err)
		}
		if err := repo.Set("monthly", "new-playlist"); err != nil {
			t.Fatalf("failed to replace mapping: %v", err)
		}

		id, err := repo.Get("monthly")
		if err != nil {
			t.Fatalf("failed to get mapping: %v", err)
		}
		if id != "new-playlist" {
			t.Errorf("got %q, want new-playlist", id)
		}
	})

	t.Run("All", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMappingRepository(db)
		want := map[string]string{
			"daily":  "d1",
			"weekly": "w1",
		}
		for playlistType, id := range want {
			if err := repo.Set(playlistType, id); err != nil {
				t.Fatalf("failed to set mapping: %v", err)
			}
		}

		all, err := repo.All()
		if err != nil {
			t.Fatalf("failed to list mappings: %v", err)
		}
		if len(all) != len(want) {
			t.Fatalf("got %d mappings, want %d", len(all), len(want))
		}
		for playlistType, id := range want {
			if all[playlistType] != id {
				t.Errorf("%s: got %q, want %q", playlistType, all[playlistType], id)
			}
		}
	})
}
