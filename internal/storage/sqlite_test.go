package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveScore("sumblocks", 420, 1); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	if err := store.SaveHighScore("sumblocks", 420); err != nil {
		t.Fatalf("SaveHighScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	best, ok, err := store.LoadHighScore("sumblocks")
	if err != nil || !ok || best != 420 {
		t.Errorf("LoadHighScore() = %d, %v, %v; want 420, true, nil", best, ok, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	saves := []struct {
		game  string
		score int
		level int
	}{
		{"sumblocks", 100, 1},
		{"sumblocks", 50, 1},
		{"sumblocks", 2200, 3},
		{"sumblocks_time", 500, 1},
	}
	for _, s := range saves {
		if _, err := store.SaveScore(s.game, s.score, s.level); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("sumblocks", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	want := []int{2200, 100, 50}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
	}
	if scores[0].Level != 3 {
		t.Errorf("Expected level 3 for best game, got %d", scores[0].Level)
	}
	if scores[0].GameID != "sumblocks" {
		t.Errorf("GameID = %q", scores[0].GameID)
	}

	timeScores, err := store.TopScores("sumblocks_time", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(timeScores) != 1 {
		t.Errorf("Expected 1 time mode score, got %d", len(timeScores))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100, 1)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	// Non-positive limit falls back to 10
	all, err := store.TopScores("test", 0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Expected 5 scores with default limit, got %d", len(all))
	}
}

func TestStoreBestScore(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.LoadHighScore("sumblocks"); err != nil || ok {
		t.Fatalf("LoadHighScore() on empty store = ok %v, err %v", ok, err)
	}

	tests := []struct {
		save int
		want int
	}{
		{300, 300},
		{200, 300}, // never lowers
		{300, 300},
		{450, 450},
	}
	for _, tt := range tests {
		if err := store.SaveHighScore("sumblocks", tt.save); err != nil {
			t.Fatalf("SaveHighScore(%d) failed: %v", tt.save, err)
		}
		got, ok, err := store.LoadHighScore("sumblocks")
		if err != nil || !ok {
			t.Fatalf("LoadHighScore() ok %v, err %v", ok, err)
		}
		if got != tt.want {
			t.Errorf("after saving %d: best = %d, want %d", tt.save, got, tt.want)
		}
	}

	// Modes are kept apart
	if _, ok, _ := store.LoadHighScore("sumblocks_time"); ok {
		t.Error("time mode should have no best score")
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("sumblocks")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("sumblocks", 100, 1)
	store.SaveScore("sumblocks", 300, 1)
	store.SaveScore("sumblocks", 200, 1)

	high, err = store.HighScore("sumblocks")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	// A best saved mid-game counts even without a finished game
	store.SaveHighScore("sumblocks", 900)
	high, _ = store.HighScore("sumblocks")
	if high != 900 {
		t.Errorf("Expected high score of 900, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("sumblocks", 100, 1)
	store.SaveScore("sumblocks", 200, 1)
	store.SaveHighScore("sumblocks", 200)
	store.SaveScore("sumblocks_time", 300, 1)

	if err := store.ClearScores("sumblocks"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	classic, _ := store.TopScores("sumblocks", 10)
	if len(classic) != 0 {
		t.Errorf("Expected 0 classic scores after clear, got %d", len(classic))
	}
	if _, ok, _ := store.LoadHighScore("sumblocks"); ok {
		t.Error("best score should be cleared")
	}

	timed, _ := store.TopScores("sumblocks_time", 10)
	if len(timed) != 1 {
		t.Errorf("time mode scores should not be affected by clearing classic")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("sumblocks")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected stats for empty game: %+v", empty)
	}

	store.SaveScore("sumblocks", 100, 1)
	store.SaveScore("sumblocks", 1300, 2)

	stats, err := store.GetGameStats("sumblocks")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 {
		t.Errorf("GamesCount = %d, want 2", stats.GamesCount)
	}
	if stats.HighScore != 1300 {
		t.Errorf("HighScore = %d, want 1300", stats.HighScore)
	}
	if stats.BestLevel != 2 {
		t.Errorf("BestLevel = %d, want 2", stats.BestLevel)
	}
	if stats.AvgScore != 700 {
		t.Errorf("AvgScore = %v, want 700", stats.AvgScore)
	}
	if stats.TotalScore != 1400 {
		t.Errorf("TotalScore = %d, want 1400", stats.TotalScore)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
