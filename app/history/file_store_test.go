package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lysyi3m/post-redactor/app/posts"
)

var _ posts.ProcessedSet = (*FileStore)(nil)
var _ posts.ProcessedSet = (*MemoryStore)(nil)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := OpenFileStore(filepath.Join(t.TempDir(), "edited_posts.txt"))

	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}
	if store.Degraded() {
		t.Error("A missing file must not degrade the store")
	}
}

func TestFileStore_LoadsExistingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edited_posts.txt")
	content := "https://forum.test/a\n\n  https://forum.test/b  \nhttps://forum.test/a\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	store := OpenFileStore(path)

	if store.Len() != 2 {
		t.Errorf("Expected 2 unique URLs, got %d", store.Len())
	}
	if !store.Contains("https://forum.test/b") {
		t.Error("Expected trimmed URL to be loaded")
	}
}

func TestFileStore_AppendSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edited_posts.txt")

	store := OpenFileStore(path)
	for _, u := range []string{"https://forum.test/1", "https://forum.test/2", "https://forum.test/1"} {
		if err := store.Add(u); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "\n"); got != 2 {
		t.Errorf("Expected 2 lines on disk, got %d: %q", got, data)
	}

	reopened := OpenFileStore(path)
	if reopened.Len() != 2 || !reopened.Contains("https://forum.test/2") {
		t.Errorf("Expected reopened store to hold both URLs, got %d", reopened.Len())
	}
}

func TestFileStore_UnreadableFileDegrades(t *testing.T) {
	// A directory cannot be read line by line nor appended to.
	path := t.TempDir()

	store := OpenFileStore(path)

	if !store.LoadFailed() {
		t.Error("Expected load failure")
	}
	if store.Degraded() {
		t.Error("Expected store not degraded before any write")
	}

	err := store.Add("https://forum.test/1")
	if !errors.Is(err, posts.ErrStateIO) {
		t.Errorf("Expected ErrStateIO, got %v", err)
	}
	if !store.Degraded() {
		t.Error("Expected store degraded after a failed append")
	}
	if !store.Contains("https://forum.test/1") {
		t.Error("Expected URL to be kept in memory")
	}
}

func TestFileStore_LoadFailureStillSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edited_posts.txt")
	// A single line longer than the scanner buffer makes the read fail.
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 2*1024*1024)), 0644); err != nil {
		t.Fatal(err)
	}

	store := OpenFileStore(path)
	if !store.LoadFailed() {
		t.Fatal("Expected load failure")
	}

	if err := store.Add("https://forum.test/1"); err != nil {
		t.Fatalf("Expected append to succeed, got %v", err)
	}
	if store.Degraded() {
		t.Error("Expected store not degraded when appends succeed")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "x\nhttps://forum.test/1\n") {
		t.Error("Expected URL appended on its own line")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore("a")

	if !store.Contains("a") || store.Contains("b") {
		t.Error("Unexpected membership")
	}
	if err := store.Add("b"); err != nil {
		t.Fatal(err)
	}
	if err := store.Add("b"); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", store.Len())
	}
}

func TestFileStore_AppendAfterUnterminatedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edited_posts.txt")
	if err := os.WriteFile(path, []byte("https://forum.test/1"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := OpenFileStore(path).Add("https://forum.test/2"); err != nil {
		t.Fatal(err)
	}

	reopened := OpenFileStore(path)
	if reopened.Len() != 2 || !reopened.Contains("https://forum.test/1") || !reopened.Contains("https://forum.test/2") {
		t.Errorf("Expected both URLs on separate lines, got %d entries", reopened.Len())
	}
}
