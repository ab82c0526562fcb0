package vraseniors

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeContent(t *testing.T, path, doc string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestContentCacheReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.json")
	writeContent(t, path, testContent)

	c, err := NewContentCache(path, nil)
	if err != nil {
		t.Fatalf("NewContentCache: %v", err)
	}
	if n := c.Repository().Len(); n != 5 {
		t.Fatalf("loaded %d items, want 5", n)
	}

	writeContent(t, path, `[{"page": "home", "title": "Home"}, {"page": "home", "title": "Again"}]`)
	if err := c.Reload(); err == nil {
		t.Fatal("expected duplicate page error")
	}
	if n := c.Repository().Len(); n != 5 {
		t.Errorf("failed reload replaced the repository: %d items", n)
	}

	writeContent(t, path, `[{"page": "home", "title": "Home"}]`)
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n := c.Repository().Len(); n != 1 {
		t.Errorf("reloaded %d items, want 1", n)
	}
}

func TestContentCacheMissingFile(t *testing.T) {
	if _, err := NewContentCache(filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Fatal("expected error for a missing document")
	}
}

func TestContentCacheWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")
	writeContent(t, path, testContent)

	c, err := NewContentCache(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeContent(t, filepath.Join(dir, "other.json"), `[]`)
	writeContent(t, path, `[{"page": "home", "title": "Home"}]`)

	deadline := time.Now().Add(5 * time.Second)
	for c.Repository().Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("content not reloaded; still %d items", c.Repository().Len())
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Watch did not stop after cancel")
	}
}
