package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	c, err := Open(dbPath, ttl)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_PutGet(t *testing.T) {
	c := openTestCache(t, 24*time.Hour)

	if _, ok := c.Get("dark", "graph TD\nA-->B"); ok {
		t.Fatal("expected miss")
	}

	c.Put("dark", "graph TD\nA-->B", "<svg/>")

	got, ok := c.Get("dark", "graph TD\nA-->B")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != "<svg/>" {
		t.Errorf("got %q, want %q", got, "<svg/>")
	}
}

func TestCache_ThemeIsPartOfKey(t *testing.T) {
	c := openTestCache(t, 24*time.Hour)
	c.Put("dark", "graph TD", "<svg id=dark/>")

	if _, ok := c.Get("default", "graph TD"); ok {
		t.Fatal("expected miss for a different theme")
	}
	if Key("dark", "graph TD") == Key("default", "graph TD") {
		t.Fatal("keys collide across themes")
	}
	if Key("a", "b\x00c") == Key("a\x00b", "c") {
		t.Log("separator collision is accepted for NUL-bearing input")
	}
}

func TestCache_Replace(t *testing.T) {
	c := openTestCache(t, 24*time.Hour)
	c.Put("dark", "graph TD", "<svg>1</svg>")
	c.Put("dark", "graph TD", "<svg>2</svg>")

	got, _ := c.Get("dark", "graph TD")
	if got != "<svg>2</svg>" {
		t.Errorf("got %q", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCache_Expiry(t *testing.T) {
	c := openTestCache(t, 1*time.Second)
	c.Put("dark", "graph TD", "<svg/>")

	// Backdate the entry.
	c.db.Exec("UPDATE renders SET created = ? WHERE hash = ?",
		time.Now().Add(-2*time.Second).Unix(), Key("dark", "graph TD"))

	if _, ok := c.Get("dark", "graph TD"); ok {
		t.Fatal("expected stale miss")
	}
}

func TestCache_PurgeOnOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "purge.db")
	c, err := Open(dbPath, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	c.Put("dark", "old", "<svg/>")
	c.Put("dark", "new", "<svg/>")
	c.db.Exec("UPDATE renders SET created = ? WHERE hash = ?",
		time.Now().Add(-2*time.Hour).Unix(), Key("dark", "old"))
	c.Close()

	c, err = Open(dbPath, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.Len() != 1 {
		t.Fatalf("Len after reopen = %d, want 1", c.Len())
	}
}

func TestCache_NilReceiver(t *testing.T) {
	var c *Cache
	if _, ok := c.Get("dark", "x"); ok {
		t.Fatal("nil cache hit")
	}
	c.Put("dark", "x", "<svg/>")
	if c.Len() != 0 {
		t.Fatal("nil cache Len != 0")
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}
