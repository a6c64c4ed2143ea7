package clients

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestURL_AbsoluteAndRelative(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := NewLocalStorage(tmpDir, "/files", "http://example.com:8080/")
	if err != nil {
		t.Fatalf("failed create storage: %v", err)
	}

	got, _ := c.URL(context.Background(), "a.xlsx")
	if want := "http://example.com:8080/files/a.xlsx"; got != want {
		t.Fatalf("expected %s; got %s", want, got)
	}

	c2, _ := NewLocalStorage(tmpDir, "files", "")
	if got2, _ := c2.URL(context.Background(), "b.xlsx"); got2 != "/files/b.xlsx" {
		t.Fatalf("expected /files/b.xlsx; got %s", got2)
	}
}

func TestSaveAndOpen(t *testing.T) {
	c, err := NewLocalStorage(t.TempDir(), "/files", "")
	if err != nil {
		t.Fatalf("storage init: %v", err)
	}

	content := []byte("hello world")
	saved, err := c.Save(context.Background(), "../report 1.xlsx", content)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if strings.Contains(saved, "/") {
		t.Fatalf("saved name must not contain a path: %s", saved)
	}
	if OriginalName(saved) != "report 1.xlsx" {
		t.Fatalf("unexpected original name %q", OriginalName(saved))
	}

	path, err := c.Open(saved)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	body, _ := os.ReadFile(path)
	if string(body) != string(content) {
		t.Fatalf("content mismatch: %s", string(body))
	}

	for _, bad := range []string{"", "../etc/passwd", ".env", "missing.xlsx"} {
		if _, err := c.Open(bad); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Open(%q): expected not exist, got %v", bad, err)
		}
	}
}

func TestCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewLocalStorage(dir, "", "")

	oldName, _ := c.Save(context.Background(), "old.xlsx", []byte("x"))
	newName, _ := c.Save(context.Background(), "new.xlsx", []byte("y"))

	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, oldName), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if err := c.CleanupOlderThan(time.Hour); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, oldName)); !os.IsNotExist(err) {
		t.Errorf("old file should be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, newName)); err != nil {
		t.Errorf("new file should stay: %v", err)
	}
}
