package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "assets/battle.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "assets/extra.YML", Op: fsnotify.Create}, true},
		{"yaml rename", fsnotify.Event{Name: "creatures.yaml", Op: fsnotify.Rename}, true},
		{"yaml remove", fsnotify.Event{Name: "creatures.yaml", Op: fsnotify.Remove}, false},
		{"yaml chmod", fsnotify.Event{Name: "creatures.yaml", Op: fsnotify.Chmod}, false},
		{"swap file", fsnotify.Event{Name: ".battle.yaml.swp", Op: fsnotify.Write}, false},
		{"json", fsnotify.Event{Name: "out.json", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevant(tt.event); got != tt.want {
				t.Fatalf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcherReportsYAMLWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "battle.yaml")
	if err := os.WriteFile(path, []byte("seed: 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if filepath.Base(got) != "battle.yaml" {
			t.Fatalf("event for %q, want battle.yaml", got)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for battle.yaml")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatal("Events still open after Close")
	}
}
