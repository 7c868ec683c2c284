package prefs

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "preferences.yaml"))

	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on missing file = %v", err)
	}
	if p.Theme != "light" || p.GridColumns != "auto" {
		t.Errorf("defaults = %+v", p)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "preferences.yaml"))

	if err := store.Save(Preferences{Theme: "dark", GridColumns: "3"}); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if p.Theme != "dark" || p.GridColumns != "3" {
		t.Errorf("loaded = %+v, want dark/3", p)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "preferences.yaml"))

	if err := store.Save(Preferences{Theme: "dark", GridColumns: "2"}); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	if err := store.Save(Preferences{Theme: "light", GridColumns: "4"}); err != nil {
		t.Fatalf("second Save() = %v", err)
	}

	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if p.Theme != "light" || p.GridColumns != "4" {
		t.Errorf("loaded = %+v, want light/4", p)
	}
}
