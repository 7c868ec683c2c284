package catalog

import (
	"testing"

	"github.com/wyejay/edulibrary-client/internal/faults"
	"github.com/wyejay/edulibrary-client/internal/models"
)

func sampleFiles() []models.FileRecord {
	return []models.FileRecord{
		{ID: 1, OriginalName: "Intro to Biology.pdf", Category: "Science", Description: "Cell structure basics", UploadedBy: "alice", Tags: []string{"biology", "cells"}},
		{ID: 2, OriginalName: "Calculus Notes.pdf", Category: "Math", Description: "Derivatives and integrals", UploadedBy: "bob", Tags: []string{"calculus"}},
		{ID: 3, OriginalName: "World History.pdf", Category: "History", Description: "", UploadedBy: "alice", Tags: nil, IsFeatured: true},
		{ID: 4, OriginalName: "Organic Chemistry.pdf", Category: "Science", Description: "Reaction mechanisms", UploadedBy: "carol", Tags: []string{"chemistry", "organic"}, IsFeatured: true},
	}
}

func TestFilter(t *testing.T) {
	cache := NewCache()
	cache.Replace(sampleFiles(), nil)

	tests := []struct {
		name    string
		filter  models.FileFilter
		wantIDs []int
	}{
		{
			name:    "no restriction returns everything",
			filter:  models.FileFilter{},
			wantIDs: []int{1, 2, 3, 4},
		},
		{
			name:    "all category is no restriction",
			filter:  models.FileFilter{Category: "all"},
			wantIDs: []int{1, 2, 3, 4},
		},
		{
			name:    "category is exact",
			filter:  models.FileFilter{Category: "Science"},
			wantIDs: []int{1, 4},
		},
		{
			name:    "featured only",
			filter:  models.FileFilter{FeaturedOnly: true},
			wantIDs: []int{3, 4},
		},
		{
			name:    "search matches filename case-insensitively",
			filter:  models.FileFilter{SearchText: "BIOLOGY"},
			wantIDs: []int{1},
		},
		{
			name:    "search matches description",
			filter:  models.FileFilter{SearchText: "derivatives"},
			wantIDs: []int{2},
		},
		{
			name:    "search matches uploader",
			filter:  models.FileFilter{SearchText: "alice"},
			wantIDs: []int{1, 3},
		},
		{
			name:    "search matches tag substring",
			filter:  models.FileFilter{SearchText: "organ"},
			wantIDs: []int{4},
		},
		{
			name:    "search matches category",
			filter:  models.FileFilter{SearchText: "hist"},
			wantIDs: []int{3},
		},
		{
			name:    "whitespace query matches everything",
			filter:  models.FileFilter{SearchText: "   "},
			wantIDs: []int{1, 2, 3, 4},
		},
		{
			name:    "combined category and search",
			filter:  models.FileFilter{Category: "Science", SearchText: "cell"},
			wantIDs: []int{1},
		},
		{
			name:    "no matches",
			filter:  models.FileFilter{SearchText: "quantum"},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cache.Filter(tt.filter)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Filter() returned %d records, want %d", len(got), len(tt.wantIDs))
			}
			for i, rec := range got {
				if rec.ID != tt.wantIDs[i] {
					t.Errorf("Filter()[%d].ID = %d, want %d", i, rec.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	cache := NewCache()
	cache.Replace(sampleFiles(), nil)

	filter := models.FileFilter{Category: "Science", SearchText: "chem"}
	first := cache.Filter(filter)
	second := cache.Filter(filter)

	if len(first) != len(second) {
		t.Fatalf("repeated Filter() disagreed: %d vs %d records", len(first), len(second))
	}
	if cache.Len() != 4 {
		t.Errorf("Filter() mutated the cache: Len() = %d, want 4", cache.Len())
	}
}

func TestReplaceDerivesCategories(t *testing.T) {
	cache := NewCache()
	cache.Replace(sampleFiles(), nil)

	got := cache.Categories()
	want := []string{"History", "Math", "Science"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReplacePrefersServerCategories(t *testing.T) {
	cache := NewCache()
	cache.Replace(sampleFiles(), []string{"science", "Art", "science", "math"})

	got := cache.Categories()
	want := []string{"Art", "math", "science"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReplaceSwapsWholesale(t *testing.T) {
	cache := NewCache()
	cache.Replace(sampleFiles(), nil)

	cache.Replace([]models.FileRecord{{ID: 9, OriginalName: "Only.pdf", Category: "Misc"}}, nil)

	if cache.Len() != 1 {
		t.Fatalf("Len() = %d after replace, want 1", cache.Len())
	}
	if _, err := cache.ByID(1); err == nil {
		t.Error("ByID(1) found a record that should have been replaced away")
	}
}

func TestByID(t *testing.T) {
	cache := NewCache()
	cache.Replace(sampleFiles(), nil)

	record, err := cache.ByID(2)
	if err != nil {
		t.Fatalf("ByID(2) returned error: %v", err)
	}
	if record.OriginalName != "Calculus Notes.pdf" {
		t.Errorf("ByID(2).OriginalName = %q", record.OriginalName)
	}

	_, err = cache.ByID(99)
	if err == nil {
		t.Fatal("ByID(99) should fail")
	}
	if !faults.IsKind(err, faults.NotFound) {
		t.Errorf("ByID(99) error kind = %v, want NotFound", err)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	cache := NewCache()
	cache.Replace(sampleFiles(), nil)

	snap := cache.Snapshot()
	snap[0].OriginalName = "mutated"

	record, err := cache.ByID(1)
	if err != nil {
		t.Fatalf("ByID(1) returned error: %v", err)
	}
	if record.OriginalName != "Intro to Biology.pdf" {
		t.Errorf("mutating a snapshot leaked into the cache: %q", record.OriginalName)
	}
}
