// Package catalog mirrors the server-held file collection in memory so the UI
// can filter without a round trip. The cache is replaced wholesale on each
// successful fetch and never partially updated: a failed fetch leaves the
// previous snapshot intact.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/wyejay/edulibrary-client/internal/faults"
	"github.com/wyejay/edulibrary-client/internal/models"
)

type Cache struct {
	mu         sync.RWMutex
	files      []models.FileRecord
	categories []string
}

func NewCache() *Cache {
	return &Cache{}
}

// Replace atomically swaps the cached collection. When the server supplied a
// category list it wins; otherwise the set is derived from the files. Either
// way the result is deduplicated and sorted case-insensitively so the filter
// bar stays stable across refreshes.
func (c *Cache) Replace(files []models.FileRecord, categories []string) {
	copied := make([]models.FileRecord, len(files))
	copy(copied, files)

	if len(categories) == 0 {
		seen := make(map[string]struct{}, len(copied))
		for _, f := range copied {
			if f.Category == "" {
				continue
			}
			if _, ok := seen[f.Category]; !ok {
				seen[f.Category] = struct{}{}
				categories = append(categories, f.Category)
			}
		}
	} else {
		categories = dedup(categories)
	}
	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i]) < strings.ToLower(categories[j])
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = copied
	c.categories = categories
}

// Filter returns the records matching f without mutating the cache. A record
// matches a search query when the lowercased query is a substring of the
// original filename, category, description, uploader, or any tag.
func (c *Cache) Filter(f models.FileFilter) []models.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(f.SearchText))

	var out []models.FileRecord
	for _, record := range c.files {
		if f.Category != "" && f.Category != "all" && record.Category != f.Category {
			continue
		}
		if f.FeaturedOnly && !record.IsFeatured {
			continue
		}
		if query != "" && !matchesQuery(record, query) {
			continue
		}
		out = append(out, record)
	}
	return out
}

func matchesQuery(record models.FileRecord, query string) bool {
	if strings.Contains(strings.ToLower(record.OriginalName), query) ||
		strings.Contains(strings.ToLower(record.Category), query) ||
		strings.Contains(strings.ToLower(record.Description), query) ||
		strings.Contains(strings.ToLower(record.UploadedBy), query) {
		return true
	}
	for _, tag := range record.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// ByID looks up a record for delete/download/permission checks. A missing id
// means the caller's view is stale (the record was removed server-side) and
// should trigger a refresh, not a crash.
func (c *Cache) ByID(id int) (models.FileRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, record := range c.files {
		if record.ID == id {
			return record, nil
		}
	}
	return models.FileRecord{}, faults.New(faults.NotFound, "File is no longer in the catalog")
}

func (c *Cache) Snapshot() []models.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.FileRecord, len(c.files))
	copy(out, c.files)
	return out
}

func (c *Cache) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
