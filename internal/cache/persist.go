package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// persistedEntry mirrors Entry for JSON round-tripping (unexported
// fields like lastUsed are not persisted).
type persistedEntry struct {
	Key         string    `json:"key"`
	FilePaths   []string  `json:"filePaths"`
	Fingerprint string    `json:"fingerprint"`
	Result      string    `json:"result"`
	StoredAt    time.Time `json:"storedAt"`
}

type persistedStats struct {
	Hits      int       `json:"hits"`
	Misses    int       `json:"misses"`
	Timestamp time.Time `json:"timestamp"`
}

type persistedFile struct {
	Entries map[string]persistedEntry `json:"entries"`
	Stats   persistedStats            `json:"stats"`
}

// SaveJSON writes validation-cache.json under dir.
func (c *Cache) SaveJSON(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	pf := persistedFile{
		Entries: make(map[string]persistedEntry, len(c.entries)),
		Stats:   persistedStats{Hits: c.Hits, Misses: c.Misses, Timestamp: time.Now()},
	}
	for k, e := range c.entries {
		pf.Entries[k] = persistedEntry{
			Key: e.Key, FilePaths: e.FilePaths, Fingerprint: e.Fingerprint,
			Result: e.Result, StoredAt: e.StoredAt,
		}
	}
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "validation-cache.json"), data, 0o644)
}

// LoadJSON reads validation-cache.json under dir, if present, purging
// any entry already past TTL at load time.
func (c *Cache) LoadJSON(dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, "validation-cache.json"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var pf persistedFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return err
	}
	c.Hits = pf.Stats.Hits
	c.Misses = pf.Stats.Misses

	for k, e := range pf.Entries {
		if time.Since(e.StoredAt) > c.TTL {
			continue
		}
		c.entries[k] = &Entry{
			Key: e.Key, FilePaths: e.FilePaths, Fingerprint: e.Fingerprint,
			Result: e.Result, StoredAt: e.StoredAt, lastUsed: e.StoredAt,
		}
		c.order = append(c.order, k)
	}
	return nil
}
