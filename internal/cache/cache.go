// Package cache implements content-addressed, fingerprint-keyed
// memoization for expensive per-file validation results (build/syntax
// checks), with TTL and LRU eviction.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/turnagent/core/internal/exec"
)

// Entry is one cached validation outcome.
type Entry struct {
	Key         string
	FilePaths   []string
	Fingerprint string
	Result      string
	StoredAt    time.Time
	lastUsed    time.Time
}

// Cache is a fingerprint-keyed, TTL-bounded, LRU-evicted store.
type Cache struct {
	exec    exec.CommandExecutor
	entries map[string]*Entry
	order   []string // access order, oldest first

	TTL     time.Duration
	MaxSize int

	Hits   int
	Misses int
}

func New(e exec.CommandExecutor) *Cache {
	return &Cache{
		exec:    e,
		entries: make(map[string]*Entry),
		TTL:     24 * time.Hour,
		MaxSize: 500,
	}
}

// Key computes the MD5 cache key over {validationType, sorted(filePaths), sorted(deps)}.
func Key(validationType string, filePaths, deps []string) string {
	fp := append([]string{}, filePaths...)
	d := append([]string{}, deps...)
	sort.Strings(fp)
	sort.Strings(d)
	h := md5.New()
	fmt.Fprintf(h, "%s|%s|%s", validationType, strings.Join(fp, ","), strings.Join(d, ","))
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint is MD5 over "<path>:<mtime_ms>:<size>" per tracked path
// (in the given order), "<path>:missing" for absent ones.
func (c *Cache) Fingerprint(ctx context.Context, paths []string) string {
	h := md5.New()
	for _, p := range paths {
		res, err := c.exec.Execute(ctx, fmt.Sprintf("stat -c '%%Y %%s' %q 2>/dev/null", p), 10)
		if err != nil || res.ExitCode != 0 || strings.TrimSpace(res.Output) == "" {
			fmt.Fprintf(h, "%s:missing;", p)
			continue
		}
		fields := strings.Fields(strings.TrimSpace(res.Output))
		if len(fields) < 2 {
			fmt.Fprintf(h, "%s:missing;", p)
			continue
		}
		mtimeMs := fields[0] + "000"
		fmt.Fprintf(h, "%s:%s:%s;", p, mtimeMs, fields[1])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns a hit only if the entry exists, its age is within
// TTL, and its stored fingerprint equals the current one.
func (c *Cache) Lookup(ctx context.Context, key string) (string, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.Misses++
		return "", false
	}
	if time.Since(e.StoredAt) > c.TTL {
		c.Misses++
		c.evict(key)
		return "", false
	}
	current := c.Fingerprint(ctx, e.FilePaths)
	if current != e.Fingerprint {
		c.Misses++
		return "", false
	}
	c.Hits++
	e.lastUsed = time.Now()
	c.touch(key)
	return e.Result, true
}

// Store writes an entry, evicting the least-recently-used entry if the
// cache is already at MaxSize.
func (c *Cache) Store(ctx context.Context, key string, filePaths []string, result string) {
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.MaxSize {
		c.evictOldest()
	}
	c.entries[key] = &Entry{
		Key:         key,
		FilePaths:   filePaths,
		Fingerprint: c.Fingerprint(ctx, filePaths),
		Result:      result,
		StoredAt:    time.Now(),
		lastUsed:    time.Now(),
	}
	c.touch(key)
}

// InvalidateFile drops every entry mentioning path.
func (c *Cache) InvalidateFile(path string) {
	for key, e := range c.entries {
		for _, p := range e.FilePaths {
			if p == path {
				c.evict(key)
				break
			}
		}
	}
}

// InvalidateKey drops the entry stored under key, if any.
func (c *Cache) InvalidateKey(key string) {
	c.evict(key)
}

func (c *Cache) touch(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, key)
}

func (c *Cache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.evict(oldest)
}

func (c *Cache) evict(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cache) Stats() (hits, misses int) {
	return c.Hits, c.Misses
}
