package resolver

import "sync"

// posterCache memoizes resolved poster URLs per movie ID for the lifetime
// of a session. Write-once, read-many: the ID space is bounded by one
// session's result set, so there is no eviction. Absent results (nil) are
// cached too, to avoid re-fetching images for movies known to have none.
type posterCache struct {
	mu    sync.RWMutex
	items map[int]*PosterURLs
}

func newPosterCache() *posterCache {
	return &posterCache{
		items: make(map[int]*PosterURLs),
	}
}

// Get returns the cached poster for a movie ID. The second return value
// distinguishes "cached as absent" from "never looked up".
func (c *posterCache) Get(movieID int) (*PosterURLs, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	urls, ok := c.items[movieID]
	return urls, ok
}

// Set stores the poster for a movie ID. The first write wins.
func (c *posterCache) Set(movieID int, urls *PosterURLs) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[movieID]; ok {
		return
	}
	c.items[movieID] = urls
}

// Len returns the number of cached entries.
func (c *posterCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
