package models

import (
	"image"
	"sync"
)

// RecordCache memoizes successful lookups for the lifetime of the process.
type RecordCache interface {
	Get(query Query) (CountryRecord, bool)
	Set(query Query, record CountryRecord)
	Len() int
}

// InMemoryCache is an unbounded, thread-safe RecordCache.
type InMemoryCache struct {
	mu    sync.RWMutex
	items map[Query]CountryRecord
}

// NewInMemoryCache creates an empty cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		items: make(map[Query]CountryRecord),
	}
}

func (c *InMemoryCache) Get(query Query) (CountryRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, found := c.items[query]
	return record, found
}

func (c *InMemoryCache) Set(query Query, record CountryRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[query] = record
}

func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// FlagCache keeps decoded flag images keyed by their source URL.
type FlagCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

func NewFlagCache() *FlagCache {
	return &FlagCache{
		images: make(map[string]image.Image),
	}
}

func (c *FlagCache) Get(url string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, found := c.images[url]
	return img, found
}

func (c *FlagCache) Set(url string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[url] = img
}
