package dict

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes dictionaries by the text they were built from, so rules
// configured with the same word list share one Dictionary.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache[string, *Dictionary]
}

// NewCache returns a cache holding at most size dictionaries.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New[string, *Dictionary](size)
	if err != nil {
		panic(err) // unreachable: size is positive
	}
	return &Cache{lru: c}
}

// Get returns the dictionary for base plus personal, building it on a miss.
func (c *Cache) Get(base, personal string) *Dictionary {
	key := base + "\x00" + personal
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.lru.Get(key); ok {
		return d
	}
	d := Parse(base, personal)
	c.lru.Add(key, d)
	return d
}

// Len returns the number of cached dictionaries.
func (c *Cache) Len() int { return c.lru.Len() }
