/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: cache.go
Description: Memoizing front-end for ParseText. Tabular columns repeat the same
cells (flags, categories, blank cells) many times, so parsed results are kept in
a bounded LRU cache keyed by the raw cell text.
*/

package literal

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of distinct cells remembered by NewCachedParser
const DefaultCacheSize = 4096

// CachedParser wraps ParseText with an LRU cache. Results are identical to
// ParseText; only repeated work is skipped.
type CachedParser struct {
	cache  *lru.Cache[string, Literal]
	hits   int
	misses int
}

// NewCachedParser creates a parser remembering up to size cells.
// A non-positive size selects DefaultCacheSize.
func NewCachedParser(size int) *CachedParser {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, Literal](size)
	if err != nil {
		// lru.New only rejects non-positive sizes
		panic(err)
	}
	return &CachedParser{cache: cache}
}

// Parse classifies a cell, consulting the cache first
func (p *CachedParser) Parse(cell string) Literal {
	if l, ok := p.cache.Get(cell); ok {
		p.hits++
		return l
	}
	p.misses++
	l := ParseText(cell)
	p.cache.Add(cell, l)
	return l
}

// Stats returns cache hit and miss counters
func (p *CachedParser) Stats() (hits, misses int) {
	return p.hits, p.misses
}
