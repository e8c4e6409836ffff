package extract

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// recordCache memoizes extraction results keyed by a hash of path and
// content. Extraction is deterministic, so identical input always maps to the
// same record sequence.
type recordCache struct {
	lru *lru.Cache[string, []Record]
}

func newRecordCache(size int) (*recordCache, error) {
	c, err := lru.New[string, []Record](size)
	if err != nil {
		return nil, err
	}
	return &recordCache{lru: c}, nil
}

func (c *recordCache) get(path, content string) ([]Record, bool) {
	return c.lru.Get(cacheKey(path, content))
}

func (c *recordCache) put(path, content string, records []Record) {
	c.lru.Add(cacheKey(path, content), records)
}

func cacheKey(path, content string) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}
