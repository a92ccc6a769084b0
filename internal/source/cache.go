package source

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dejo1307/symfonymcp/internal/logger"
	"github.com/dejo1307/symfonymcp/internal/schema"
)

type entry struct {
	id  string
	doc *schema.Document
}

// Cache keeps parsed documents per source. Documents are immutable, so a
// cached document is shared by concurrent requests; loads of the same source
// are coalesced. Failed loads are not cached.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry // source path ("" for bundled) -> entry
	group   singleflight.Group
	log     *zap.SugaredLogger

	// parse hooks for tests
	parseBundled func() (*schema.Document, error)
	parseFile    func(path string) (*schema.Document, error)
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		log:     logger.ComponentLogger("schema.cache"),
		parseBundled: func() (*schema.Document, error) {
			return schema.ParseBytes(bundledXML, BundledID)
		},
		parseFile: schema.ParseFile,
	}
}

// Get returns the document for src, loading it when absent or when the
// cached copy has a different identity.
func (c *Cache) Get(ctx context.Context, src Source) (*schema.Document, error) {
	id := src.ID()

	c.mu.RLock()
	e, ok := c.entries[src.Path]
	c.mu.RUnlock()
	if ok && e.id == id {
		return e.doc, nil
	}

	ch := c.group.DoChan(id, func() (any, error) {
		doc, err := c.load(src)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[src.Path] = entry{id: id, doc: doc}
		c.mu.Unlock()
		c.log.Debugw("schema loaded", logger.FieldSource, src.String(), "sections", len(doc.Sections()))
		return doc, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*schema.Document), nil
	}
}

func (c *Cache) load(src Source) (*schema.Document, error) {
	if src.IsBundled() {
		return c.parseBundled()
	}
	return c.parseFile(src.Path)
}

// Invalidate drops the cached document of an override file.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[path]; ok {
		delete(c.entries, path)
		c.log.Debugw("schema invalidated", logger.FieldFile, path)
	}
}

// Has reports whether a document for the given override path ("" for
// bundled) is cached.
func (c *Cache) Has(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[path]
	return ok
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
