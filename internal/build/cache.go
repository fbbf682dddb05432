package build

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"moorbuild/internal/rdb"
)

// partCache is the per-build ancestor cache, shared by every assembly part
// in the build. Inserts are serialized and fetches are deduplicated through
// a singleflight group keyed by part URL, so concurrent walks over shared
// ancestors never fetch the same URL twice.
type partCache struct {
	client *rdb.Client

	sf    singleflight.Group
	mu    sync.Mutex
	parts map[string]*Part
}

func newPartCache(client *rdb.Client) *partCache {
	return &partCache{
		client: client,
		parts:  make(map[string]*Part),
	}
}

// resolve returns the Part for url, fetching and inserting it if this is the
// first time the URL is seen in this build.
func (c *partCache) resolve(ctx context.Context, url string) (*Part, error) {
	c.mu.Lock()
	if p, ok := c.parts[url]; ok {
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sf.Do(url, func() (any, error) {
		// Re-check: a concurrent flight may have inserted between the map
		// probe and the singleflight dispatch.
		c.mu.Lock()
		if p, ok := c.parts[url]; ok {
			c.mu.Unlock()
			return p, nil
		}
		c.mu.Unlock()

		record, err := c.client.GetPart(ctx, url)
		if err != nil {
			return nil, err
		}
		p := &Part{
			url:       url,
			name:      record.PartName,
			parentURL: record.Parent,
		}
		c.mu.Lock()
		c.parts[url] = p
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Part), nil
}

// snapshot copies the cache contents for read-only exposure on the Build.
func (c *partCache) snapshot() map[string]*Part {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]*Part, len(c.parts))
	for url, p := range c.parts {
		out[url] = p
	}
	return out
}
