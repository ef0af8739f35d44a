// Package httpcache memoizes text GET responses for the lifetime of a Cache
// value. One Cache is shared by every backend in a process; nothing expires.
package httpcache

import (
	"context"
	"sync"

	"github.com/WS-QA/OSSGadget/module/registry/http"

	"github.com/rs/zerolog/log"
)

// Getter is the part of the HTTP client the cache needs.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type Cache struct {
	client  Getter
	entries *sync.Map // url -> string
}

func New(client Getter) *Cache {
	return &Cache{client: client, entries: &sync.Map{}}
}

// Using returns a view of c that fetches misses through client while
// sharing the stored entries. Backends use it to attach credentials.
func (c *Cache) Using(client Getter) *Cache {
	return &Cache{client: client, entries: c.entries}
}

// GetString returns the body stored for url, fetching it on a miss.
// Only successful bodies are stored; failures reach the caller and the next
// call tries again. Two concurrent misses on the same url may both fetch.
func (c *Cache) GetString(ctx context.Context, url string) (string, error) {
	if v, ok := c.entries.Load(url); ok {
		log.Trace().Str("url", url).Msg("http cache hit")
		return v.(string), nil
	}

	data, err := c.client.Get(ctx, url)
	if err != nil {
		ev := log.Debug().Str("url", url).Err(err)
		if http.IsStatus(err, 404) {
			ev = ev.Int("status", 404)
		}
		ev.Msg("http cache fetch failed")
		return "", err
	}

	body := string(data)
	actual, _ := c.entries.LoadOrStore(url, body)
	return actual.(string), nil
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
}
