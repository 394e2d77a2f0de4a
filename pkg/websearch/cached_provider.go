package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedProvider wraps a SearchProvider with a redis cache. Search results for
// the same topic/subject pair change slowly, so a short TTL keeps repeated
// curation runs from burning API quota. Cache failures fall through to the
// underlying provider.
type CachedProvider struct {
	inner SearchProvider
	rdb   *redis.Client
	ttl   time.Duration
}

var _ SearchProvider = &CachedProvider{}

func NewCachedProvider(inner SearchProvider, rdb *redis.Client) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		rdb:   rdb,
		ttl:   time.Hour,
	}
}

type searchFn func(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error)

func (c *CachedProvider) cached(ctx context.Context, kind, topic, subject string, maxResults int, fn searchFn) ([]Resource, error) {
	key := cacheKey(kind, topic, subject, maxResults)

	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var resources []Resource
		if err := json.Unmarshal([]byte(cached), &resources); err == nil {
			return resources, nil
		}
	}

	resources, err := fn(ctx, topic, subject, maxResults)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(resources); err == nil {
		c.rdb.Set(ctx, key, payload, c.ttl)
	}
	return resources, nil
}

func (c *CachedProvider) SearchEducationalResources(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error) {
	return c.cached(ctx, "edu", topic, subject, maxResults, c.inner.SearchEducationalResources)
}

func (c *CachedProvider) SearchVideos(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error) {
	return c.cached(ctx, "video", topic, subject, maxResults, c.inner.SearchVideos)
}

func (c *CachedProvider) SearchArticles(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error) {
	return c.cached(ctx, "article", topic, subject, maxResults, c.inner.SearchArticles)
}

func (c *CachedProvider) SearchCourses(ctx context.Context, topic, subject string, maxResults int) ([]Resource, error) {
	return c.cached(ctx, "course", topic, subject, maxResults, c.inner.SearchCourses)
}

func cacheKey(kind, topic, subject string, maxResults int) string {
	normalize := func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return fmt.Sprintf("websearch:%s:%s:%s:%d", kind, normalize(topic), normalize(subject), maxResults)
}
