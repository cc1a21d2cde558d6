package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
	uniYearKey      = "uni_year"

	// CacheHeader reports whether an aggregate was served from redis.
	CacheHeader = "X-Cache"
)

// WithResponseMeta prepares the per-request meta map that GPA handlers fill with cache
// details. processing_time_ms is stamped after the handler returns.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
		meta := ensureMeta(c)
		if _, exists := meta["processing_time_ms"]; !exists {
			meta["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit records whether a CGPA or batch aggregate came from the cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[cacheHitKey] = hit
	if c != nil && c.Writer != nil {
		if hit {
			c.Header(CacheHeader, "HIT")
		} else {
			c.Header(CacheHeader, "MISS")
		}
	}
}

// SetCohort tags the response with the cohort a batch average was computed for.
func SetCohort(c *gin.Context, uniYear string) {
	if uniYear == "" {
		return
	}
	ensureMeta(c)[uniYearKey] = uniYear
}

// ExtractMeta returns the meta map stored on the context, or nil.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := make(map[string]interface{})
	if c != nil {
		c.Set(responseMetaKey, meta)
	}
	return meta
}
