package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// CacheHeader reports whether a response was served from the cache.
const CacheHeader = "X-Cache"

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

type recordingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GET requests for the same URI from store for ttl.
// Only 2xx responses are kept, so an outage is never cached.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if v, found := store.Get(key); found {
			hit := v.(cachedResponse)
			c.Header(CacheHeader, "HIT")
			c.Data(hit.status, hit.contentType, hit.body)
			c.Abort()
			return
		}

		rec := &recordingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec
		c.Header(CacheHeader, "MISS")
		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			store.Set(key, cachedResponse{
				status:      status,
				contentType: rec.Header().Get("Content-Type"),
				body:        rec.body.Bytes(),
			}, ttl)
		}
	}
}
