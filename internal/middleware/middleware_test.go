package middleware

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/event-ticketing/internal/config"
)

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { rdb.Close() })
    return rdb, mr
}

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
    return rec
}

func cacheConfig() config.CacheConfig {
    return config.CacheConfig{
        Enabled:           true,
        Methods:           map[string]bool{http.MethodGet: true},
        TTL:               time.Minute,
        KeyStrategy:       "path_query",
        Prefix:            "cache",
        MaxBodyBytes:      1024,
        InvalidateOnWrite: true,
    }
}

func TestCacheHitAndInvalidation(t *testing.T) {
    rdb, _ := newRedis(t)
    e := echo.New()
    e.Use(NewRedisCache(cacheConfig(), rdb))
    calls := 0
    e.GET("/v1/events/:id", func(c echo.Context) error {
        calls++
        return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "calls": calls})
    })
    e.POST("/v1/events", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })

    first := serve(e, http.MethodGet, "/v1/events/1")
    if first.Header().Get("X-Cache") != "MISS" {
        t.Fatalf("first request X-Cache = %q", first.Header().Get("X-Cache"))
    }
    second := serve(e, http.MethodGet, "/v1/events/1")
    if second.Header().Get("X-Cache") != "HIT" || second.Body.String() != first.Body.String() {
        t.Fatalf("second request: X-Cache=%q body=%q", second.Header().Get("X-Cache"), second.Body.String())
    }
    if second.Header().Get(echo.HeaderContentType) != first.Header().Get(echo.HeaderContentType) {
        t.Fatal("cached response lost its content type")
    }
    if calls != 1 {
        t.Fatalf("handler ran %d times, want 1", calls)
    }

    // Different ids are distinct entries.
    if rec := serve(e, http.MethodGet, "/v1/events/2"); rec.Header().Get("X-Cache") != "MISS" {
        t.Fatal("/v1/events/2 must not hit the entry for /v1/events/1")
    }

    serve(e, http.MethodPost, "/v1/events")
    if rec := serve(e, http.MethodGet, "/v1/events/1"); rec.Header().Get("X-Cache") != "MISS" {
        t.Fatal("a successful write must invalidate cached reads")
    }
}

func TestCacheInvalidatedByFailedWrites(t *testing.T) {
    rdb, _ := newRedis(t)
    e := echo.New()
    e.Use(NewRedisCache(cacheConfig(), rdb))
    e.GET("/v1/events/0/attendees", func(c echo.Context) error {
        return c.JSON(http.StatusOK, echo.Map{"items": []int{}})
    })
    // Both writes change stored records before they fail.
    e.POST("/v1/tickets", func(c echo.Context) error {
        return c.JSON(http.StatusConflict, echo.Map{"error": "association failed"})
    })
    e.DELETE("/v1/tickets/:id", func(c echo.Context) error {
        return echo.NewHTTPError(http.StatusInternalServerError, "event write failed")
    })

    for _, write := range []struct{ method, path string }{
        {http.MethodPost, "/v1/tickets"},
        {http.MethodDelete, "/v1/tickets/2"},
    } {
        serve(e, http.MethodGet, "/v1/events/0/attendees")
        if rec := serve(e, http.MethodGet, "/v1/events/0/attendees"); rec.Header().Get("X-Cache") != "HIT" {
            t.Fatalf("expected a cached read before %s %s", write.method, write.path)
        }
        serve(e, write.method, write.path)
        if rec := serve(e, http.MethodGet, "/v1/events/0/attendees"); rec.Header().Get("X-Cache") != "MISS" {
            t.Fatalf("%s %s must invalidate cached reads even when it fails", write.method, write.path)
        }
    }
}

func TestCacheSkipsErrorsAndLargeBodies(t *testing.T) {
    rdb, _ := newRedis(t)
    cfg := cacheConfig()
    cfg.MaxBodyBytes = 16
    e := echo.New()
    e.Use(NewRedisCache(cfg, rdb))
    e.GET("/missing", func(c echo.Context) error {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "nope"})
    })
    e.GET("/big", func(c echo.Context) error {
        return c.String(http.StatusOK, strings.Repeat("x", 64))
    })

    for _, path := range []string{"/missing", "/big"} {
        serve(e, http.MethodGet, path)
        rec := serve(e, http.MethodGet, path)
        if rec.Header().Get("X-Cache") != "MISS" {
            t.Errorf("%s was cached", path)
        }
    }
    if rec := serve(e, http.MethodGet, "/big"); len(rec.Body.String()) != 64 {
        t.Fatalf("client must receive the full body, got %d bytes", rec.Body.Len())
    }
}

func TestCacheServesWhenRedisDown(t *testing.T) {
    rdb, mr := newRedis(t)
    e := echo.New()
    e.Use(NewRedisCache(cacheConfig(), rdb))
    e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "fine") })
    mr.Close()
    if rec := serve(e, http.MethodGet, "/ok"); rec.Code != http.StatusOK || rec.Body.String() != "fine" {
        t.Fatalf("status %d body %q", rec.Code, rec.Body.String())
    }
}

func TestEncodeDecodePayload(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
    if err != nil {
        t.Fatal(err)
    }
    status, got, body, ok := decodePayload(bs)
    if !ok || status != http.StatusOK || got.Get("Content-Type") != "application/json" || string(body) != `{"a":1}` {
        t.Fatalf("decode: ok=%v status=%d hdr=%v body=%q", ok, status, got, body)
    }
    if _, _, _, ok := decodePayload(bs[:5]); ok {
        t.Fatal("short payload must not decode")
    }
}

func rateConfig() config.RateLimitConfig {
    return config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            5 * time.Hour,
        KeyStrategy:    "ip_route",
        Prefix:         "rl",
        ExemptPaths:    map[string]bool{"/healthz": true},
    }
}

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
    rdb, _ := newRedis(t)
    e := echo.New()
    e.Use(NewTokenBucket(rateConfig(), rdb))
    e.GET("/v1/events", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
    e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

    for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
        rec := serve(e, http.MethodGet, "/v1/events")
        if rec.Code != want {
            t.Fatalf("request %d: status %d, want %d", i, rec.Code, want)
        }
        if i == 2 && rec.Header().Get("Retry-After") == "" {
            t.Fatal("blocked response lacks Retry-After")
        }
    }
    for i := 0; i < 5; i++ {
        if rec := serve(e, http.MethodGet, "/healthz"); rec.Code != http.StatusOK {
            t.Fatalf("exempt path limited on request %d", i)
        }
    }
}

func TestTokenBucketKeys(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/events/3", nil)
    req.RemoteAddr = "10.0.0.1:5555"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/v1/events/:id")

    cases := map[string]string{
        "ip":       "rl:ip:10.0.0.1",
        "route":    "rl:route:GET /v1/events/:id",
        "ip_route": "rl:ip:10.0.0.1:route:GET /v1/events/:id",
    }
    for strategy, want := range cases {
        cfg := rateConfig()
        cfg.KeyStrategy = strategy
        if got := buildRateKey(cfg, c); got != want {
            t.Errorf("%s: key %q, want %q", strategy, got, want)
        }
    }
}

func TestDisabledMiddlewarePassThrough(t *testing.T) {
    e := echo.New()
    cfg := rateConfig()
    cfg.Enabled = false
    e.Use(NewTokenBucket(cfg, nil), NewRedisCache(config.CacheConfig{}, nil))
    e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") })
    rec := serve(e, http.MethodGet, "/x")
    if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "" {
        t.Fatalf("status %d X-Cache %q", rec.Code, rec.Header().Get("X-Cache"))
    }
}
