package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/hazyhaar/gazetteer/pkg/kit"
)

const requestIDHeader = "X-Request-ID"

// requestID tags each request with an id (the caller's, or a new UUID),
// its transport and the client address used for rate limiting.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := kit.WithRequestID(r.Context(), id)
		ctx = kit.WithTransport(ctx, kit.TransportHTTP)
		ctx = kit.WithClient(ctx, clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// cors is a simple CORS middleware for browser-based clients.
func cors(allowed string, next http.Handler) http.Handler {
	origins := map[string]bool{}
	for _, o := range strings.Split(allowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = true
		}
	}
	wildcard := len(origins) == 0 || origins["*"]

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case wildcard:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origins[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientLimiter keeps one token bucket per client. Idle buckets expire.
type clientLimiter struct {
	limit rate.Limit
	burst int
	store *cache.Cache
}

// newClientLimiter allows perMinute requests per client; perMinute <= 0
// returns a limiter that allows everything.
func newClientLimiter(perMinute, burst int) *clientLimiter {
	if perMinute <= 0 {
		return &clientLimiter{}
	}
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		limit: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: burst,
		store: cache.New(10*time.Minute, 10*time.Minute),
	}
}

func (l *clientLimiter) Allow(client string) bool {
	if l.store == nil {
		return true
	}
	if v, ok := l.store.Get(client); ok {
		// Get does not refresh expiry; re-set to keep active clients.
		l.store.SetDefault(client, v)
		return v.(*rate.Limiter).Allow()
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	// Add fails if a concurrent request created the bucket first.
	if err := l.store.Add(client, lim, cache.DefaultExpiration); err != nil {
		if v, ok := l.store.Get(client); ok {
			lim = v.(*rate.Limiter)
		}
	}
	return lim.Allow()
}
