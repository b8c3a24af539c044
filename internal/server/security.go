package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/osse101/ToolForge_Go/internal/logger"
)

// clientCounts is what a ClientTracker remembers about one address in the current window
type clientCounts struct {
	requests   int
	failedAuth int
}

// ClientTracker counts requests and rejected API keys per client address.
// All counts are dropped together when the window rolls over.
type ClientTracker struct {
	mu          sync.Mutex
	clients     map[string]*clientCounts
	windowStart time.Time
	window      time.Duration
	maxRequests int
	now         func() time.Time
}

func NewClientTracker() *ClientTracker {
	return &ClientTracker{
		clients:     make(map[string]*clientCounts),
		windowStart: time.Now(),
		window:      RateLimitWindow,
		maxRequests: RateLimitMaxRequests,
		now:         time.Now,
	}
}

// counts returns the entry for ip, rolling the window first. Caller holds mu.
func (c *ClientTracker) counts(ip string) *clientCounts {
	if now := c.now(); now.Sub(c.windowStart) > c.window {
		clear(c.clients)
		c.windowStart = now
	}
	cc, ok := c.clients[ip]
	if !ok {
		cc = &clientCounts{}
		c.clients[ip] = cc
	}
	return cc
}

// FailedAuth notes a rejected key from ip
func (c *ClientTracker) FailedAuth(ip string) {
	c.mu.Lock()
	cc := c.counts(ip)
	cc.failedAuth++
	n := cc.failedAuth
	c.mu.Unlock()

	if n >= FailedAuthAlertAttempts {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
}

// Allow counts a request from ip and reports whether it is still under the limit
func (c *ClientTracker) Allow(ip string) bool {
	c.mu.Lock()
	cc := c.counts(ip)
	cc.requests++
	n := cc.requests
	c.mu.Unlock()

	if n <= c.maxRequests {
		return true
	}
	if n%100 == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", n)
	}
	return false
}

// AuthMiddleware requires the API key on every request it wraps.
// An empty apiKey disables the check.
func AuthMiddleware(apiKey string, trustedProxies []string, tracker *ClientTracker) func(http.Handler) http.Handler {
	want := []byte(apiKey)
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(got), want) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r, trustedProxies)
			tracker.FailedAuth(ip)
			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed, "path", r.URL.Path, "has_key", got != "", "ip", ip)
			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

// RateLimitMiddleware answers 429 once a client is over the tracker's limit
func RateLimitMiddleware(trustedProxies []string, tracker *ClientTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tracker.Allow(clientIP(r, trustedProxies)) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
		})
	}
}

func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the peer address, or the last X-Forwarded-For hop when the peer
// is a trusted proxy. Trusted entries may be single addresses or CIDR prefixes.
func clientIP(r *http.Request, trustedProxies []string) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" || !isTrustedProxy(peer, trustedProxies) {
		return peer
	}
	if i := strings.LastIndexByte(forwarded, ','); i >= 0 {
		forwarded = forwarded[i+1:]
	}
	return strings.TrimSpace(forwarded)
}

func isTrustedProxy(peer string, trusted []string) bool {
	addr, err := netip.ParseAddr(peer)
	for _, entry := range trusted {
		if entry == peer {
			return true
		}
		if err != nil {
			continue
		}
		if prefix, perr := netip.ParsePrefix(entry); perr == nil && prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// SecurityHeadersMiddleware sets the hardening headers on every response
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	headers := [][2]string{
		{HeaderContentType, HeaderValueNoSniff},
		{HeaderFrameOptions, HeaderValueDeny},
		{HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin},
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, h := range headers {
				w.Header().Set(h[0], h[1])
			}
			next.ServeHTTP(w, r)
		})
	}
}
