package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bookadzone/launch-api/internal/domain"
)

// Resolver turns a client IP into a best-effort location. Implementations
// never fail: total lookup failure yields the all-Unknown record.
type Resolver interface {
	Resolve(ctx context.Context, ip string) domain.Location
}

const attemptsPerProvider = 2

// ChainResolver tries external providers in order, stopping at the first
// usable answer.
type ChainResolver struct {
	providers []provider
	client    *http.Client
	timeout   time.Duration
	logger    *zap.Logger
}

// NewChainResolver builds the default ipapi.co then ipwhois.app chain.
func NewChainResolver(timeout time.Duration, logger *zap.Logger) *ChainResolver {
	return &ChainResolver{
		providers: defaultProviders(),
		client:    &http.Client{},
		timeout:   timeout,
		logger:    logger,
	}
}

// Resolve looks up the location for ip. Loopback and empty addresses
// short-circuit without any network call. Each provider attempt is bounded by
// the configured timeout and retried once before moving on.
func (r *ChainResolver) Resolve(ctx context.Context, ip string) domain.Location {
	if IsLocalIP(ip) {
		return domain.LocalLocation()
	}
	if ip == domain.IPUnknown {
		// No address to look up; providers would resolve the server's own IP.
		return domain.UnknownLocation()
	}

	for _, p := range r.providers {
		for attempt := 1; attempt <= attemptsPerProvider; attempt++ {
			payload, err := r.fetch(ctx, p.url(ip))
			if err != nil {
				r.logger.Warn("geo provider lookup failed",
					zap.String("provider", p.name),
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				continue
			}
			if loc, ok := p.normalize(payload); ok {
				return loc
			}
		}
	}

	r.logger.Warn("all geo providers exhausted", zap.String("ip", ip))
	return domain.UnknownLocation()
}

func (r *ChainResolver) fetch(ctx context.Context, url string) (map[string]any, error) {
	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d %s", resp.StatusCode, resp.Status)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// IsLocalIP reports whether ip identifies the local machine.
func IsLocalIP(ip string) bool {
	if ip == "" {
		return true
	}
	if strings.HasPrefix(ip, "::ffff:127.") {
		return true
	}
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
