package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	gatewayCacheKey = "report:gateways"
	gatewayCacheTTL = 5 * time.Minute
)

// GatewayResolver yields the set of trunk identifiers visible to the engine.
// A configured list takes precedence; otherwise identifiers are discovered
// from the repository and cached in Redis, since the discovery scan is a
// full DISTINCT over the channel columns.
type GatewayResolver struct {
	repo       Repository
	configured []string
	cache      *redis.Client
}

func NewGatewayResolver(repo Repository, configured []string, cache *redis.Client) *GatewayResolver {
	return &GatewayResolver{repo: repo, configured: configured, cache: cache}
}

// List returns the configured gateways when any exist, otherwise the
// discovered set, capped upstream at 100 entries.
func (g *GatewayResolver) List(ctx context.Context) ([]string, error) {
	if len(g.configured) > 0 {
		out := make([]string, len(g.configured))
		copy(out, g.configured)
		return out, nil
	}

	if g.cache != nil {
		raw, err := g.cache.Get(ctx, gatewayCacheKey).Result()
		if err == nil {
			var cached []string
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			slog.Warn("gateway cache read failed", "error", err)
		}
	}

	gws, err := g.repo.Gateways(ctx)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if raw, err := json.Marshal(gws); err == nil {
			if err := g.cache.Set(ctx, gatewayCacheKey, raw, gatewayCacheTTL).Err(); err != nil {
				slog.Warn("gateway cache write failed", "error", err)
			}
		}
	}
	return gws, nil
}

// Default returns the gateway used when a request names none: the first
// configured entry, or the first discovered one.
func (g *GatewayResolver) Default(ctx context.Context) (string, error) {
	gws, err := g.List(ctx)
	if err != nil {
		return "", err
	}
	if len(gws) == 0 {
		return "", nil
	}
	return gws[0], nil
}

// Resolve picks the effective gateway for a filter: the explicit request
// value when present, otherwise the default.
func (g *GatewayResolver) Resolve(ctx context.Context, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	return g.Default(ctx)
}
