// Package bootstrap assembles the extraction service from configuration so
// the API, the CLI and the end-to-end tests share one wiring.
package bootstrap

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"app_reviews/internal/adapters/appstore"
	"app_reviews/internal/adapters/playstore"
	redisad "app_reviews/internal/adapters/redis"
	"app_reviews/internal/adapters/transport"
	"app_reviews/internal/app"
	"app_reviews/internal/domain"
	"app_reviews/internal/shared"
)

// Service builds the extraction service. The returned func releases the
// cache connection, if any.
func Service(ctx context.Context, cfg shared.Config) (*app.ExtractionService, func()) {
	cache, closeFn := Cache(ctx, cfg)

	play := transport.New("play_store", cfg.OutboundRPS, cfg.RequestTimeout)
	apple := transport.New("app_store", cfg.OutboundRPS, cfg.RequestTimeout)

	svc := app.NewExtractionService(app.Options{
		DefaultCountry: cfg.DefaultCountry,
		MaxReviews:     cfg.MaxReviews,
		CacheTTL:       cfg.CacheTTL,
		TopTerms:       cfg.TopTerms,
	}, cache,
		playstore.NewSource(playstore.NewClient(cfg.PlayBaseURL, cfg.Lang, play), cfg.PlayPageSize, cfg.PlayMaxPages),
		appstore.NewSource(appstore.NewClient(cfg.AppStoreURL, cfg.AppStoreAPI, apple), appstore.MaxCount),
	)
	return svc, closeFn
}

// Cache returns the redis cache when REDIS_ADDR is set and reachable, nil
// otherwise. Extraction works without it.
func Cache(ctx context.Context, cfg shared.Config) (domain.Cache, func()) {
	noop := func() {}
	if cfg.RedisAddr == "" || cfg.CacheTTL <= 0 {
		return nil, noop
	}
	c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, fetch cache disabled")
		_ = c.Close()
		return nil, noop
	}
	log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("fetch cache enabled")
	return c, func() { _ = c.Close() }
}
