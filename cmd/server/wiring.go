package main

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/option"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/evisdrenova/zonaei-skill/internal/alexa"
	"github.com/evisdrenova/zonaei-skill/internal/catalog"
	"github.com/evisdrenova/zonaei-skill/internal/catalog/httpcatalog"
	"github.com/evisdrenova/zonaei-skill/internal/catalog/pgcatalog"
	"github.com/evisdrenova/zonaei-skill/internal/config"
	"github.com/evisdrenova/zonaei-skill/internal/handler"
	"github.com/evisdrenova/zonaei-skill/internal/history"
)

// buildSkill wires the catalog, answerer and transcript recorder into the
// skill. The returned cleanup closes whatever connections were opened.
func buildSkill(ctx context.Context, cfg config.Config) (*alexa.Skill, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// ----------------------------------------------------------------
	// Catalog (data API or Postgres)
	// ----------------------------------------------------------------
	var cat catalog.Catalog
	switch cfg.Catalog.Backend {
	case config.BackendPostgres:
		store, err := pgcatalog.New(ctx, cfg.Catalog.DatabaseURL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, store.Close)
		if err := store.Ping(ctx); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("postgres ping: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, func() {}, err
		}
		cat = store
		log.Info().Msg("catalog: postgres")
	default:
		cat = httpcatalog.New(httpcatalog.Options{
			BaseURL:  cfg.Catalog.APIURL,
			Timeout:  cfg.Catalog.APITimeout,
			RetryMax: cfg.Catalog.APIRetryMax,
		})
		log.Info().Str("url", cfg.Catalog.APIURL).Msg("catalog: data API")
	}

	// ----------------------------------------------------------------
	// Free-question answerer (OpenAI when a key is present)
	// ----------------------------------------------------------------
	var answerer handler.Answerer = handler.StaticAnswerer{}
	if cfg.OpenAI.APIKey != "" {
		var opts []option.RequestOption
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		answerer = handler.NewChatAnswerer(cfg.OpenAI.APIKey, cfg.OpenAI.Model, opts...)
		log.Info().Str("model", cfg.OpenAI.Model).Msg("free questions: openai")
	}

	// ----------------------------------------------------------------
	// Session transcripts in Redis
	// ----------------------------------------------------------------
	var interceptors []alexa.ResponseInterceptor
	if cfg.History.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.History.RedisAddr,
			Password:     cfg.History.RedisPassword,
			DB:           cfg.History.RedisDB,
			MinIdleConns: 4,
		})
		closers = append(closers, func() { _ = rdb.Close() })
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			// transcripts are best effort; keep serving without them
			log.Warn().Err(err).Str("addr", cfg.History.RedisAddr).Msg("redis ping failed")
		}
		interceptors = append(interceptors, history.NewRecorder(rdb, cfg.History.TTL))
	}

	skill := handler.NewSkill(handler.Deps{
		Catalog:          catalog.NewInstrumented(cat),
		Answerer:         answerer,
		InscriptionEmail: cfg.InscriptionEmail,
	}, interceptors...)
	return skill, cleanup, nil
}
