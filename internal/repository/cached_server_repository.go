package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketbot/internal/cache"
	"github.com/spec-kit/ticketbot/internal/codec"
	"github.com/spec-kit/ticketbot/internal/domain"
)

type cachedServerRepository struct {
	store  ServerRepository
	cache  *cache.ServerCache
	logger *zap.Logger
}

// NewCachedServerRepository puts a read-through Redis cache in front of store.
// Cache failures are logged and fall back to the store.
func NewCachedServerRepository(store ServerRepository, serverCache *cache.ServerCache, logger *zap.Logger) ServerRepository {
	return &cachedServerRepository{store: store, cache: serverCache, logger: logger}
}

// Upsert writes the store first, then invalidates the cached entry. The next
// read refills it.
func (r *cachedServerRepository) Upsert(ctx context.Context, cfg domain.ServerConfig) error {
	if err := r.store.Upsert(ctx, cfg); err != nil {
		return err
	}
	if err := r.cache.Invalidate(ctx, cfg.ServerID); err != nil {
		r.logger.Warn("server cache invalidate failed", zap.Int64("server_id", cfg.ServerID), zap.Error(err))
	}
	return nil
}

func (r *cachedServerRepository) GetByID(ctx context.Context, serverID int64) (domain.ServerConfig, error) {
	cfg, found, err := r.cache.Get(ctx, serverID)
	if err != nil {
		var decodeErr *codec.DecodeError
		if errors.As(err, &decodeErr) {
			r.logger.Error("corrupt server cache entry", zap.Int64("server_id", serverID), zap.Error(err))
		} else {
			r.logger.Warn("server cache read failed", zap.Int64("server_id", serverID), zap.Error(err))
		}
	}
	if found {
		return cfg, nil
	}

	gen, genErr := r.cache.Generation(ctx, serverID)
	cfg, err = r.store.GetByID(ctx, serverID)
	if err != nil {
		return domain.ServerConfig{}, err
	}
	if genErr != nil {
		r.logger.Warn("server cache generation read failed", zap.Int64("server_id", serverID), zap.Error(genErr))
		return cfg, nil
	}
	switch err := r.cache.Fill(ctx, cfg, gen); {
	case errors.Is(err, cache.ErrStaleFill):
		r.logger.Debug("server cache fill skipped, entry invalidated meanwhile", zap.Int64("server_id", serverID))
	case err != nil:
		r.logger.Warn("server cache fill failed", zap.Int64("server_id", serverID), zap.Error(err))
	}
	return cfg, nil
}
