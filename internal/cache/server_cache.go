package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketbot/internal/codec"
	"github.com/spec-kit/ticketbot/internal/domain"
)

const (
	serverKeyPrefix  = "ticketbot:server:"
	generationSuffix = ":gen"
)

// ErrStaleFill is returned by Fill when the entry was invalidated after the
// caller took its generation snapshot.
var ErrStaleFill = errors.New("server cache invalidated during fill")

// ServerCache keeps encoded server configs in Redis as raw BSON.
type ServerCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewServerCache builds a cache; ttl <= 0 stores entries without expiry.
func NewServerCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ServerCache {
	return &ServerCache{client: client, ttl: ttl, logger: logger}
}

func serverKey(serverID int64) string {
	return serverKeyPrefix + strconv.FormatInt(serverID, 10)
}

func generationKey(serverID int64) string {
	return serverKey(serverID) + generationSuffix
}

// Get returns the cached config. found is false on a miss. A cached entry
// that no longer decodes is evicted and reported as a miss with its error.
func (c *ServerCache) Get(ctx context.Context, serverID int64) (domain.ServerConfig, bool, error) {
	raw, err := c.client.Get(ctx, serverKey(serverID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ServerConfig{}, false, nil
	}
	if err != nil {
		return domain.ServerConfig{}, false, fmt.Errorf("cache get server %d: %w", serverID, err)
	}

	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		c.evict(ctx, serverID, err)
		return domain.ServerConfig{}, false, fmt.Errorf("cache get server %d: %w", serverID, err)
	}
	cfg, err := codec.DecodeServerConfig(doc)
	if err != nil {
		c.evict(ctx, serverID, err)
		return domain.ServerConfig{}, false, fmt.Errorf("cache get server %d: %w", serverID, err)
	}
	return cfg, true, nil
}

// Generation returns the invalidation counter for serverID, 0 if it was
// never invalidated. Take it before reading the store and pass it to Fill.
func (c *ServerCache) Generation(ctx context.Context, serverID int64) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(serverID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation server %d: %w", serverID, err)
	}
	return gen, nil
}

// Fill stores cfg only if no Invalidate happened since gen was read. It
// returns ErrStaleFill otherwise, leaving the newer state untouched.
func (c *ServerCache) Fill(ctx context.Context, cfg domain.ServerConfig, gen int64) error {
	raw, err := bson.Marshal(codec.EncodeServerConfig(cfg))
	if err != nil {
		return fmt.Errorf("cache encode server %d: %w", cfg.ServerID, err)
	}
	genKey := generationKey(cfg.ServerID)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return ErrStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, serverKey(cfg.ServerID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleFill
	}
	if err != nil && !errors.Is(err, ErrStaleFill) {
		return fmt.Errorf("cache fill server %d: %w", cfg.ServerID, err)
	}
	return err
}

// Invalidate bumps the generation and drops the entry in one transaction,
// so fills started before the call are refused.
func (c *ServerCache) Invalidate(ctx context.Context, serverID int64) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(serverID))
		pipe.Del(ctx, serverKey(serverID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache invalidate server %d: %w", serverID, err)
	}
	return nil
}

// Delete drops the cached entry, if any.
func (c *ServerCache) Delete(ctx context.Context, serverID int64) error {
	if err := c.client.Del(ctx, serverKey(serverID)).Err(); err != nil {
		return fmt.Errorf("cache delete server %d: %w", serverID, err)
	}
	return nil
}

func (c *ServerCache) evict(ctx context.Context, serverID int64, cause error) {
	c.logger.Warn("evicting corrupt server cache entry", zap.Int64("server_id", serverID), zap.Error(cause))
	if err := c.Delete(ctx, serverID); err != nil {
		c.logger.Warn("evict server cache entry", zap.Int64("server_id", serverID), zap.Error(err))
	}
}
