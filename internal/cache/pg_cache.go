package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrCacheMiss is returned when a key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// DB interface for database operations (compatible with pgxpool.Pool and pgxmock)
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// PGCache is a TTL key/value cache over the cache_entries table. Expired rows
// read as misses and are purged by RunCleanup.
type PGCache struct {
	db DB
}

func NewPGCache(db DB) *PGCache {
	return &PGCache{db: db}
}

func (c *PGCache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.QueryRow(ctx,
		`SELECT value FROM cache_entries WHERE key = $1 AND expires_at > NOW()`,
		key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return value, nil
}

// Set upserts key. A non-positive ttl stores nothing.
func (c *PGCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	_, err := c.db.Exec(ctx, `
		INSERT INTO cache_entries (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    expires_at = EXCLUDED.expires_at,
		    created_at = NOW()`,
		key, value, time.Now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// CleanupExpired removes expired entries and returns how many were deleted
func (c *PGCache) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := c.db.Exec(ctx, `DELETE FROM cache_entries WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("cache cleanup: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RunCleanup purges expired entries every interval until ctx is done
func (c *PGCache) RunCleanup(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := c.CleanupExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("cache cleanup failed", slog.String("error", err.Error()))
				}
				continue
			}
			if removed > 0 {
				logger.Debug("expired cache entries removed", slog.Int64("count", removed))
			}
		}
	}
}
