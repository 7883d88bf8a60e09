package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kodbank/kodbank-api/internal/logger"
)

// TokenCacheRepository caches token-presence lookups in Redis so hot
// sessions skip the database. Entries live at most until the token's own
// expiry, and revocation deletes them eagerly.
type TokenCacheRepository struct {
	client *redis.Client
}

func NewTokenCacheRepository(client *redis.Client) *TokenCacheRepository {
	return &TokenCacheRepository{client: client}
}

// cacheKey derives the Redis key from the token string. Tokens are long and
// secret, so only their SHA-256 is used as the key.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

// Get reports whether a presence entry exists for the token. Cache errors
// degrade to a miss so the store remains the source of truth.
func (r *TokenCacheRepository) Get(ctx context.Context, token string) bool {
	n, err := r.client.Exists(ctx, cacheKey(token)).Result()
	if err != nil {
		logger.Log.Warnw("token cache read failed", "error", err)
		return false
	}
	return n > 0
}

// Set records a presence entry expiring with the token itself. Entries for
// already-expired tokens are not written.
func (r *TokenCacheRepository) Set(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, cacheKey(token), "1", ttl).Err(); err != nil {
		logger.Log.Warnw("token cache write failed", "error", err)
	}
}

// Delete removes the presence entry, used on revocation.
func (r *TokenCacheRepository) Delete(ctx context.Context, token string) {
	if err := r.client.Del(ctx, cacheKey(token)).Err(); err != nil {
		logger.Log.Warnw("token cache delete failed", "error", err)
	}
}
