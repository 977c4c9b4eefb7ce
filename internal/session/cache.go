package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultCacheTTL = 5 * time.Minute
	defaultPrefix   = "mkt:"
	tombstone       = "-"
)

// CachedStore is a redis read-through cache in front of another Store.
//
// Deleting a token leaves a tombstone and cache fills use SET NX, so a lookup
// that read the row just before a concurrent delete cannot write it back.
// DeleteByUser also records when the user was revoked; cached sessions created
// before that instant are rechecked against the backing store on every hit.
type CachedStore struct {
	next   Store
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		prefix: defaultPrefix,
		now:    time.Now,
	}
}

type cacheEntry struct {
	UserID    string    `json:"uid"`
	CreatedAt time.Time `json:"cat"`
	ExpiresAt time.Time `json:"exp"`
}

func (c *CachedStore) key(token string) string         { return c.prefix + "sess:" + token }
func (c *CachedStore) userKey(userID string) string    { return c.prefix + "user:" + userID }
func (c *CachedStore) revokedKey(userID string) string { return c.prefix + "revoked:" + userID }

func (c *CachedStore) Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error) {
	s, err := c.next.Create(ctx, userID, ttl)
	if err != nil {
		return nil, err
	}
	c.remember(ctx, s)
	return s, nil
}

func (c *CachedStore) FindByToken(ctx context.Context, token string) (*Session, error) {
	val, err := c.rdb.Get(ctx, c.key(token)).Result()
	switch {
	case err == nil:
		if val == tombstone {
			return nil, nil
		}
		var e cacheEntry
		if jsonErr := json.Unmarshal([]byte(val), &e); jsonErr != nil {
			log.Println("[session] discarding unreadable cache entry")
			break
		}
		s := &Session{Token: token, UserID: e.UserID, CreatedAt: e.CreatedAt, ExpiresAt: e.ExpiresAt}
		if s.Expired(c.now()) {
			return nil, nil
		}
		if c.revokedSince(ctx, s) {
			return c.recheck(ctx, token)
		}
		return s, nil
	case errors.Is(err, redis.Nil):
	default:
		log.Printf("[session] cache get failed, reading through: %v", err)
	}

	s, err := c.next.FindByToken(ctx, token)
	if err != nil || s == nil {
		return s, err
	}
	c.remember(ctx, s)
	return s, nil
}

// revokedSince reports whether every session of s's user was revoked at or
// after s was created. Unreadable markers count as revoked.
func (c *CachedStore) revokedSince(ctx context.Context, s *Session) bool {
	raw, err := c.rdb.Get(ctx, c.revokedKey(s.UserID)).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		log.Printf("[session] revocation check failed, rechecking store: %v", err)
		return true
	}
	at, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	return !s.CreatedAt.After(time.Unix(0, at))
}

// recheck asks the backing store and tombstones the token when it is gone.
func (c *CachedStore) recheck(ctx context.Context, token string) (*Session, error) {
	s, err := c.next.FindByToken(ctx, token)
	if err != nil || s != nil {
		return s, err
	}
	if err := c.rdb.Set(ctx, c.key(token), tombstone, c.ttl).Err(); err != nil {
		log.Printf("[session] tombstone revoked session: %v", err)
	}
	return nil, nil
}

func (c *CachedStore) DeleteByToken(ctx context.Context, token string) error {
	if err := c.next.DeleteByToken(ctx, token); err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, c.key(token), tombstone, c.ttl).Err(); err != nil {
		return apperr.Storage("invalidate cached session", err)
	}
	return nil
}

func (c *CachedStore) DeleteByUser(ctx context.Context, userID string) error {
	if err := c.next.DeleteByUser(ctx, userID); err != nil {
		return err
	}

	tokens, err := c.rdb.SMembers(ctx, c.userKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return apperr.Storage("list cached user sessions", err)
	}

	// The marker outlives any entry a racing fill could still write.
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, c.revokedKey(userID), strconv.FormatInt(c.now().UnixNano(), 10), 2*c.ttl)
	for _, t := range tokens {
		pipe.Set(ctx, c.key(t), tombstone, c.ttl)
	}
	pipe.Del(ctx, c.userKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Storage("invalidate cached user sessions", err)
	}
	return nil
}

// DeleteExpired only touches the backing store; cache entries expire on their own.
func (c *CachedStore) DeleteExpired(ctx context.Context) (int64, error) {
	return c.next.DeleteExpired(ctx)
}

// remember fills the cache. Failures are logged; the backing store stays authoritative.
func (c *CachedStore) remember(ctx context.Context, s *Session) {
	ttl := min(c.ttl, s.ExpiresAt.Sub(c.now()))
	if ttl <= 0 {
		return
	}

	raw, err := json.Marshal(cacheEntry{UserID: s.UserID, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt})
	if err != nil {
		log.Printf("[session] encode cache entry: %v", err)
		return
	}

	pipe := c.rdb.TxPipeline()
	pipe.SetNX(ctx, c.key(s.Token), raw, ttl)
	pipe.SAdd(ctx, c.userKey(s.UserID), s.Token)
	pipe.Expire(ctx, c.userKey(s.UserID), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[session] cache fill failed: %v", err)
	}
}
