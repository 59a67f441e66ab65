package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionTTL bounds how long a server-side session lives without a new login.
const SessionTTL = 24 * time.Hour

// NewRedisClient initializes a redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func sessionKey(sid string) string {
	return "session:" + sid
}

// SaveSession stores the session record as a redis hash with a TTL. Sessions
// back the cookie half of the hybrid auth gate.
func SaveSession(ctx context.Context, rdb *redis.Client, sid, userID, username, role string) error {
	key := sessionKey(sid)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    userID,
		"username":   username,
		"role":       role,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, SessionTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetSession returns the session hash, or nil when the session id is unknown
// or expired.
func GetSession(ctx context.Context, rdb *redis.Client, sid string) (map[string]string, error) {
	data, err := rdb.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// DeleteSession removes the server-side session record (logout).
func DeleteSession(ctx context.Context, rdb *redis.Client, sid string) error {
	return rdb.Del(ctx, sessionKey(sid)).Err()
}
