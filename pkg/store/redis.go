package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps session state in a redis hash per thread,
// key "rag_session:<thread_id>" with fields conversation_summary and
// file_manifest.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func sessionKey(threadID string) string {
	return fmt.Sprintf("rag_session:%s", threadID)
}

func (s *RedisSessionStore) Get(ctx context.Context, threadID string) (SessionState, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(threadID)).Result()
	if err != nil {
		return SessionState{}, fmt.Errorf("redis hgetall: %w", err)
	}

	// Missing hash yields an empty map, which maps onto the zero state.
	return SessionState{
		ConversationSummary: data["conversation_summary"],
		FileManifest:        data["file_manifest"],
	}, nil
}

func (s *RedisSessionStore) SetSummary(ctx context.Context, threadID string, summary string) error {
	if err := s.rdb.HSet(ctx, sessionKey(threadID), "conversation_summary", summary).Err(); err != nil {
		return fmt.Errorf("redis hset summary: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) AppendManifest(ctx context.Context, threadID string, entry ManifestEntry) (bool, error) {
	key := sessionKey(threadID)

	current, err := s.rdb.HGet(ctx, key, "file_manifest").Result()
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("redis hget manifest: %w", err)
	}

	updated, changed := AppendManifest(current, entry)
	if !changed {
		return false, nil
	}

	if err := s.rdb.HSet(ctx, key, "file_manifest", updated).Err(); err != nil {
		return false, fmt.Errorf("redis hset manifest: %w", err)
	}
	return true, nil
}
