package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entry is one appended exchange of the interview conversation.
type Entry struct {
	Type      string    `json:"type"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is the append-only conversational memory keyed by session id.
// The session engine only ever appends and reads the formatted context;
// it never rewrites entries.
type Store interface {
	Append(ctx context.Context, sessionID, entryType, text string) error
	FormattedContext(ctx context.Context, sessionID string) (string, error)
	Clear(ctx context.Context, sessionID string) error
}

// RedisStore keeps each session's conversation in a redis list under
// interview:memory:<sessionId> with a TTL so abandoned sessions age out.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func memoryKey(sessionID string) string {
	return fmt.Sprintf("interview:memory:%s", sessionID)
}

func (s *RedisStore) Append(ctx context.Context, sessionID, entryType, text string) error {
	entry := Entry{
		Type:      entryType,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal memory entry: %w", err)
	}

	key := memoryKey(sessionID)
	if err := s.rdb.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("failed to append memory entry: %w", err)
	}
	if s.ttl > 0 {
		s.rdb.Expire(ctx, key, s.ttl)
	}
	return nil
}

// FormattedContext renders the whole conversation as labelled lines for
// prompt injection.
func (s *RedisStore) FormattedContext(ctx context.Context, sessionID string) (string, error) {
	raw, err := s.rdb.LRange(ctx, memoryKey(sessionID), 0, -1).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read memory entries: %w", err)
	}

	var b strings.Builder
	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			// skip entries that fail to decode rather than losing the
			// whole context
			continue
		}
		fmt.Fprintf(&b, "[%s] %s\n", entry.Type, entry.Text)
	}
	return b.String(), nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, memoryKey(sessionID)).Err()
}
