package thread

import (
	"context"
	"encoding/json"
	"time"

	"backend-trollfeed/internal/genai"

	"github.com/redis/go-redis/v9"
)

// Store keeps each post's rebuttal exchange in redis so follow-up turns can
// condition the model without round-tripping history through the client.
// Threads expire after the TTL; they are session context, not part of the
// moderated record.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{redis: client, ttl: ttl}
}

func (s *Store) Turns(ctx context.Context, postID string) ([]genai.Turn, error) {
	if s.redis == nil {
		return nil, nil
	}
	raw, err := s.redis.LRange(ctx, threadKey(postID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	turns := make([]genai.Turn, 0, len(raw))
	for _, entry := range raw {
		var turn genai.Turn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *Store) Append(ctx context.Context, postID string, turns ...genai.Turn) error {
	if s.redis == nil || len(turns) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		b, err := json.Marshal(turn)
		if err != nil {
			return err
		}
		values = append(values, b)
	}
	key := threadKey(postID)
	if err := s.redis.RPush(ctx, key, values...).Err(); err != nil {
		return err
	}
	return s.redis.Expire(ctx, key, s.ttl).Err()
}

func threadKey(postID string) string {
	return "thread:" + postID
}
