package live

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rotacerta/backend/internal/models"
)

const keyPrefix = "live:location:"

// Store keeps field-captured customer positions in Redis with a TTL so
// stale fixes age out on their own. A missing key is not an error: the
// resolver fallback chain covers customers without a live position.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr string, ttl time.Duration) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Publish(ctx context.Context, loc models.CapturedLocation) error {
	b, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+loc.CustomerID, b, s.ttl).Err()
}

// Snapshot fetches the captured locations for the given customers in a
// single round trip. Customers without a fix are simply absent from
// the result.
func (s *Store) Snapshot(ctx context.Context, customerIDs []string) (map[string]models.CapturedLocation, error) {
	if len(customerIDs) == 0 {
		return map[string]models.CapturedLocation{}, nil
	}
	keys := make([]string, len(customerIDs))
	for i, id := range customerIDs {
		keys[i] = keyPrefix + id
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	out := make(map[string]models.CapturedLocation, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var loc models.CapturedLocation
		if err := json.Unmarshal([]byte(raw), &loc); err != nil {
			continue
		}
		out[loc.CustomerID] = loc
	}
	return out, nil
}
