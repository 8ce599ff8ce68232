package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/honors-hub/internal/domain/notification"
)

const maxPending = 50

// RedisNotifier queues notifications per session until the client drains them.
type RedisNotifier struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisNotifier(client *redis.Client, ttl time.Duration) *RedisNotifier {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisNotifier{client: client, prefix: "notifications:", ttl: ttl}
}

func (n *RedisNotifier) key(sessionID string) string {
	return n.prefix + sessionID
}

func (n *RedisNotifier) Notify(ctx context.Context, sessionID string, note notification.Notification) error {
	raw, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	key := n.key(sessionID)
	pipe := n.client.TxPipeline()
	pipe.RPush(ctx, key, raw)
	pipe.LTrim(ctx, key, -maxPending, -1)
	pipe.Expire(ctx, key, n.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue notification: %w", err)
	}
	return nil
}

func (n *RedisNotifier) Drain(ctx context.Context, sessionID string) ([]notification.Notification, error) {
	key := n.key(sessionID)
	pipe := n.client.TxPipeline()
	items := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("drain notifications: %w", err)
	}

	out := make([]notification.Notification, 0, len(items.Val()))
	for _, raw := range items.Val() {
		var note notification.Notification
		if err := json.Unmarshal([]byte(raw), &note); err != nil {
			continue
		}
		out = append(out, note)
	}
	return out, nil
}

// MemoryNotifier is used in offline mode and tests.
type MemoryNotifier struct {
	mu      sync.Mutex
	pending map[string][]notification.Notification
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{pending: make(map[string][]notification.Notification)}
}

func (n *MemoryNotifier) Notify(_ context.Context, sessionID string, note notification.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	q := append(n.pending[sessionID], note)
	if len(q) > maxPending {
		q = q[len(q)-maxPending:]
	}
	n.pending[sessionID] = q
	return nil
}

func (n *MemoryNotifier) Drain(_ context.Context, sessionID string) ([]notification.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending[sessionID]
	delete(n.pending, sessionID)
	if out == nil {
		out = []notification.Notification{}
	}
	return out, nil
}
