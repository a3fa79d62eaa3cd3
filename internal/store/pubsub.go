package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "lobby-events:"

// PubSub broadcasts events to every socket currently subscribed to a
// lobby's group, regardless of which front-end process holds the socket.
type PubSub struct {
	rdb *redis.Client
}

func NewPubSub(rdb *redis.Client) *PubSub {
	return &PubSub{rdb: rdb}
}

func channel(lobbyName string) string {
	return channelPrefix + lobbyName
}

// Publish broadcasts v, JSON-encoded, to every subscriber of lobbyName.
func (p *PubSub) Publish(ctx context.Context, lobbyName string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, channel(lobbyName), b).Err()
}

// Subscription is a live subscription to one lobby's event group.
type Subscription struct {
	sub *redis.PubSub
}

// Subscribe attaches to lobbyName's event group. The caller must Close the
// subscription when the socket detaches.
func (p *PubSub) Subscribe(ctx context.Context, lobbyName string) *Subscription {
	return &Subscription{sub: p.rdb.Subscribe(ctx, channel(lobbyName))}
}

func (s *Subscription) Close() error {
	return s.sub.Close()
}

// Channel yields every message published to the subscribed group, in
// broadcast order.
func (s *Subscription) Channel() <-chan *redis.Message {
	return s.sub.Channel()
}
