package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// envelope carries an event across the Redis channel together with the
// identity it is addressed to.
type envelope struct {
	Recipient string `json:"recipient"`
	Name      string `json:"name"`
	Event     Event  `json:"event"`
}

// RedisRelay fans events out across API instances over a single pub/sub
// channel. Publishing happens on send; every instance runs a subscriber
// loop that forwards incoming envelopes into its local Hub, so a hire
// committed on one instance reaches a session connected to another.
type RedisRelay struct {
	client  redis.UniversalClient
	hub     *Hub
	channel string
	logger  *log.Logger
}

func NewRedisRelay(client redis.UniversalClient, hub *Hub, channel string, logger *log.Logger) *RedisRelay {
	if channel == "" {
		channel = "gig-marketplace:notifications"
	}

	return &RedisRelay{
		client:  client,
		hub:     hub,
		channel: channel,
		logger:  logger,
	}
}

func (r *RedisRelay) SendToIdentity(identity string, event Event) error {
	payload, err := json.Marshal(envelope{
		Recipient: identity,
		Name:      event.Name,
		Event:     event,
	})
	if err != nil {
		return err
	}

	return r.client.Publish(context.Background(), r.channel, payload).Err()
}

// Run blocks on the subscription until ctx is cancelled. Malformed
// messages are logged and skipped.
func (r *RedisRelay) Run(ctx context.Context) {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}

			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.logger.Printf("discarding malformed notification payload: %v", err)
				continue
			}

			env.Event.Name = env.Name
			_ = r.hub.SendToIdentity(env.Recipient, env.Event)
		}
	}
}
