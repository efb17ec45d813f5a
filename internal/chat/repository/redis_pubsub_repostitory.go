package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"school_chat_service/internal/chat/domain"
	"school_chat_service/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// PubSub delivery bus between sessions; every principal gets a private
// channel and each live session subscribes to its own
type PubSub interface {
	Publish(channel string, resp domain.WSResponse) error
	Subscribe(ctx context.Context, channel string, handler func(resp domain.WSResponse)) error
}

// UserChannel channel name of a principal's private delivery channel
func UserChannel(principalID string) string {
	return "chat:user:" + principalID
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		ctx:    context.Background(),
	}
}

// Publish serialize the event and publish it on channel
func (r *RedisPubSub) Publish(channel string, resp domain.WSResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, channel, data).Err()
}

// Subscribe listen on channel until ctx is cancelled, calling handler per event
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(resp domain.WSResponse)) error {
	sub := r.client.Subscribe(r.ctx, channel)
	go func() {
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var resp domain.WSResponse
				if err := json.Unmarshal([]byte(m.Payload), &resp); err != nil {
					logger.Log.Errorf("pubsub unmarshal error:", err)
					continue
				}
				handler(resp)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channel))
				sub.Close()
				return
			}
		}
	}()
	return nil
}
