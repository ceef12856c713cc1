// Package events fans captured leads out to background consumers over
// watermill, in memory by default or through Redis Streams.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	rstream "github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"leadchat-backend/internal/leads"
)

const TopicLeadCaptured = "lead.captured"

type Settings struct {
	// RedisAddr switches the bus to Redis Streams when set.
	RedisAddr string
	Group     string
	Consumer  string
}

type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	client     *redis.Client
	logger     zerolog.Logger
}

func NewBus(ctx context.Context, s Settings, logger zerolog.Logger) (*Bus, error) {
	wlog := NewWatermillLogger(logger)
	if s.RedisAddr == "" {
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wlog)
		return &Bus{publisher: ch, subscriber: ch, logger: logger}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: s.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", s.RedisAddr, err)
	}
	marshaler := rstream.DefaultMarshallerUnmarshaller{}

	pub, err := rstream.NewPublisher(rstream.PublisherConfig{
		Client:     client,
		Marshaller: marshaler,
	}, wlog)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create redis publisher: %w", err)
	}
	sub, err := rstream.NewSubscriber(rstream.SubscriberConfig{
		Client:        client,
		Unmarshaller:  marshaler,
		ConsumerGroup: s.Group,
		Consumer:      s.Consumer,
	}, wlog)
	if err != nil {
		pub.Close()
		client.Close()
		return nil, fmt.Errorf("create redis subscriber: %w", err)
	}
	return &Bus{publisher: pub, subscriber: sub, client: client, logger: logger}, nil
}

// PublishLead satisfies leads.Publisher.
func (b *Bus) PublishLead(ctx context.Context, lead leads.Captured) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("encode lead event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("lead_id", lead.ID)
	msg.Metadata.Set("session_id", lead.SessionID)
	msg.SetContext(ctx)
	return b.publisher.Publish(TopicLeadCaptured, msg)
}

// SubscribeLeads must be called before the first PublishLead when the bus is
// in memory; earlier messages are dropped.
func (b *Bus) SubscribeLeads(ctx context.Context) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, TopicLeadCaptured)
}

func (b *Bus) Close() error {
	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if b.client != nil {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := b.client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
