package service

import (
	"context"
	"fmt"

	"gocloud.dev/pubsub"

	// Register the in-process driver; other gocloud.dev drivers can be added here.
	_ "gocloud.dev/pubsub/mempubsub"
)

// Message is a delivered outbox event on its way to subscribers.
type Message struct {
	TenantID  string
	EventType string
	Body      []byte
}

// Publisher sends messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Shutdown(ctx context.Context) error
}

// topicPublisher implements Publisher on a gocloud.dev/pubsub topic.
type topicPublisher struct {
	topic *pubsub.Topic
}

// OpenPublisher opens the topic at url, e.g. "mem://notifications".
func OpenPublisher(ctx context.Context, url string) (Publisher, error) {
	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open notification topic: %w", err)
	}
	return &topicPublisher{topic: topic}, nil
}

// NewTopicPublisher wraps an already opened topic.
func NewTopicPublisher(topic *pubsub.Topic) Publisher {
	return &topicPublisher{topic: topic}
}

// Publish sends msg, tagging it with tenant and event type metadata.
func (p *topicPublisher) Publish(ctx context.Context, msg Message) error {
	err := p.topic.Send(ctx, &pubsub.Message{
		Body: msg.Body,
		Metadata: map[string]string{
			"tenant_id":  msg.TenantID,
			"event_type": msg.EventType,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.EventType, err)
	}
	return nil
}

// Shutdown flushes pending sends and closes the topic.
func (p *topicPublisher) Shutdown(ctx context.Context) error {
	return p.topic.Shutdown(ctx)
}
