// Package kafka consumes post-processing requests from a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"shortreel/types"
)

// PostHandler processes one collected post. A returned error leaves the
// message unmarked so the group redelivers it.
type PostHandler func(ctx context.Context, post types.Post) error

// Consumer reads posts from a Kafka topic as part of a consumer group.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler PostHandler
	topic   string
	groupID string
	ready   chan bool
}

// ConsumerConfig holds the Kafka consumer settings.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler PostHandler
}

// NewConsumer creates a consumer-group member for post messages.
func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   group,
		handler: cfg.Handler,
		topic:   cfg.Topic,
		groupID: cfg.GroupID,
		ready:   make(chan bool),
	}, nil
}

// Start begins consuming post messages until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &groupHandler{handler: c.handler, ready: c.ready}

	go func() {
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
				if err == context.Canceled {
					log.Println("Kafka consumer context canceled")
					return
				}
				log.Printf("Kafka consumer error: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan bool)
		}
	}()

	<-c.ready
	log.Printf("Kafka consumer started (group: %s, topic: %s)", c.groupID, c.topic)

	go func() {
		for err := range c.group.Errors() {
			log.Printf("Kafka consumer error: %v", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the consumer.
func (c *Consumer) Close() error {
	log.Println("Closing Kafka consumer...")
	return c.group.Close()
}

type groupHandler struct {
	handler PostHandler
	ready   chan bool
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			log.Printf("received post message: partition=%d, offset=%d, key=%s",
				message.Partition, message.Offset, string(message.Key))

			var post types.Post
			if err := json.Unmarshal(message.Value, &post); err != nil {
				log.Printf("failed to unmarshal post message, skipping: %v", err)
				session.MarkMessage(message, "")
				continue
			}
			post.Normalize()

			if post.ID == "" || (post.Title == "" && post.SelfText == "") {
				log.Printf("discarding post message with no usable content")
				session.MarkMessage(message, "")
				continue
			}

			if err := h.handler(session.Context(), post); err != nil {
				log.Printf("failed to process post %s: %v", post.ID, err)
				continue
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}
