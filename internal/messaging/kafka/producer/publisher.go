package producer

import (
	"context"

	"github.com/aanyashri/hrmsbackend-users/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// publish writes one outbox event to its topic. The aggregate id keys the
// message so events for one aggregate stay in partition order.
func publish(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
