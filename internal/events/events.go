// Package events holds the cross-service event contracts and the Kafka
// plumbing used to publish and consume them.
package events

import (
	"context"
	"fmt"
)

// Topics shared across the platform. Producers own the order.* and payment.*
// topics; auth.user.registered comes from the user service.
const (
	TopicOrderCreated     = "order.created"
	TopicOrderUpdated     = "order.updated"
	TopicOrderCancelled   = "order.cancelled"
	TopicPaymentProcessed = "payment.processed"
	TopicPaymentFailed    = "payment.failed"
	TopicPaymentRefunded  = "payment.refunded"
	TopicUserRegistered   = "auth.user.registered"
)

// Publisher publishes a JSON-serialized payload to a topic. Delivery is
// at-most-once: there is no retry, no outbox and no acknowledgment tracking
// beyond the broker write itself.
type Publisher interface {
	Emit(ctx context.Context, topic, key string, payload any) error
}

// PublishError reports a failed broker publish. By the time it surfaces the
// caller's state mutation is already committed; the event is simply lost.
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %s: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
