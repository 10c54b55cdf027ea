package service

import (
	"context"
)

// VerificationEvent represents a detached verification-issuance task handed to
// the mail worker. Published after signup commits; the publisher's failure
// path is log-only and never fails the signup that triggered it.
type VerificationEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// EventPublisher defines the interface for publishing events to a message queue.
type EventPublisher interface {
	// PublishVerificationEvent publishes a verification-issuance event for async processing.
	PublishVerificationEvent(ctx context.Context, event *VerificationEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
