// Package services orchestrates ledger operations across the storage
// backend and the AMQP event stream.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"affitti/internal/amqp"
	"affitti/internal/core"
	"affitti/internal/ledger"
)

// EventPublisher publishes ledger change events. Satisfied by
// *amqp.Client.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, id, action string) error
	Close() error
}

// TransactionService persists transactions and publishes change events.
// It implements ledger.Store so the HTTP layer stays unaware of AMQP.
type TransactionService struct {
	store     ledger.Store
	publisher EventPublisher
}

var _ ledger.Store = (*TransactionService)(nil)

func NewTransactionService(store ledger.Store, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

// Append saves a transaction locally and publishes a created event.
// Publish failures are logged, not returned: the local save already
// succeeded and the export worker sweeps pending rows anyway.
func (s *TransactionService) Append(ctx context.Context, tx core.Transaction) (string, error) {
	id, err := s.store.Append(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publish(ctx, id, amqp.ActionCreated); err != nil {
		slog.ErrorContext(ctx, "Failed to publish created event", "id", id, "error", err)
	}

	return id, nil
}

// Delete removes a transaction locally and publishes a deleted event.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.publish(ctx, id, amqp.ActionDeleted); err != nil {
		slog.ErrorContext(ctx, "Failed to publish deleted event", "id", id, "error", err)
	}

	return nil
}

func (s *TransactionService) ListAll(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListAll(ctx)
}

func (s *TransactionService) publish(ctx context.Context, id, action string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping event", "action", action)
		return nil
	}
	return s.publisher.PublishTransactionEvent(ctx, id, action)
}

// Close closes the storage backend and the AMQP connection.
func (s *TransactionService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
