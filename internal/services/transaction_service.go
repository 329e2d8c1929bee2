package services

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/kv"
	"tally/internal/ledger"
)

// TransactionService orchestrates the ledger and optional event
// publishing. Event failures never fail the user operation; the ledger
// write is the source of truth.
type TransactionService struct {
	ledger     *ledger.Ledger
	store      kv.Store
	amqpClient *amqp.Client
}

func NewTransactionService(l *ledger.Ledger, store kv.Store, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		ledger:     l,
		store:      store,
		amqpClient: amqpClient,
	}
}

// Create records a transaction and publishes a created event.
func (s *TransactionService) Create(ctx context.Context, name string, amount int64, typ core.TxType) (core.Transaction, error) {
	tx, err := s.ledger.Add(ctx, name, amount, typ)
	if err != nil {
		return core.Transaction{}, err
	}

	if err := s.publish(ctx, amqp.NewCreatedEvent(tx.ID, tx.Name, tx.Amount.Units, tx.Type.String())); err != nil {
		slog.ErrorContext(ctx, "Failed to publish created event", "id", tx.ID, "error", err)
	}
	return tx, nil
}

// Delete removes a transaction by id; absent ids are a quiet no-op.
func (s *TransactionService) Delete(ctx context.Context, id string) {
	if !s.ledger.Remove(ctx, id) {
		return
	}
	if err := s.publish(ctx, amqp.NewDeletedEvent(id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish deleted event", "id", id, "error", err)
	}
}

// List applies the date filter, the independent type selector, and the
// aggregator in the order the presentation layer needs: totals come
// from the date-filtered subset, the visible list from the type filter
// on top of it.
func (s *TransactionService) List(ctx context.Context, f core.Filter, typeSelector string) ([]core.Transaction, core.Summary) {
	filtered := f.Apply(s.ledger.Snapshot())
	return core.ByType(filtered, typeSelector), core.Aggregate(filtered)
}

// Summary returns totals for the date-filtered subset.
func (s *TransactionService) Summary(ctx context.Context, f core.Filter) core.Summary {
	return core.Aggregate(f.Apply(s.ledger.Snapshot()))
}

func (s *TransactionService) publish(ctx context.Context, msg *amqp.TransactionEvent) error {
	if s.amqpClient == nil {
		return nil
	}
	return s.amqpClient.PublishEvent(ctx, msg)
}

// Close releases the backing store and the AMQP connection.
func (s *TransactionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
