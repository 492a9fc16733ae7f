// Package service orchestrates record operations across the store and
// AMQP, and keeps per-owner in-memory snapshots for the report layer.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/log"
	"finanzas/internal/store"
)

// Publisher is the slice of the AMQP client the ledger needs. A nil
// publisher disables event publishing.
type Publisher interface {
	PublishRecordEvent(ctx context.Context, event *amqp.RecordEvent) error
}

// Ledger holds one owner's transaction snapshot. Writes go to the store
// first; only after the store accepts them is the snapshot updated, so a
// failed write leaves the snapshot exactly as it was. Refresh replaces
// the snapshot wholesale from the store.
type Ledger struct {
	owner     string
	store     store.TransactionStore
	publisher Publisher
	logger    *log.Logger

	mu  sync.RWMutex
	txs []core.Transaction
}

func NewLedger(owner string, st store.TransactionStore, publisher Publisher, logger *log.Logger) *Ledger {
	return &Ledger{
		owner:     owner,
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// Owner returns the owner this ledger belongs to.
func (l *Ledger) Owner() string {
	return l.owner
}

// Refresh replaces the snapshot with the store's current state.
func (l *Ledger) Refresh(ctx context.Context) error {
	txs, err := l.store.ListTransactions(ctx, l.owner)
	if err != nil {
		return fmt.Errorf("refresh ledger for %s: %w", l.owner, err)
	}

	l.mu.Lock()
	l.txs = txs
	l.mu.Unlock()
	return nil
}

// Transactions returns a copy of the snapshot, newest date first.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]core.Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// AddTransaction validates and persists a transaction, then prepends it
// to the snapshot. The AMQP event is best effort: a publish failure is
// logged and the create still succeeds.
func (l *Ledger) AddTransaction(ctx context.Context, f core.TransactionForm) (core.Transaction, error) {
	if err := f.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := l.store.CreateTransaction(ctx, l.owner, f)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	method := f.PaymentMethod
	if method == "" {
		method = "cash"
	}
	tx := core.Transaction{
		ID:            id,
		Owner:         l.owner,
		CategoryID:    f.CategoryID,
		Amount:        f.Amount,
		Kind:          f.Kind,
		Description:   f.Description,
		Date:          f.Date,
		PaymentMethod: method,
		CreatedAt:     time.Now().UTC(),
	}

	l.mu.Lock()
	l.txs = append([]core.Transaction{tx}, l.txs...)
	l.mu.Unlock()

	l.publish(ctx, amqp.NewRecordEvent("transaction", id, l.owner, amqp.ActionCreated))
	return tx, nil
}

// RemoveTransaction deletes a transaction from the store and drops it
// from the snapshot.
func (l *Ledger) RemoveTransaction(ctx context.Context, id string) error {
	if err := l.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}

	l.mu.Lock()
	for i, tx := range l.txs {
		if tx.ID == id {
			l.txs = append(l.txs[:i], l.txs[i+1:]...)
			break
		}
	}
	l.mu.Unlock()

	l.publish(ctx, amqp.NewRecordEvent("transaction", id, l.owner, amqp.ActionDeleted))
	return nil
}

func (l *Ledger) publish(ctx context.Context, event *amqp.RecordEvent) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishRecordEvent(ctx, event); err != nil {
		l.logger.ErrorContext(ctx, "Failed to publish record event",
			log.FieldError, err,
			log.FieldRecordID, event.ID,
			log.FieldOwnerID, l.owner)
	}
}

// Sessions hands out one ledger per owner, loading the snapshot from the
// store on first use.
type Sessions struct {
	store     store.TransactionStore
	publisher Publisher
	logger    *log.Logger

	mu      sync.Mutex
	ledgers map[string]*Ledger
}

func NewSessions(st store.TransactionStore, publisher Publisher, logger *log.Logger) *Sessions {
	return &Sessions{
		store:     st,
		publisher: publisher,
		logger:    logger,
		ledgers:   make(map[string]*Ledger),
	}
}

// For returns the owner's ledger, creating and refreshing it on first use.
// The snapshot is loaded before the ledger becomes visible to other
// callers, so a concurrent first use never observes an empty or failed
// ledger.
func (s *Sessions) For(ctx context.Context, owner string) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ledger, ok := s.ledgers[owner]; ok {
		return ledger, nil
	}

	ledger := NewLedger(owner, s.store, s.publisher, s.logger)
	if err := ledger.Refresh(ctx); err != nil {
		return nil, err
	}
	s.ledgers[owner] = ledger
	return ledger, nil
}
