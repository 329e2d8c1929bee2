// Package ledger holds the in-memory transaction collection and mirrors
// it to a kv.Store blob on every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tally/internal/core"
	"tally/internal/kv"
)

// DefaultKey is the kv key the collection is stored under.
const DefaultKey = "transactions"

// record is the persisted form of a transaction. CreatedAt round-trips
// as an ISO-8601 string via encoding/json.
type record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    int64     `json:"amount"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// Ledger owns the ordered transaction collection, newest first. All
// mutations run under the mutex and finish with a full persist; a
// failed persist is logged and the in-memory state stays authoritative
// until the next successful write.
type Ledger struct {
	mu    sync.Mutex
	items []core.Transaction
	store kv.Store
	key   string

	now   func() time.Time
	newID func() string
}

// Open hydrates a ledger from the backing store. A missing, malformed,
// or non-array blob starts the ledger empty instead of failing:
// wiping user data over a bad read would be worse than a fresh start.
func Open(ctx context.Context, store kv.Store) *Ledger {
	l := &Ledger{
		store: store,
		key:   DefaultKey,
		now:   time.Now,
		newID: uuid.NewString,
	}

	blob, err := store.Get(ctx, l.key)
	if err != nil {
		if err != kv.ErrNotFound {
			slog.WarnContext(ctx, "Failed to read persisted transactions, starting empty", "error", err)
		}
		return l
	}

	var records []record
	if err := json.Unmarshal(blob, &records); err != nil {
		slog.WarnContext(ctx, "Persisted transactions malformed, starting empty", "error", err)
		return l
	}

	l.items = make([]core.Transaction, len(records))
	for i, r := range records {
		l.items[i] = core.Transaction{
			ID:        r.ID,
			Name:      r.Name,
			Amount:    core.Money{Units: r.Amount},
			Type:      core.TxType(r.Type),
			CreatedAt: r.CreatedAt,
		}
	}
	slog.InfoContext(ctx, "Hydrated transaction ledger", "count", len(l.items))
	return l
}

// Add validates and records a new transaction at the front of the
// collection. On validation failure the collection is unchanged and
// the sentinel error describes the rejected field.
func (l *Ledger) Add(ctx context.Context, name string, amount int64, typ core.TxType) (core.Transaction, error) {
	tx := core.Transaction{
		ID:        l.newID(),
		Name:      name,
		Amount:    core.Money{Units: amount},
		Type:      typ,
		CreatedAt: l.now(),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]core.Transaction{tx}, l.items...)
	l.persist(ctx)

	slog.InfoContext(ctx, "Transaction recorded",
		"id", tx.ID,
		"name", tx.Name,
		"amount", tx.Amount.Units,
		"type", tx.Type.String())
	return tx, nil
}

// Remove deletes the transaction with the given id. Absent ids are a
// no-op, so Remove is idempotent.
func (l *Ledger) Remove(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, tx := range l.items {
		if tx.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.persist(ctx)
			slog.InfoContext(ctx, "Transaction removed", "id", id)
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the full collection in current order.
func (l *Ledger) Snapshot() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Transaction, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// persist overwrites the backing blob with the current collection.
// Callers must hold the mutex. Write failures are logged, never
// surfaced: the next successful write resynchronizes.
func (l *Ledger) persist(ctx context.Context) {
	records := make([]record, len(l.items))
	for i, tx := range l.items {
		records[i] = record{
			ID:        tx.ID,
			Name:      tx.Name,
			Amount:    tx.Amount.Units,
			Type:      string(tx.Type),
			CreatedAt: tx.CreatedAt,
		}
	}

	blob, err := json.Marshal(records)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal transactions", "error", err)
		return
	}
	if err := l.store.Put(ctx, l.key, blob); err != nil {
		slog.ErrorContext(ctx, "Failed to persist transactions", "error", err, "count", len(records))
	}
}
