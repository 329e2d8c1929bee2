package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"tally/internal/core"
	"tally/internal/kv"
	"tally/internal/kv/memory"
)

func TestAddPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	l := Open(ctx, store)

	first, err := l.Add(ctx, "Coffee", 50000, core.Expense)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := l.Add(ctx, "Salary", 2000000, core.Income)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	snap := l.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(snap))
	}
	if snap[0].ID != second.ID {
		t.Fatalf("newest transaction should be first, got %s", snap[0].ID)
	}
	if snap[1].ID != first.ID {
		t.Fatalf("older transaction should be second, got %s", snap[1].ID)
	}
	if snap[0].ID == snap[1].ID {
		t.Fatalf("ids must be unique")
	}

	if _, err := store.Get(ctx, DefaultKey); err != nil {
		t.Fatalf("collection was not persisted: %v", err)
	}
}

func TestAddValidationLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, memory.New())
	if _, err := l.Add(ctx, "Seed", 100, core.Income); err != nil {
		t.Fatalf("seed add: %v", err)
	}

	cases := []struct {
		name   string
		amount int64
		typ    core.TxType
		want   error
	}{
		{"", 100, core.Expense, core.ErrEmptyName},
		{"   ", 100, core.Expense, core.ErrEmptyName},
		{"ok", 0, core.Expense, core.ErrInvalidAmount},
		{"ok", -5, core.Income, core.ErrInvalidAmount},
		{"ok", 100, core.TxType("transfer"), core.ErrInvalidType},
	}
	for i, tc := range cases {
		_, err := l.Add(ctx, tc.name, tc.amount, tc.typ)
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
	if l.Len() != 1 {
		t.Fatalf("rejected adds must not change the collection, len=%d", l.Len())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, memory.New())
	tx, err := l.Add(ctx, "Coffee", 50000, core.Expense)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if !l.Remove(ctx, tx.ID) {
		t.Fatalf("first remove should report removal")
	}
	if l.Remove(ctx, tx.ID) {
		t.Fatalf("second remove should be a no-op")
	}
	if l.Remove(ctx, "never-existed") {
		t.Fatalf("removing an unknown id should be a no-op")
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger, len=%d", l.Len())
	}
}

func TestHydrationRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	l := Open(ctx, store)
	if _, err := l.Add(ctx, "Coffee", 50000, core.Expense); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := l.Add(ctx, "Salary", 2000000, core.Income); err != nil {
		t.Fatalf("add: %v", err)
	}
	want := l.Snapshot()

	reopened := Open(ctx, store)
	got := reopened.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("expected %d transactions after reopen, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name ||
			got[i].Amount != want[i].Amount || got[i].Type != want[i].Type {
			t.Fatalf("record %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
		if !got[i].CreatedAt.Equal(want[i].CreatedAt) {
			t.Fatalf("record %d timestamp mismatch: got %v, want %v", i, got[i].CreatedAt, want[i].CreatedAt)
		}
	}
}

func TestHydrationMalformedBlobStartsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, blob := range []string{"not json", `{"id":"x"}`, `42`} {
		store := memory.New()
		if err := store.Put(ctx, DefaultKey, []byte(blob)); err != nil {
			t.Fatalf("seed: %v", err)
		}
		l := Open(ctx, store)
		if l.Len() != 0 {
			t.Fatalf("blob %q: expected empty ledger, len=%d", blob, l.Len())
		}
		// The store must still be usable afterwards.
		if _, err := l.Add(ctx, "Fresh", 10, core.Income); err != nil {
			t.Fatalf("blob %q: add after corrupt hydrate: %v", blob, err)
		}
	}
}

// failingStore accepts nothing; used to prove write failures stay
// non-fatal.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, kv.ErrNotFound }
func (failingStore) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}
func (failingStore) Close() error { return nil }

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, failingStore{})
	tx, err := l.Add(ctx, "Coffee", 50000, core.Expense)
	if err != nil {
		t.Fatalf("add must not fail on persist error: %v", err)
	}
	snap := l.Snapshot()
	if len(snap) != 1 || snap[0].ID != tx.ID {
		t.Fatalf("in-memory state should hold the transaction: %+v", snap)
	}
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, memory.New())

	coffee, err := l.Add(ctx, "Coffee", 50000, core.Expense)
	if err != nil {
		t.Fatalf("add coffee: %v", err)
	}
	if _, err := l.Add(ctx, "Salary", 2000000, core.Income); err != nil {
		t.Fatalf("add salary: %v", err)
	}

	s := core.Aggregate(l.Snapshot())
	if s.ExpenseTotal.Units != 50000 || s.IncomeTotal.Units != 2000000 || s.Balance.Units != 1950000 {
		t.Fatalf("unexpected summary before delete: %+v", s)
	}

	l.Remove(ctx, coffee.ID)
	s = core.Aggregate(l.Snapshot())
	if s.ExpenseTotal.Units != 0 || s.IncomeTotal.Units != 2000000 || s.Balance.Units != 2000000 {
		t.Fatalf("unexpected summary after delete: %+v", s)
	}
}

func TestAddStampsCreatedAt(t *testing.T) {
	ctx := context.Background()
	l := Open(ctx, memory.New())
	fixed := time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)
	l.now = func() time.Time { return fixed }

	tx, err := l.Add(ctx, "Lunch", 75000, core.Expense)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !tx.CreatedAt.Equal(fixed) {
		t.Fatalf("CreatedAt = %v, want %v", tx.CreatedAt, fixed)
	}
}
