package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TxType = "expense"
	Income  TxType = "income"
)

type (
	// TxType distinguishes the two kinds of recorded transactions.
	TxType string

	Money struct {
		Units int64
	}

	// Transaction is one recorded income or expense event. Records are
	// immutable after creation; deletion is keyed by ID only.
	Transaction struct {
		ID        string
		Name      string
		Amount    Money
		Type      TxType
		CreatedAt time.Time
	}
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
)

func (t TxType) Validate() error {
	switch t {
	case Expense, Income:
		return nil
	default:
		return ErrInvalidType
	}
}

// String implements fmt.Stringer
func (t TxType) String() string {
	return string(t)
}

func (m Money) Validate() error {
	if m.Units <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if len(strings.TrimSpace(tx.Name)) == 0 {
		return ErrEmptyName
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	return tx.Type.Validate()
}
