package http

import (
	"encoding/json"
	"net/http"
	"time"

	"tally/internal/core"
)

type transactionJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    int64     `json:"amount"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type summaryJSON struct {
	ExpenseTotal        int64  `json:"expenseTotal"`
	IncomeTotal         int64  `json:"incomeTotal"`
	Balance             int64  `json:"balance"`
	ExpenseTotalDisplay string `json:"expenseTotalDisplay"`
	IncomeTotalDisplay  string `json:"incomeTotalDisplay"`
	BalanceDisplay      string `json:"balanceDisplay"`
	// Chartable is false when both totals are zero: the client renders
	// a placeholder instead of an empty chart.
	Chartable bool `json:"chartable"`
}

type listJSON struct {
	Transactions []transactionJSON `json:"transactions"`
	Summary      summaryJSON       `json:"summary"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:        tx.ID,
		Name:      tx.Name,
		Amount:    tx.Amount.Units,
		Type:      tx.Type.String(),
		CreatedAt: tx.CreatedAt,
	}
}

func toSummaryJSON(s core.Summary) summaryJSON {
	return summaryJSON{
		ExpenseTotal:        s.ExpenseTotal.Units,
		IncomeTotal:         s.IncomeTotal.Units,
		Balance:             s.Balance.Units,
		ExpenseTotalDisplay: s.ExpenseTotal.Format(),
		IncomeTotalDisplay:  s.IncomeTotal.Format(),
		BalanceDisplay:      s.Balance.Format(),
		Chartable:           !s.IsZero(),
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorJSON{Error: message})
}
