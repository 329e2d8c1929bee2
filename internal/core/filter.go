package core

import "time"

const (
	FilterAll   FilterMode = "all"
	FilterMonth FilterMode = "month"
	FilterRange FilterMode = "range"
)

type (
	FilterMode string

	// Filter selects transactions by creation time. It is transient
	// request state, never persisted. Invalid or missing dimensions fail
	// open: the filter behaves as if that dimension were unset rather
	// than erroring, so bad input can never hide the user's data.
	Filter struct {
		Mode  FilterMode
		Year  int // month mode, e.g. 2026
		Month int // month mode, 1-12
		Start *time.Time // range mode, calendar day, inclusive
		End   *time.Time // range mode, calendar day, inclusive
	}
)

// Apply returns the subset of txs whose CreatedAt falls inside the
// filter window, preserving input order. The input slice is never
// mutated; mode "all" (and any fail-open path) returns it unchanged.
func (f Filter) Apply(txs []Transaction) []Transaction {
	switch f.Mode {
	case FilterMonth:
		return f.applyMonth(txs)
	case FilterRange:
		return f.applyRange(txs)
	default:
		return txs
	}
}

func (f Filter) applyMonth(txs []Transaction) []Transaction {
	if f.Year <= 0 || f.Month <= 0 || f.Month > 12 {
		// Fail open: an unset or unparseable month shows everything.
		return txs
	}
	from := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.Local)
	// Day 0 of the next month is the last day of this one.
	to := time.Date(f.Year, time.Month(f.Month)+1, 0, 23, 59, 59, 999*int(time.Millisecond), time.Local)
	return between(txs, &from, &to)
}

func (f Filter) applyRange(txs []Transaction) []Transaction {
	if f.Start == nil && f.End == nil {
		return txs
	}
	var from, to *time.Time
	if f.Start != nil {
		d := startOfDay(*f.Start)
		from = &d
	}
	if f.End != nil {
		d := endOfDay(*f.End)
		to = &d
	}
	return between(txs, from, to)
}

func between(txs []Transaction, from, to *time.Time) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if from != nil && tx.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && tx.CreatedAt.After(*to) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999*int(time.Millisecond), t.Location())
}

// ByType narrows an already date-filtered subset for list display.
// Selector "all" (or empty) is the identity. The selector never feeds
// into Aggregate; totals are computed before it is applied.
func ByType(txs []Transaction, selector string) []Transaction {
	if selector == "" || selector == string(FilterAll) {
		return txs
	}
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if string(tx.Type) == selector {
			out = append(out, tx)
		}
	}
	return out
}

// ParseDate parses a YYYY-MM-DD calendar date. Invalid input returns
// nil so callers fail open to an unbounded range edge.
func ParseDate(s string) *time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// ParseMonth parses a YYYY-MM month. Invalid input returns (0, 0),
// which Apply treats as "no month filter".
func ParseMonth(s string) (year, month int) {
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return 0, 0
	}
	return t.Year(), int(t.Month())
}
