package http

import (
	"log/slog"
	"net/http"

	"tally/internal/core"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := parseBody(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Parse body error", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	name := body.Get("name")
	amountStr := body.Get("amount")
	typ := core.TxType(body.Get("type"))

	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	tx, err := s.svc.Create(r.Context(), name, amount, typ)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	// Absent ids are a no-op, so delete always succeeds.
	s.svc.Delete(r.Context(), id)
	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, selector := parseFilter(r.URL.Query())

	visible, summary := s.svc.List(r.Context(), filter, selector)

	resp := listJSON{
		Transactions: make([]transactionJSON, len(visible)),
		Summary:      toSummaryJSON(summary),
	}
	for i, tx := range visible {
		resp.Transactions[i] = toTransactionJSON(tx)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, _ := parseFilter(r.URL.Query())
	key := filterCacheKey(filter)

	if cached, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "key", key)
		writeJSON(w, http.StatusOK, toSummaryJSON(cached))
		return
	}

	summary := s.svc.Summary(r.Context(), filter)
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, toSummaryJSON(summary))
}
