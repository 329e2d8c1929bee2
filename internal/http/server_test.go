package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tally/internal/kv/memory"
	"tally/internal/ledger"
	"tally/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := memory.New()
	l := ledger.Open(context.Background(), store)
	svc := services.NewTransactionService(l, store, nil)
	srv := NewServer(":0", svc, 10, time.Minute)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []string{
		`{"name":"","amount":"50000","type":"expense"}`,
		`{"name":"   ","amount":"50000","type":"expense"}`,
		`{"name":"Coffee","amount":"abc","type":"expense"}`,
		`{"name":"Coffee","amount":"0","type":"expense"}`,
		`{"name":"Coffee","amount":"-10","type":"expense"}`,
		`{"name":"Coffee","amount":500.5,"type":"expense"}`,
		`{"name":"Coffee","amount":"500.5","type":"expense"}`,
		`{"name":"Coffee","amount":"50000","type":"transfer"}`,
	}
	for i, body := range cases {
		rr := doJSON(t, srv, http.MethodPost, "/transactions", body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("case %d: expected 422, got %d: %s", i, rr.Code, rr.Body.String())
		}
	}

	// Nothing should have been recorded.
	rr := doJSON(t, srv, http.MethodGet, "/transactions", "")
	var resp listJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp.Transactions) != 0 {
		t.Fatalf("rejected creates must not be stored: %+v", resp.Transactions)
	}
}

func TestCreateTransactionSuccess(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/transactions",
		`{"name":"Coffee","amount":"50000","type":"expense"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var tx transactionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &tx); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tx.ID == "" || tx.Name != "Coffee" || tx.Amount != 50000 || tx.Type != "expense" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if tx.CreatedAt.IsZero() {
		t.Fatalf("createdAt should be stamped")
	}
}

func TestCreateAcceptsFormAndNumericAmount(t *testing.T) {
	srv := newTestServer(t)

	// Form-encoded body
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions",
		strings.NewReader("name=Salary&amount=2000000&type=income"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("form create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	// JSON numeric amount
	rr = doJSON(t, srv, http.MethodPost, "/transactions",
		`{"name":"Bonus","amount":150000,"type":"income"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("numeric amount: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/transactions",
		`{"name":"Coffee","amount":"50000","type":"expense"}`)
	var tx transactionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &tx); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for i := 0; i < 2; i++ {
		rr = doJSON(t, srv, http.MethodDelete, "/transactions/"+tx.ID, "")
		if rr.Code != http.StatusNoContent {
			t.Fatalf("delete attempt %d: expected 204, got %d", i+1, rr.Code)
		}
	}

	rr = doJSON(t, srv, http.MethodGet, "/transactions", "")
	var resp listJSON
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp.Transactions) != 0 {
		t.Fatalf("expected empty list after delete: %+v", resp.Transactions)
	}
}

func TestListWithTypeSelector(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/transactions", `{"name":"Coffee","amount":"50000","type":"expense"}`)
	doJSON(t, srv, http.MethodPost, "/transactions", `{"name":"Salary","amount":"2000000","type":"income"}`)

	rr := doJSON(t, srv, http.MethodGet, "/transactions?type=expense", "")
	var resp listJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Transactions) != 1 || resp.Transactions[0].Type != "expense" {
		t.Fatalf("type selector should narrow the list: %+v", resp.Transactions)
	}
	// Totals come from the date-filtered subset, before the selector.
	if resp.Summary.IncomeTotal != 2000000 || resp.Summary.ExpenseTotal != 50000 || resp.Summary.Balance != 1950000 {
		t.Fatalf("summary must ignore the type selector: %+v", resp.Summary)
	}
}

func TestListNewestFirst(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/transactions", `{"name":"First","amount":"100","type":"expense"}`)
	doJSON(t, srv, http.MethodPost, "/transactions", `{"name":"Second","amount":"200","type":"expense"}`)

	rr := doJSON(t, srv, http.MethodGet, "/transactions", "")
	var resp listJSON
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp.Transactions) != 2 || resp.Transactions[0].Name != "Second" {
		t.Fatalf("expected newest first: %+v", resp.Transactions)
	}
}

func TestSummaryEndpointAndCacheInvalidation(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/transactions", `{"name":"Coffee","amount":"50000","type":"expense"}`)

	rr := doJSON(t, srv, http.MethodGet, "/summary", "")
	var s summaryJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.ExpenseTotal != 50000 || !s.Chartable {
		t.Fatalf("unexpected summary: %+v", s)
	}

	// A mutation must invalidate the cached summary.
	doJSON(t, srv, http.MethodPost, "/transactions", `{"name":"Salary","amount":"2000000","type":"income"}`)
	rr = doJSON(t, srv, http.MethodGet, "/summary", "")
	_ = json.Unmarshal(rr.Body.Bytes(), &s)
	if s.IncomeTotal != 2000000 || s.Balance != 1950000 {
		t.Fatalf("stale summary after mutation: %+v", s)
	}
}

func TestSummaryEmptyIsPlaceholder(t *testing.T) {
	srv := newTestServer(t)
	rr := doJSON(t, srv, http.MethodGet, "/summary", "")
	var s summaryJSON
	_ = json.Unmarshal(rr.Body.Bytes(), &s)
	if s.Chartable {
		t.Fatalf("empty store should not be chartable: %+v", s)
	}
	if s.ExpenseTotal != 0 || s.IncomeTotal != 0 || s.Balance != 0 {
		t.Fatalf("expected zero totals: %+v", s)
	}
}

func TestFilterFailOpenOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/transactions", `{"name":"Coffee","amount":"50000","type":"expense"}`)

	// Garbage month and range input behaves as "no filter".
	for _, query := range []string{
		"?filter=month&month=garbage",
		"?filter=month",
		"?filter=range&start=not-a-date&end=also-bad",
		"?filter=range",
		"?filter=bogus",
	} {
		rr := doJSON(t, srv, http.MethodGet, "/transactions"+query, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status=%d", query, rr.Code)
		}
		var resp listJSON
		_ = json.Unmarshal(rr.Body.Bytes(), &resp)
		if len(resp.Transactions) != 1 {
			t.Fatalf("%s: expected fail-open full list, got %+v", query, resp.Transactions)
		}
	}
}

func TestBadRequestBody(t *testing.T) {
	srv := newTestServer(t)
	rr := doJSON(t, srv, http.MethodPost, "/transactions", `{"name": truncated`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
