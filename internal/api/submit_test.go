package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/solsmart/solsmart-backend/internal/directory"
	"github.com/solsmart/solsmart-backend/internal/external"
	"github.com/solsmart/solsmart-backend/internal/models"
	"github.com/solsmart/solsmart-backend/internal/repository"
)

// submitAddr is 34 characters from the restricted base58 alphabet.
var submitAddr = strings.Repeat("1", 34)

type fakeStore struct {
	exists    bool
	existsErr error
	insertErr error
	inserted  []*models.Submission
	listOut   []models.Submission
}

func (f *fakeStore) Exists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeStore) Insert(_ context.Context, s *models.Submission) (*models.Submission, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	saved := *s
	saved.ID = int64(len(f.inserted) + 1)
	if saved.SubmittedAt.IsZero() {
		saved.SubmittedAt = time.Now().UTC()
	}
	saved.CreatedAt = time.Now().UTC()
	f.inserted = append(f.inserted, &saved)
	return &saved, nil
}

func (f *fakeStore) List(_ context.Context, _ int) ([]models.Submission, error) {
	return f.listOut, nil
}

// cieloUpstream fakes the two Cielo endpoints and counts requests.
type cieloUpstream struct {
	portfolioStatus int
	portfolioBody   string
	pnlStatus       int
	pnlBody         string
	hits            atomic.Int32
}

func (u *cieloUpstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		switch {
		case strings.HasSuffix(r.URL.Path, "/portfolio"):
			w.WriteHeader(u.portfolioStatus)
			w.Write([]byte(u.portfolioBody))
		case strings.HasSuffix(r.URL.Path, "/pnl/tokens"):
			w.WriteHeader(u.pnlStatus)
			w.Write([]byte(u.pnlBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newSubmitServer(t *testing.T, store SubmissionStore, upstream *cieloUpstream) *Server {
	t.Helper()

	var cielo *external.CieloClient
	if upstream == nil {
		cielo = external.NewCieloClient("", external.CieloOptions{})
	} else {
		srv := httptest.NewServer(upstream.handler())
		t.Cleanup(srv.Close)
		cielo = external.NewCieloClient("test-key", external.CieloOptions{BaseURL: srv.URL, Timeout: 5 * time.Second})
	}

	return &Server{
		store: store,
		dir:   directory.Default(),
		cielo: cielo,
	}
}

func postSubmission(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.handleSubmitWallet(rr, req)
	return rr
}

func submissionBody(address string) string {
	return fmt.Sprintf(`{"walletAddress":%q,"label":"TestWallet","category":"trader"}`, address)
}

// --- input gates ---

func TestSubmit_MissingFields(t *testing.T) {
	s := newSubmitServer(t, &fakeStore{}, nil)

	rr := postSubmission(t, s, `{"walletAddress":"","label":"x","category":"trader"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Missing required fields") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}

	rr2 := postSubmission(t, s, fmt.Sprintf(`{"walletAddress":%q,"category":"trader"}`, submitAddr))
	if rr2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing label, got %d", rr2.Code)
	}
}

func TestSubmit_InvalidJSON(t *testing.T) {
	s := newSubmitServer(t, &fakeStore{}, nil)
	rr := postSubmission(t, s, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rr.Code)
	}
}

func TestSubmit_InvalidCategory(t *testing.T) {
	s := newSubmitServer(t, &fakeStore{}, nil)
	rr := postSubmission(t, s, fmt.Sprintf(`{"walletAddress":%q,"label":"x","category":"degen"}`, submitAddr))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", rr.Code)
	}
}

func TestSubmit_InvalidAddress(t *testing.T) {
	s := newSubmitServer(t, &fakeStore{}, nil)

	for _, addr := range []string{
		strings.Repeat("1", 31),       // too short
		strings.Repeat("1", 45),       // too long
		strings.Repeat("1", 33) + "0", // forbidden char
		strings.Repeat("1", 33) + "l", // forbidden char
	} {
		rr := postSubmission(t, s, submissionBody(addr))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", addr, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Invalid Solana wallet address") {
			t.Fatalf("unexpected body: %s", rr.Body.String())
		}
	}
}

// --- duplicate gates ---

func TestSubmit_AlreadyInDirectory(t *testing.T) {
	s := newSubmitServer(t, &fakeStore{}, nil)

	// Case differs from the seed entry; lookup is case-insensitive.
	seed := strings.ToLower("C21R6y1fqFUNCEzNj6VcEnjTE2y6Cq7GWLfZzkbBm7a")
	rr := postSubmission(t, s, submissionBody(seed))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "already in directory") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestSubmit_AlreadySubmitted(t *testing.T) {
	s := newSubmitServer(t, &fakeStore{exists: true}, nil)

	rr := postSubmission(t, s, submissionBody(submitAddr))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "already submitted") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

// --- disabled mode ---

func TestSubmit_DisabledMode(t *testing.T) {
	store := &fakeStore{}
	upstream := &cieloUpstream{}
	srv := httptest.NewServer(upstream.handler())
	defer srv.Close()

	// Client points at a live fake but has no credential: the pipeline
	// must reject deterministically without a single network call.
	s := &Server{
		store: store,
		dir:   directory.Default(),
		cielo: external.NewCieloClient("", external.CieloOptions{BaseURL: srv.URL}),
	}

	rr := postSubmission(t, s, submissionBody(submitAddr))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var resp rejectionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reason != "API not configured" {
		t.Fatalf("expected fixed disabled-mode reason, got %q", resp.Reason)
	}
	if upstream.hits.Load() != 0 {
		t.Fatalf("disabled mode made %d network calls", upstream.hits.Load())
	}
	if len(store.inserted) != 0 {
		t.Fatal("nothing may be persisted in disabled mode")
	}
}

// --- end-to-end scenarios ---

func pnlItems(total, profitable int) string {
	var items []string
	for i := 0; i < total; i++ {
		pnl := -10.0
		if i < profitable {
			pnl = 100.0
		}
		items = append(items, fmt.Sprintf(`{"token_symbol":"TOK%d","num_swaps":1,"total_pnl_usd":%f}`, i, pnl))
	}
	return `{"data":{"items":[` + strings.Join(items, ",") + `]}}`
}

func TestSubmit_Approved(t *testing.T) {
	store := &fakeStore{}
	upstream := &cieloUpstream{
		portfolioStatus: http.StatusOK,
		portfolioBody:   `{"data":{"total_usd":15000}}`,
		pnlStatus:       http.StatusOK,
		pnlBody:         pnlItems(12, 8), // 12 trades, 8 of 12 tokens profitable
	}
	s := newSubmitServer(t, store, upstream)

	rr := postSubmission(t, s, submissionBody(submitAddr))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp submitResponseJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if resp.Stats.PortfolioValue != 15000 || resp.Stats.TotalTrades != 12 {
		t.Fatalf("stats mismatch: %+v", resp.Stats)
	}
	// Token-level win rate: 8/12, not trade-weighted.
	if resp.Stats.WinRate < 66.6 || resp.Stats.WinRate > 66.7 {
		t.Fatalf("expected token-level win rate ~66.67, got %f", resp.Stats.WinRate)
	}
	if resp.Wallet.Address != submitAddr || !resp.Wallet.AutoApproved {
		t.Fatalf("wallet projection mismatch: %+v", resp.Wallet)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(store.inserted))
	}
	rec := store.inserted[0]
	if rec.Status != models.StatusApproved {
		t.Fatalf("expected approved status, got %s", rec.Status)
	}
	if rec.PortfolioValue != 15000 || rec.TotalTrades != 12 {
		t.Fatalf("persisted metrics mismatch: %+v", rec)
	}
	t.Logf("Approved: %+v", resp.Stats)
}

func TestSubmit_RejectedLowPortfolio(t *testing.T) {
	store := &fakeStore{}
	upstream := &cieloUpstream{
		portfolioStatus: http.StatusOK,
		portfolioBody:   `{"data":{"total_usd":5000}}`,
		pnlStatus:       http.StatusOK,
		pnlBody:         pnlItems(20, 10),
	}
	s := newSubmitServer(t, store, upstream)

	rr := postSubmission(t, s, submissionBody(submitAddr))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var resp rejectionJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Reason, "$5,000") || !strings.Contains(resp.Reason, "$10k") {
		t.Fatalf("reason must name actual and minimum values, got %q", resp.Reason)
	}
	if resp.Criteria.MinPortfolio != 10000 || resp.Criteria.MinTrades != 10 {
		t.Fatalf("criteria mismatch: %+v", resp.Criteria)
	}
	if resp.Criteria.ActualPortfolio != 5000 {
		t.Fatalf("expected actual portfolio 5000, got %f", resp.Criteria.ActualPortfolio)
	}
	if len(store.inserted) != 0 {
		t.Fatal("rejected submissions must not be persisted")
	}
	t.Logf("Correctly rejected: %s", resp.Reason)
}

func TestSubmit_RejectedTooFewTrades(t *testing.T) {
	upstream := &cieloUpstream{
		portfolioStatus: http.StatusOK,
		portfolioBody:   `{"data":{"total_usd":50000}}`,
		pnlStatus:       http.StatusOK,
		pnlBody:         pnlItems(4, 2),
	}
	s := newSubmitServer(t, &fakeStore{}, upstream)

	rr := postSubmission(t, s, submissionBody(submitAddr))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var resp rejectionJSON
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Reason != "Only 4 trades. Minimum 10 trades required." {
		t.Fatalf("unexpected reason: %q", resp.Reason)
	}
}

func TestSubmit_WalletNotFound(t *testing.T) {
	upstream := &cieloUpstream{
		portfolioStatus: http.StatusNotFound,
		pnlStatus:       http.StatusNotFound,
	}
	s := newSubmitServer(t, &fakeStore{}, upstream)

	rr := postSubmission(t, s, submissionBody(submitAddr))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var resp rejectionJSON
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if !strings.Contains(resp.Reason, "not found in Cielo") {
		t.Fatalf("unexpected reason: %q", resp.Reason)
	}
	if resp.Criteria.ActualPortfolio != 0 || resp.Criteria.ActualTrades != 0 || resp.Criteria.WinRate != 0 {
		t.Fatalf("metrics must be zeroed when the wallet is unknown: %+v", resp.Criteria)
	}
}

func TestSubmit_ProviderServerError(t *testing.T) {
	upstream := &cieloUpstream{
		portfolioStatus: http.StatusServiceUnavailable,
		pnlStatus:       http.StatusServiceUnavailable,
	}
	s := newSubmitServer(t, &fakeStore{}, upstream)

	rr := postSubmission(t, s, submissionBody(submitAddr))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var resp rejectionJSON
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Reason != "Cielo API error: 503" {
		t.Fatalf("unexpected reason: %q", resp.Reason)
	}
}

func TestSubmit_PartialFailureDefaultsToZero(t *testing.T) {
	// Portfolio leg fails, PnL leg succeeds: portfolio defaults to 0 and
	// the evaluation rejects on the portfolio threshold.
	upstream := &cieloUpstream{
		portfolioStatus: http.StatusServiceUnavailable,
		pnlStatus:       http.StatusOK,
		pnlBody:         pnlItems(20, 15),
	}
	s := newSubmitServer(t, &fakeStore{}, upstream)

	rr := postSubmission(t, s, submissionBody(submitAddr))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	var resp rejectionJSON
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if !strings.Contains(resp.Reason, "Portfolio value $0") {
		t.Fatalf("unexpected reason: %q", resp.Reason)
	}
	if resp.Criteria.ActualTrades != 20 {
		t.Fatalf("surviving leg must keep its metrics, got %+v", resp.Criteria)
	}
}

// --- persistence outcomes ---

func TestSubmit_DuplicateRaceAtInsert(t *testing.T) {
	// Exists passed but the insert lost the race: the unique index is
	// authoritative and the caller sees a duplicate conflict.
	store := &fakeStore{insertErr: repository.ErrAlreadySubmitted}
	upstream := &cieloUpstream{
		portfolioStatus: http.StatusOK,
		portfolioBody:   `{"data":{"total_usd":15000}}`,
		pnlStatus:       http.StatusOK,
		pnlBody:         pnlItems(12, 8),
	}
	s := newSubmitServer(t, store, upstream)

	rr := postSubmission(t, s, submissionBody(submitAddr))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on insert race, got %d", rr.Code)
	}
}

func TestSubmit_LedgerWriteFailure(t *testing.T) {
	store := &fakeStore{insertErr: fmt.Errorf("disk full")}
	upstream := &cieloUpstream{
		portfolioStatus: http.StatusOK,
		portfolioBody:   `{"data":{"total_usd":15000}}`,
		pnlStatus:       http.StatusOK,
		pnlBody:         pnlItems(12, 8),
	}
	s := newSubmitServer(t, store, upstream)

	rr := postSubmission(t, s, submissionBody(submitAddr))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("eligibility passed but record not durable: expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "disk full") {
		t.Fatalf("internal error detail leaked: %s", rr.Body.String())
	}
}

// --- listing ---

func TestListSubmissions(t *testing.T) {
	store := &fakeStore{listOut: []models.Submission{
		{ID: 1, Address: submitAddr, Label: "A", Status: models.StatusApproved},
	}}
	s := &Server{store: store, dir: directory.Default()}

	req := httptest.NewRequest(http.MethodGet, "/v1/submissions", nil)
	rr := httptest.NewRecorder()
	s.handleListSubmissions(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var out []models.Submission
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].Label != "A" {
		t.Fatalf("unexpected list: %+v", out)
	}
}
