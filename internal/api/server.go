package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/solsmart/solsmart-backend/internal/directory"
	"github.com/solsmart/solsmart-backend/internal/external"
	"github.com/solsmart/solsmart-backend/internal/models"
	"github.com/solsmart/solsmart-backend/internal/notifications"
	"github.com/solsmart/solsmart-backend/internal/repository"
)

const maxQueryLimit = 1000

// SubmissionStore is the ledger surface the handlers need. Abstracted so
// the submission pipeline can be tested without a database.
type SubmissionStore interface {
	Exists(ctx context.Context, address string) (bool, error)
	Insert(ctx context.Context, s *models.Submission) (*models.Submission, error)
	List(ctx context.Context, limit int) ([]models.Submission, error)
}

type Server struct {
	pool       *pgxpool.Pool
	store      SubmissionStore
	dir        *directory.Directory
	cielo      *external.CieloClient
	notify     *notifications.Sender
	httpServer *http.Server
	apiKey     string
}

func NewServer(pool *pgxpool.Pool, port int, apiKey, corsOrigin string, cielo *external.CieloClient, notify *notifications.Sender) *Server {
	s := &Server{
		pool:   pool,
		store:  repository.NewSubmissionRepo(pool),
		dir:    directory.Default(),
		cielo:  cielo,
		notify: notify,
		apiKey: apiKey,
	}

	mux := http.NewServeMux()

	// Submission routes
	mux.HandleFunc("POST /v1/submissions", s.handleSubmitWallet)
	mux.HandleFunc("GET /v1/submissions", s.handleListSubmissions)

	// Directory routes
	mux.HandleFunc("GET /v1/wallets", s.handleWallets)
	mux.HandleFunc("GET /v1/wallets/{address}", s.handleWalletByAddress)
	mux.HandleFunc("GET /v1/categories", s.handleCategories)

	// Analytics routes (Cielo pass-through)
	mux.HandleFunc("GET /v1/wallets/trending", s.handleTrendingWallets)
	mux.HandleFunc("GET /v1/wallets/{address}/stats", s.handleWalletStats)
	mux.HandleFunc("GET /v1/wallets/{address}/pnl", s.handleWalletPnl)
	mux.HandleFunc("GET /v1/wallets/{address}/transactions", s.handleWalletTransactions)
	mux.HandleFunc("GET /v1/wallets/{address}/related-wallets", s.handleRelatedWallets)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	// CORS wraps auth so a browser preflight (OPTIONS, no Authorization
	// header) is answered before the bearer check, and error responses
	// carry the CORS headers.
	handler := recoverMiddleware(corsMiddleware(s.authMiddleware(mux), corsOrigin))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	fmt.Printf("[API] REST API server started on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Health check: http://localhost%s/health\n", s.httpServer.Addr)
	if s.apiKey != "" {
		fmt.Println("[API] Authentication: enabled (Bearer token)")
	} else {
		fmt.Println("[API] Authentication: disabled (no API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware converts panics into a generic 500. Internal detail is
// logged server-side, never sent to the caller.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Printf("[API] Panic serving %s %s: %v\n", r.Method, r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// --- validation helpers ---

func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
