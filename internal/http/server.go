// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Options tunes server behaviour beyond the wiring arguments.
type Options struct {
	// RecentLimit caps the dashboard's recent transaction list.
	RecentLimit int
	// CacheTTL bounds how stale a cached dashboard report may get.
	CacheTTL time.Duration
}

// Server serves the transaction, category, dashboard and export endpoints.
type Server struct {
	http.Server

	store        ledger.Store
	transactions *services.TransactionService
	logger       *log.Logger

	recentLimit int

	// reportCache holds computed dashboard reports keyed by period. Every
	// successful write purges it, so the TTL only matters for writes that
	// bypass this process.
	reportCache  *cache.LRU[core.Report]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store ledger.Store, transactions *services.TransactionService, logger *log.Logger, opts Options) *Server {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = core.DefaultRecentLimit
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}

	s := &Server{
		store:        store,
		transactions: transactions,
		logger:       logger.WithComponent(log.ComponentHTTP),
		recentLimit:  opts.RecentLimit,
		reportCache:  cache.NewLRU[core.Report](64, opts.CacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.Start(time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/export", s.handleExport)

	tracer := trace.NewMiddleware(logger)
	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the background cache sweeper and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// invalidateReports drops every cached dashboard report. Called after any
// write, since a single transaction can shift totals in any period.
func (s *Server) invalidateReports() {
	s.reportCache.Purge()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
