package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"gringotts-bank/internal/config"
	"gringotts-bank/internal/domain"
	"gringotts-bank/internal/handler"
	"gringotts-bank/internal/repository"
	"gringotts-bank/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Server represents the HTTP server
type Server struct {
	router *mux.Router
	server *http.Server
	db     *sql.DB // nil when running on the in-memory store
	logger *slog.Logger
	port   string
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	var store domain.Store
	var db *sql.DB

	switch cfg.StoreDriver {
	case config.StoreMemory:
		// Sandbox mode: ephemeral state, reseeded on every start.
		memStore := repository.NewMemoryStore()
		if err := seedStore(memStore); err != nil {
			return nil, err
		}
		store = memStore
		if logger != nil {
			logger.Info("Using in-memory store (sandbox mode)")
		}

	default:
		var err error
		db, err = openDatabase(cfg, logger)
		if err != nil {
			return nil, err
		}
		store = repository.NewStore(db, logger)
	}

	// Initialize services
	accountService := service.NewAccountService(store, logger)
	transactionService := service.NewTransactionService(store, logger)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountService)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	// Setup router
	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))

	// Account routes
	router.HandleFunc("/accounts", accountHandler.GetAccounts).Methods("GET")
	router.HandleFunc("/accounts/{id}", accountHandler.GetAccount).Methods("GET")

	// Transaction routes. /transactions/transfer is registered before
	// /transactions/{id} so mux does not swallow it as an id.
	router.HandleFunc("/transactions", transactionHandler.ListTransactions).Methods("GET")
	router.HandleFunc("/transactions", transactionHandler.CreateTransaction).Methods("POST")
	router.HandleFunc("/transactions/transfer", transactionHandler.Transfer).Methods("POST")
	router.HandleFunc("/transactions/account/{accountId}", transactionHandler.ListTransactionsByAccount).Methods("GET")
	router.HandleFunc("/transactions/{id}", transactionHandler.GetTransaction).Methods("GET")

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			if err := db.Ping(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": "database unavailable"})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	return &Server{
		router: router,
		db:     db,
		logger: logger,
	}, nil
}

func openDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDBConnectionString())
	if err != nil {
		return nil, err
	}

	// Configure connection pool for better performance
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("Successfully connected to database")
	}

	if err := repository.InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.ResetOnStart {
		if logger != nil {
			logger.Warn("Resetting store on start")
		}
		if err := repository.Reset(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	if cfg.SeedOnStart {
		if err := repository.Seed(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// seedStore inserts the demo accounts through the domain API. Used by the
// in-memory driver, which starts empty on every boot.
func seedStore(store domain.Store) error {
	seeds := []domain.Account{
		{AccountType: "Savings", Balance: decimal.RequireFromString("1000.00")},
		{AccountType: "Checking", Balance: decimal.RequireFromString("2500.50")},
	}
	for i := range seeds {
		if err := store.Account().CreateAccount(&seeds[i]); err != nil {
			return err
		}
	}
	return nil
}

// loggingMiddleware adds request logging with a per-request id.
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			w.Header().Set("X-Request-ID", requestID)

			// Create response wrapper to capture status code
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			if logger != nil {
				logger.Info("request completed",
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.statusCode,
					"duration", time.Since(start),
					"user_agent", r.UserAgent(),
				)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port string) (string, error) {
	// Create listener first to get actual port
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return "", err
	}

	addr := listener.Addr().(*net.TCPAddr)
	s.port = strconv.Itoa(addr.Port)

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if s.logger != nil {
		s.logger.Info("Starting server", "port", s.port)
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Error("Server failed", "error", err)
			}
		}
	}()

	return s.port, nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("Shutting down server")
	}

	if s.db != nil {
		s.db.Close()
	}

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// StartServer starts the server with the given configuration
func StartServer(cfg *config.Config) (*Server, string, error) {
	// Port 0 means a test environment; keep its logs out of the test output.
	var logger *slog.Logger
	if cfg.ServerPort == "0" {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	server, err := NewServer(cfg, logger)
	if err != nil {
		return nil, "", err
	}

	port, err := server.Start(cfg.ServerPort)
	if err != nil {
		return nil, "", err
	}

	return server, port, nil
}
