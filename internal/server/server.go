// Package server wires storage, services, handlers and routes together.
//
// COMPOSITION ROOT:
// Every dependency is built here and nowhere else:
//
//	config → storage (memory | sqlite | postgres), redis limiter (optional)
//	       → services (ItemService, AuthService, BookService)
//	       → handlers → chi routes
//
// Handlers only see services, services only see repository interfaces.
// Swapping the database is a config change, not a code change.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/sakif/crudauth/internal/auth"
	"github.com/sakif/crudauth/internal/config"
	"github.com/sakif/crudauth/internal/handler"
	"github.com/sakif/crudauth/internal/middleware"
	"github.com/sakif/crudauth/internal/ratelimit"
	"github.com/sakif/crudauth/internal/repository"
	"github.com/sakif/crudauth/internal/repository/memory"
	"github.com/sakif/crudauth/internal/repository/postgres"
	sqliteRepo "github.com/sakif/crudauth/internal/repository/sqlite"
	"github.com/sakif/crudauth/internal/service"
)

// Server owns the router and, for the database drivers, the connection.
type Server struct {
	router  *chi.Mux
	cfg     config.Config
	logger  *slog.Logger
	store   *storage
	limiter *ratelimit.Limiter // nil unless REDIS_ADDR is set
}

// storage is the set of repositories picked by DB_DRIVER / ITEM_STORE.
type storage struct {
	items  repository.ItemStore
	users  repository.UserRepository
	books  repository.BookRepository
	db     io.Closer      // nil for the memory driver
	pinger handler.Pinger // nil for the memory driver
}

// New opens storage and mounts every route. The caller must eventually
// call Start (which closes storage on return) or Close.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		store:  store,
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			_ = s.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		s.limiter = ratelimit.New(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)
	}

	s.setupRoutes(tokens, auth.NewPasswordService(cfg.BcryptCost))

	return s, nil
}

func openStorage(ctx context.Context, cfg config.Config) (*storage, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		return &storage{
			items: memory.NewItems(),
			users: memory.NewUsers(),
			books: memory.NewBooks(),
		}, nil

	case config.DriverSQLite:
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		st := &storage{users: db.Users(), books: db.Books(), db: db, pinger: db}
		st.items = pickItems(cfg, db.Items())
		return st, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres database: %w", err)
		}
		st := &storage{users: db.Users(), books: db.Books(), db: db, pinger: db}
		st.items = pickItems(cfg, db.Items())
		return st, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
}

// pickItems keeps items in process memory unless ITEM_STORE=db.
func pickItems(cfg config.Config, dbItems repository.ItemStore) repository.ItemStore {
	if cfg.ItemStore == config.ItemStoreDB {
		return dbItems
	}
	return memory.NewItems()
}

// setupRoutes mounts the API.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                 → liveness (+ database ping)
//	POST   /api/add-item            → create item
//	GET    /api/all                 → list items
//	GET    /api/get-item/{id}       → get item
//	PUT    /api/update-item/{id}    → partial update
//	DELETE /api/delete-item/{id}    → delete, answers true/false
//	POST   /auth/register           → create user
//	POST   /auth/login              → {access_token}
//	GET    /auth/profile            → token claims          [Bearer]
//	/api/books[/{id}]               → book CRUD             [Bearer]
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so the logger can print it; Recoverer sits inside
// the logger so a panic is logged as the 500 it became.
func (s *Server) setupRoutes(tokens *auth.TokenService, passwords *auth.PasswordService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	var deps []handler.Pinger
	if s.store.pinger != nil {
		deps = append(deps, s.store.pinger)
	}
	if s.limiter != nil {
		deps = append(deps, s.limiter)
	}
	s.router.Get("/healthz", handler.NewHealthHandler(deps...).HandleHealth)

	authSvc := service.NewAuthService(s.store.users, tokens, passwords, s.logger)
	if s.limiter != nil {
		authSvc.WithLoginLimiter(s.limiter)
	}

	items := handler.NewItemHandler(service.NewItemService(s.store.items, s.logger), s.logger)
	authH := handler.NewAuthHandler(authSvc, s.logger)
	books := handler.NewBookHandler(service.NewBookService(s.store.books, s.logger), s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/add-item", items.HandleCreate)
		r.Get("/all", items.HandleList)
		r.Get("/get-item/{id}", items.HandleGet)
		r.Put("/update-item/{id}", items.HandleUpdate)
		r.Delete("/delete-item/{id}", items.HandleDelete)

		r.Route("/books", func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/", books.HandleList)
			r.Post("/", books.HandleCreate)
			r.Get("/{id}", books.HandleGet)
			r.Put("/{id}", books.HandleUpdate)
			r.Delete("/{id}", books.HandleDelete)
		})
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.HandleRegister)
		r.Post("/login", authH.HandleLogin)
		r.With(auth.RequireAuth(tokens)).Get("/profile", authH.HandleProfile)
	})
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database and redis connections, if any.
func (s *Server) Close() error {
	var errs []error
	if s.limiter != nil {
		errs = append(errs, s.limiter.Close())
	}
	if s.store.db != nil {
		errs = append(errs, s.store.db.Close())
	}
	return errors.Join(errs...)
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections
//  2. Wait up to ShutdownTimeout for in-flight requests
//  3. Close the database (flushes the sqlite WAL) and redis
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing connections", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("db_driver", s.cfg.DBDriver),
			slog.String("item_store", s.cfg.ItemStore),
			slog.Bool("login_throttling", s.limiter != nil),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
