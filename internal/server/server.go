package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/gorilla/mux"

	"shelfscan/internal/collection"
	"shelfscan/internal/config"
	"shelfscan/internal/logging"
	"shelfscan/internal/movie"
)

// Collection is the subset of the collection store the API needs.
type Collection interface {
	Add(ctx context.Context, in collection.NewItem) (*collection.Item, error)
	List(ctx context.Context) ([]*collection.Item, error)
	Get(ctx context.Context, id int64) (*collection.Item, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Lookup resolves barcodes and titles to movie records. A nil record means
// nothing was found.
type Lookup interface {
	ResolveBarcode(ctx context.Context, barcode string) *movie.Record
	ResolveTitle(ctx context.Context, title string) *movie.Record
}

// Dependencies bundles the collaborators handed to New.
type Dependencies struct {
	Store          Collection
	Lookup         Lookup
	Backends       []string
	TMDBConfigured bool
	Logger         *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg      *config.Config
	deps     Dependencies
	logger   *slog.Logger
	handler  http.Handler
	lockPath string

	mu       sync.Mutex
	lock     *flock.Flock
	listener net.Listener
	server   *http.Server
}

// New builds the router and middleware chain. It does not listen.
func New(cfg *config.Config, deps Dependencies) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server requires config")
	}
	if deps.Store == nil || deps.Lookup == nil {
		return nil, errors.New("server requires a collection store and lookup pipeline")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		deps:     deps,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		lockPath: filepath.Join(cfg.Paths.DataDir, "shelfscan.lock"),
	}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/scan_barcode", s.handleScanBarcode).Methods(http.MethodPost)
	api.HandleFunc("/search_movie_barcode", s.handleSearchBarcode).Methods(http.MethodPost)
	api.HandleFunc("/search_movie", s.handleSearchTitle).Methods(http.MethodPost)
	api.HandleFunc("/add_movie", s.handleAddMovie).Methods(http.MethodPost)
	api.HandleFunc("/movies", s.handleListMovies).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id:[0-9]+}", s.handleGetMovie).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id:[0-9]+}", s.handleDeleteMovie).Methods(http.MethodDelete)
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	// Method mismatches are resolved inside the subrouter, so it needs its own handlers.
	for _, r := range []*mux.Router{router, api} {
		r.NotFoundHandler = notFound
		r.MethodNotAllowedHandler = methodNotAllowed
	}

	var handler http.Handler = router
	handler = limitBody(s.cfg.MaxBodyBytes(), handler)
	handler = authMiddleware(s.cfg.Paths.APIToken, handler)
	handler = s.requestContext(handler)
	handler = s.recoverPanics(handler)
	return handler
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start acquires the data directory lock and begins serving in the
// background. The server shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New("server already running")
	}

	lock := flock.New(s.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another shelfscan server is already using %s", s.cfg.Paths.DataDir)
	}

	bind := strings.TrimSpace(s.cfg.Paths.APIBind)
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		_ = lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}
	s.lock = lock
	s.listener = listener
	s.server = srv

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.Bool("auth_required", s.cfg.Paths.APIToken != ""),
		logging.String("lock", s.lockPath),
	)
	return nil
}

// Addr returns the bound listener address, or "" when not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down and releases the lock. Safe to call repeatedly.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api server shutdown incomplete", logging.Error(err))
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release server lock", logging.Error(err))
		}
	}
	s.server = nil
	s.listener = nil
	s.lock = nil
	s.logger.Info("api server stopped")
}
