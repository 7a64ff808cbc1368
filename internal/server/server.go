package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/agents"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/embeddings"
	"github.com/jonathan/jobmatch/internal/matching"
	"github.com/jonathan/jobmatch/internal/metrics"
	"github.com/jonathan/jobmatch/internal/server/middleware"
)

// Embedder is the slice of the embedding gateway the handlers need.
type Embedder interface {
	EmbedProfile(ctx context.Context, skills, experience, goals string) (embeddings.ProfileEmbeddingSet, error)
	EmbedJob(ctx context.Context, description, requirements string) (embeddings.JobEmbeddingSet, error)
}

// ProfileStore persists candidate profiles.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, p *db.Profile, set embeddings.ProfileEmbeddingSet) (uuid.UUID, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
}

// JobStore persists job postings.
type JobStore interface {
	CreateJobPosting(ctx context.Context, p *db.JobPosting, set embeddings.JobEmbeddingSet) (uuid.UUID, error)
	GetJobPosting(ctx context.Context, id uuid.UUID) (*db.JobPosting, error)
	UpdateJobPosting(ctx context.Context, p *db.JobPosting, set embeddings.JobEmbeddingSet) error
	DeactivateJobPosting(ctx context.Context, id uuid.UUID) error
}

// ApplicationStore persists applications.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, a *db.Application) (uuid.UUID, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*db.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateApplicationCoverLetter(ctx context.Context, id uuid.UUID, coverLetter string) error
	ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]db.Application, error)
}

// Store is everything the handlers need from the database. *db.DB
// satisfies it.
type Store interface {
	UserStore
	ProfileStore
	JobStore
	ApplicationStore
}

// JobAnalyzer runs the posting analysis agent.
type JobAnalyzer interface {
	Analyze(ctx context.Context, job *db.JobPosting) (*agents.JobAnalysis, error)
}

// CoverLetterWriter runs the cover letter agent.
type CoverLetterWriter interface {
	Generate(ctx context.Context, job *db.JobPosting, profile *db.Profile, analysis *agents.JobAnalysis) (string, error)
}

// Config holds the listener configuration and matching defaults.
type Config struct {
	Port          int
	MatchLimit    int
	MinMatchScore float64
}

// Deps are the collaborators the server is built from. Everything is
// injected; the server owns none of them except the HTTP listener.
type Deps struct {
	Logger   *zap.Logger
	Metrics  *metrics.Registry
	Store    Store
	Embedder Embedder
	Engine   *matching.Engine
	Supplier matching.CandidateSupplier
	Analyzer JobAnalyzer
	Writer   CoverLetterWriter
	Users    *UserService
	JWT      *JWTService
}

// Server is the HTTP API.
type Server struct {
	httpServer *http.Server
	cfg        Config

	logger   *zap.Logger
	metrics  *metrics.Registry
	store    Store
	embedder Embedder
	engine   *matching.Engine
	supplier matching.CandidateSupplier
	analyzer JobAnalyzer
	writer   CoverLetterWriter
	users    *UserService
	jwt      *JWTService
}

// New builds the server and its router.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil || deps.Embedder == nil || deps.Engine == nil || deps.Supplier == nil {
		return nil, fmt.Errorf("store, embedder, engine, and supplier are required")
	}
	if deps.Users == nil || deps.JWT == nil {
		return nil, fmt.Errorf("user service and JWT service are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		store:    deps.Store,
		embedder: deps.Embedder,
		engine:   deps.Engine,
		supplier: deps.Supplier,
		analyzer: deps.Analyzer,
		writer:   deps.Writer,
		users:    deps.Users,
		jwt:      deps.JWT,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withMetrics(s.withLogging(s.withCORS(s.Router()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Router builds the route table. Exposed so tests can drive handlers
// through httptest without a listener.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	authed := middleware.Auth(s.jwt.AsTokenValidator())

	// Public
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// Authenticated
	mux.Handle("GET /users/me", authed(http.HandlerFunc(s.handleGetMe)))
	mux.Handle("GET /users/{id}", authed(http.HandlerFunc(s.handleGetUser)))
	mux.Handle("PUT /users/{id}/profile", authed(http.HandlerFunc(s.handleUpsertProfile)))
	mux.Handle("GET /users/{id}/profile", authed(http.HandlerFunc(s.handleGetProfile)))
	mux.Handle("GET /users/{id}/matches", authed(http.HandlerFunc(s.handleGetMatches)))
	mux.Handle("GET /users/{id}/applications", authed(http.HandlerFunc(s.handleListApplications)))

	mux.Handle("POST /jobs", authed(http.HandlerFunc(s.handleCreateJob)))
	mux.Handle("GET /jobs/{id}", authed(http.HandlerFunc(s.handleGetJob)))
	mux.Handle("PUT /jobs/{id}", authed(http.HandlerFunc(s.handleUpdateJob)))
	mux.Handle("DELETE /jobs/{id}", authed(http.HandlerFunc(s.handleDeactivateJob)))
	mux.Handle("POST /jobs/{id}/analyze", authed(http.HandlerFunc(s.handleAnalyzeJob)))

	mux.Handle("POST /applications", authed(http.HandlerFunc(s.handleCreateApplication)))
	mux.Handle("GET /applications/{id}", authed(http.HandlerFunc(s.handleGetApplication)))
	mux.Handle("PATCH /applications/{id}/status", authed(http.HandlerFunc(s.handleUpdateApplicationStatus)))
	mux.Handle("POST /applications/{id}/cover-letter", authed(http.HandlerFunc(s.handleGenerateCoverLetter)))

	return mux
}

// Start listens until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	s.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		// The mux fills in r.Pattern on match. Raw paths carry IDs and
		// would mint a new label value per request.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(route, strconv.Itoa(rec.status), time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
