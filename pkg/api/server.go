package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nikogura/folio/pkg/auth"
	"github.com/nikogura/folio/pkg/content"
	"github.com/nikogura/folio/pkg/store"
	"github.com/nikogura/folio/pkg/upload"
	"github.com/pkg/errors"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Options wires the server's collaborators.
type Options struct {
	Store          *store.Store
	Gate           *auth.Gate
	Uploads        *upload.Saver
	BaseURL        string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server is the portfolio HTTP API.
type Server struct {
	store   *store.Store
	gate    *auth.Gate
	uploads *upload.Saver
	baseURL string
	origins []string
	log     *slog.Logger
	now     func() time.Time
}

// NewServer creates a Server from opts.
func NewServer(opts Options) (s *Server) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s = &Server{
		store:   opts.Store,
		gate:    opts.Gate,
		uploads: opts.Uploads,
		baseURL: opts.BaseURL,
		origins: opts.AllowedOrigins,
		log:     logger.With("component", "api"),
		now:     time.Now,
	}
	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() (handler http.Handler) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/portfolio", s.getPortfolio)
	mux.HandleFunc("GET /api/portfolio/personal", s.getPersonal)
	mux.Handle("PUT /api/portfolio/personal", s.requireAdmin(s.putPersonal))

	registerCollection[content.Experience](s, mux, "/api/portfolio/experiences", s.store.Experiences(), noun{"experience", "experiences", "Experience"})
	registerCollection[content.Project](s, mux, "/api/portfolio/projects", s.store.Projects(), noun{"project", "projects", "Project"})
	registerCollection[content.Article](s, mux, "/api/portfolio/articles", s.store.Articles().Collection, noun{"article", "articles", "Article"})

	mux.HandleFunc("GET /api/portfolio/projects/{id}", s.getProject)
	mux.HandleFunc("GET /api/portfolio/articles/{slug}", s.getArticleBySlug)

	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("POST /api/auth/logout", s.logout)
	mux.HandleFunc("GET /api/auth/check", s.check)

	if s.uploads != nil {
		mux.Handle("POST /api/upload", s.requireAdmin(s.upload))
		prefix := strings.TrimSuffix(s.uploadPrefix(), "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(s.uploads.Dir())))))
	}

	mux.HandleFunc("GET /sitemap.xml", s.sitemap)
	mux.HandleFunc("GET /healthz", s.health)

	handler = Chain(
		RequestID,
		Logger(s.log),
		Recovery(s.log),
		CORS(s.origins),
	)(mux)

	return handler
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) (err error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
			return err
		}
		err = errors.Wrapf(err, "failed to serve on %s", addr)
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		err = errors.Wrap(err, "failed to shut down cleanly")
		return err
	}

	return err
}

// requireAdmin rejects requests without a valid session cookie.
func (s *Server) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.gate.Authorized(r) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	})
}

func (s *Server) uploadPrefix() (prefix string) {
	prefix = "/uploads"
	if s.uploads != nil {
		prefix = s.uploads.URLPrefix()
	}
	return prefix
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
