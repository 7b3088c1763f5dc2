// Package web exposes the notes actions over HTTP with chi. Bodies may be
// form-encoded or JSON; every response is JSON, and finished actions answer
// with a 303 redirect.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) *models.Identity
}

type UserService interface {
	Register(ctx context.Context, current *models.Identity, in services.RegisterInput) (*services.Login, error)
	Login(ctx context.Context, current *models.Identity, in services.LoginInput) (*services.Login, error)
	Logout(ctx context.Context, id *models.Identity, csrfToken string) error
	View(ctx context.Context, id *models.Identity, username string) (*models.Profile, error)
	Delete(ctx context.Context, id *models.Identity, username, csrfToken string) error
}

type NoteService interface {
	Add(ctx context.Context, id *models.Identity, owner, csrfToken string, in services.NoteInput) (*models.Note, error)
	Get(ctx context.Context, id *models.Identity, noteID int64) (*models.Note, error)
	Edit(ctx context.Context, id *models.Identity, noteID int64, csrfToken string, in services.NoteInput) (*models.Note, error)
	Delete(ctx context.Context, id *models.Identity, noteID int64, csrfToken string) (string, error)
}

type ExportService interface {
	Export(ctx context.Context, id *models.Identity, username, csrfToken string) (string, error)
}

type Server struct {
	address        string
	cookieSecure   bool
	allowedOrigins []string
	requestTimeout time.Duration
	sessions       SessionResolver
	users          UserService
	notes          NoteService
	exports        ExportService
	logger         logging.Logger
}

func NewServer(cfg *config.Config, l logging.Logger, ss SessionResolver, us UserService, ns NoteService, es ExportService) *Server {
	return &Server{
		address:        cfg.HTTPAddr,
		cookieSecure:   cfg.CookieSecure,
		allowedOrigins: cfg.AllowedOrigins,
		requestTimeout: cfg.RequestTimeout,
		sessions:       ss,
		users:          us,
		notes:          ns,
		exports:        es,
		logger:         l.With("module", "http_server"),
	}
}

// Routes builds the router with the middleware stack.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.requestTimeout > 0 {
		r.Use(middleware.Timeout(s.requestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", accessTokenHeader, csrfHeader},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.identity)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	})

	r.Get("/register", s.registerForm)
	r.Post("/register", s.register)
	r.Get("/login", s.loginForm)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	r.Route("/users/{username}", func(r chi.Router) {
		r.Get("/", s.viewUser)
		r.Post("/delete", s.deleteUser)
		r.Get("/notes/add", s.addNoteForm)
		r.Post("/notes/add", s.addNote)
		r.Post("/export", s.exportNotes)
	})

	r.Route("/notes/{id}", func(r chi.Router) {
		r.Get("/update", s.editNoteForm)
		r.Post("/update", s.editNote)
		r.Post("/delete", s.deleteNote)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
