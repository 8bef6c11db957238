// Package web is the HTTP transport of the CloudDrive server. It exposes the
// registration, token, file, sharing, and deletion endpoints as a JSON API
// over gorilla/mux and translates service errors to HTTP status codes.
package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/MaxymDv/CloudDrive-System/internal/logging"
	"github.com/MaxymDv/CloudDrive-System/internal/server/models"
	"github.com/MaxymDv/CloudDrive-System/internal/server/services"
)

// UserProvider is the slice of the user service the transport needs.
type UserProvider interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// FileProvider is the slice of the file service the transport needs.
type FileProvider interface {
	Upload(ctx context.Context, user *models.User, displayName string, content io.Reader) (*models.File, error)
	List(ctx context.Context, user *models.User) ([]*models.FileInfo, error)
	Download(ctx context.Context, user *models.User, storageName string) (io.ReadCloser, *models.File, error)
	UpdateContent(ctx context.Context, user *models.User, storageName string, content string) error
	Share(ctx context.Context, owner *models.User, displayName, targetUsername, level string) error
	Delete(ctx context.Context, user *models.User, storageName string) (services.DeleteResult, error)
}

type Server struct {
	address string
	users   UserProvider
	files   FileProvider
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, users UserProvider, files FileProvider) *Server {
	return &Server{
		address: address,
		users:   users,
		files:   files,
		logger:  l.With("module", "http_server"),
	}
}

// Router builds the full route table, with the file endpoints behind the
// bearer-token middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/token", s.handleToken).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/files", s.handleList).Methods(http.MethodGet)
	authed.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	authed.HandleFunc("/raw/{storage_name}", s.handleDownload).Methods(http.MethodGet)
	authed.HandleFunc("/update_content", s.handleUpdateContent).Methods(http.MethodPost)
	authed.HandleFunc("/share", s.handleShare).Methods(http.MethodPost)
	authed.HandleFunc("/delete/{storage_name}", s.handleDelete).Methods(http.MethodDelete)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
