// Package rest serves the HTTP/JSON API: account auth, the vault
// credential store, stored passwords and the file dashboard.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dkarlovs/cloudvault/internal/logging"
	"github.com/dkarlovs/cloudvault/internal/server/files"
	"github.com/dkarlovs/cloudvault/internal/server/passwords"
	"github.com/dkarlovs/cloudvault/internal/server/users"
	"github.com/dkarlovs/cloudvault/internal/server/vaultcreds"
)

type userSvc interface {
	Register(ctx context.Context, username string, password []byte) (*users.User, error)
	Login(ctx context.Context, username string, password []byte) (*users.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*users.TokenPair, error)
	VerifyPassword(ctx context.Context, userID string, password []byte) error
}

type vaultSvc interface {
	Get(ctx context.Context, userID string) (*vaultcreds.Credential, error)
	Set(ctx context.Context, userID, secretKind, cipherText string) error
}

type passwordSvc interface {
	List(ctx context.Context, userID string) ([]*passwords.Item, error)
	Get(ctx context.Context, userID, itemID string) (*passwords.Item, error)
	Create(ctx context.Context, userID, label, password, color string) (*passwords.Item, error)
	Update(ctx context.Context, userID, itemID, label, password, color string) (*passwords.Item, error)
	Delete(ctx context.Context, userID, itemID string) error
}

type fileSvc interface {
	List(ctx context.Context, userID string, parentID *string) ([]*files.File, error)
	CreateMeta(ctx context.Context, userID, name string, parentID *string, isFolder bool, storageKey string, size int64) (*files.File, error)
	Delete(ctx context.Context, userID, fileID string) error
	UploadURL(ctx context.Context) (string, string, error)
	DownloadURL(ctx context.Context, userID, fileID string) (string, error)
}

type RESTServer struct {
	address   string
	logger    logging.Logger
	users     userSvc
	vault     vaultSvc
	passwords passwordSvc
	files     fileSvc
	jwtSecret []byte
}

func NewRESTServer(a string, l logging.Logger, us userSvc, vs vaultSvc, ps passwordSvc, fs fileSvc, secretKey string) (*RESTServer, error) {
	return &RESTServer{
		address:   a,
		logger:    l.With("module", "rest_server"),
		users:     us,
		vault:     vs,
		passwords: ps,
		files:     fs,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *RESTServer) routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.ping)

		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
		r.Post("/auth/refresh", s.refreshToken)

		r.Group(func(r chi.Router) {
			r.Use(s.withAuth)

			r.Post("/auth/verify-password", s.verifyPassword)

			r.Get("/vault-credential", s.getVaultCredential)
			r.Post("/vault-credential", s.setVaultCredential)

			r.Get("/passwords", s.listPasswords)
			r.Post("/passwords", s.createPassword)
			r.Get("/passwords/{passwordID}", s.getPassword)
			r.Put("/passwords/{passwordID}", s.updatePassword)
			r.Delete("/passwords/{passwordID}", s.deletePassword)

			r.Get("/files", s.listFiles)
			r.Post("/files", s.createFile)
			r.Delete("/files/{fileID}", s.deleteFile)
			r.Post("/files/upload-url", s.uploadURL)
			r.Get("/files/{fileID}/download-url", s.downloadURL)
		})
	})

	return r
}

func (s *RESTServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "Shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *RESTServer) ping(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, http.StatusOK, Response{Message: "OK"})
}
