package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkarlovs/cloudvault/internal/common"
	"github.com/dkarlovs/cloudvault/internal/logging"
	"github.com/dkarlovs/cloudvault/internal/server/auth"
	"github.com/dkarlovs/cloudvault/internal/server/files"
	"github.com/dkarlovs/cloudvault/internal/server/passwords"
	"github.com/dkarlovs/cloudvault/internal/server/users"
	"github.com/dkarlovs/cloudvault/internal/server/vaultcreds"
)

// ---- test logger ----

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }

// ---- fakes ----

type fakeUsers struct {
	regResp   *users.User
	regErr    error
	loginResp *users.TokenPair
	loginErr  error
	refResp   *users.TokenPair
	refErr    error
	verifyErr error
}

func (f *fakeUsers) Register(ctx context.Context, username string, password []byte) (*users.User, error) {
	return f.regResp, f.regErr
}
func (f *fakeUsers) Login(ctx context.Context, username string, password []byte) (*users.TokenPair, error) {
	return f.loginResp, f.loginErr
}
func (f *fakeUsers) RefreshToken(ctx context.Context, refreshToken string) (*users.TokenPair, error) {
	return f.refResp, f.refErr
}
func (f *fakeUsers) VerifyPassword(ctx context.Context, userID string, password []byte) error {
	return f.verifyErr
}

type fakeVault struct {
	cred    *vaultcreds.Credential
	getErr  error
	setErr  error
	lastSet *vaultcreds.Credential
}

func (f *fakeVault) Get(ctx context.Context, userID string) (*vaultcreds.Credential, error) {
	return f.cred, f.getErr
}
func (f *fakeVault) Set(ctx context.Context, userID, secretKind, cipherText string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.lastSet = &vaultcreds.Credential{UserID: userID, SecretKind: secretKind, CipherText: cipherText}
	return nil
}

type fakePasswords struct {
	items []*passwords.Item
	err   error
}

func (f *fakePasswords) List(ctx context.Context, userID string) ([]*passwords.Item, error) {
	return f.items, f.err
}
func (f *fakePasswords) Get(ctx context.Context, userID, itemID string) (*passwords.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[0], nil
}
func (f *fakePasswords) Create(ctx context.Context, userID, label, password, color string) (*passwords.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &passwords.Item{ID: "p-1", UserID: userID, Label: label, Password: password, Color: color}, nil
}
func (f *fakePasswords) Update(ctx context.Context, userID, itemID, label, password, color string) (*passwords.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &passwords.Item{ID: itemID, UserID: userID, Label: label, Password: password, Color: color}, nil
}
func (f *fakePasswords) Delete(ctx context.Context, userID, itemID string) error {
	return f.err
}

type fakeFiles struct {
	list      []*files.File
	err       error
	deleted   []string
	uploadKey string
	uploadURL string
	dlURL     string
}

func (f *fakeFiles) List(ctx context.Context, userID string, parentID *string) ([]*files.File, error) {
	return f.list, f.err
}
func (f *fakeFiles) CreateMeta(ctx context.Context, userID, name string, parentID *string, isFolder bool, storageKey string, size int64) (*files.File, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &files.File{ID: "f-1", UserID: userID, Name: name, ParentID: parentID, IsFolder: isFolder, StorageKey: storageKey, Size: size}, nil
}
func (f *fakeFiles) Delete(ctx context.Context, userID, fileID string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, fileID)
	return nil
}
func (f *fakeFiles) UploadURL(ctx context.Context) (string, string, error) {
	return f.uploadKey, f.uploadURL, f.err
}
func (f *fakeFiles) DownloadURL(ctx context.Context, userID, fileID string) (string, error) {
	return f.dlURL, f.err
}

// ---- helpers ----

const testSecret = "k"

func newTestServer(t *testing.T, u userSvc, v vaultSvc, p passwordSvc, f fileSvc) *RESTServer {
	t.Helper()
	s, err := NewRESTServer("127.0.0.1:0", nopLogger{}, u, v, p, f, testSecret)
	if err != nil {
		t.Fatalf("NewRESTServer: %v", err)
	}
	return s
}

func newRequest(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	return req
}

func validToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(testSecret), time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func serve(s *RESTServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

// ---- tests ----

func TestPing(t *testing.T) {
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, &fakeFiles{})
	rec := serve(s, newRequest(t, http.MethodGet, "/api/ping", nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRegister_OK(t *testing.T) {
	u := &fakeUsers{regResp: &users.User{ID: "u-1", UserName: "alice"}}
	s := newTestServer(t, u, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "password": "longenough"}, ""))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp registerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "u-1" || resp.Username != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "password": "short"}, ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRegister_Conflict(t *testing.T) {
	u := &fakeUsers{regErr: common.ErrorAlreadyExists}
	s := newTestServer(t, u, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "password": "longenough"}, ""))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	u := &fakeUsers{loginErr: common.ErrorUnauthorized}
	s := newTestServer(t, u, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "nope"}, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLogin_OK(t *testing.T) {
	u := &fakeUsers{loginResp: &users.TokenPair{AccessToken: "at", RefreshToken: "rt"}}
	s := newTestServer(t, u, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "longenough"}, ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp loginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken != "at" || resp.RefreshToken != "rt" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
}

func TestRefresh_OK(t *testing.T) {
	u := &fakeUsers{refResp: &users.TokenPair{AccessToken: "at-2", RefreshToken: "rt-2"}}
	s := newTestServer(t, u, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/refresh",
		map[string]string{"refresh_token": "rt-1"}, ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp loginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken != "at-2" || resp.RefreshToken != "rt-2" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
}

func TestRefresh_Expired_Unauthorized(t *testing.T) {
	u := &fakeUsers{refErr: common.ErrRefreshTokenExpired}
	s := newTestServer(t, u, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/refresh",
		map[string]string{"refresh_token": "stale"}, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRefresh_Unknown_Unauthorized(t *testing.T) {
	u := &fakeUsers{refErr: common.ErrorUnauthorized}
	s := newTestServer(t, u, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/refresh",
		map[string]string{"refresh_token": "never-issued"}, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRefresh_MissingToken_BadRequest(t *testing.T) {
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/refresh",
		map[string]string{}, ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVerifyPassword_Wrong_Forbidden(t *testing.T) {
	u := &fakeUsers{verifyErr: common.ErrorWrongCredential}
	s := newTestServer(t, u, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/verify-password",
		map[string]string{"password": "nope"}, validToken(t, "u-1")))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVerifyPassword_OK(t *testing.T) {
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/auth/verify-password",
		map[string]string{"password": "correct"}, validToken(t, "u-1")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodGet, "/api/vault-credential", nil, ""))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuth_BadToken(t *testing.T) {
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodGet, "/api/vault-credential", nil, "not-a-jwt"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetVaultCredential_NeverStored_NotFound(t *testing.T) {
	v := &fakeVault{getErr: common.ErrorNotFound}
	s := newTestServer(t, &fakeUsers{}, v, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodGet, "/api/vault-credential", nil, validToken(t, "u-1")))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestGetVaultCredential_ResetRecord_StillOK(t *testing.T) {
	v := &fakeVault{cred: &vaultcreds.Credential{SecretKind: "pin", CipherText: ""}}
	s := newTestServer(t, &fakeUsers{}, v, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodGet, "/api/vault-credential", nil, validToken(t, "u-1")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp vaultCredentialResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SecretKind != "pin" || resp.CipherText != "" {
		t.Fatalf("expected reset record, got %+v", resp)
	}
}

func TestGetVaultCredential_OK(t *testing.T) {
	v := &fakeVault{cred: &vaultcreds.Credential{SecretKind: "pin", CipherText: "blob"}}
	s := newTestServer(t, &fakeUsers{}, v, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodGet, "/api/vault-credential", nil, validToken(t, "u-1")))

	var resp vaultCredentialResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SecretKind != "pin" || resp.CipherText != "blob" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSetVaultCredential_OK(t *testing.T) {
	v := &fakeVault{}
	s := newTestServer(t, &fakeUsers{}, v, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/vault-credential",
		map[string]string{"secret_kind": "pin", "cipher_text": "blob"}, validToken(t, "u-1")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if v.lastSet == nil || v.lastSet.UserID != "u-1" || v.lastSet.CipherText != "blob" {
		t.Fatalf("credential not stored: %+v", v.lastSet)
	}
}

func TestSetVaultCredential_EmptyCipherTextAllowed(t *testing.T) {
	v := &fakeVault{}
	s := newTestServer(t, &fakeUsers{}, v, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/vault-credential",
		map[string]string{"secret_kind": "pin", "cipher_text": ""}, validToken(t, "u-1")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if v.lastSet == nil || v.lastSet.CipherText != "" {
		t.Fatalf("reset write not stored: %+v", v.lastSet)
	}
}

func TestSetVaultCredential_UnknownKind(t *testing.T) {
	v := &fakeVault{setErr: common.ErrorValidation}
	s := newTestServer(t, &fakeUsers{}, v, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/vault-credential",
		map[string]string{"secret_kind": "fingerprint"}, validToken(t, "u-1")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListPasswords_OK(t *testing.T) {
	p := &fakePasswords{items: []*passwords.Item{{ID: "p-1", Label: "gmail", Password: "x", Color: "#e63946"}}}
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, p, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodGet, "/api/passwords", nil, validToken(t, "u-1")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp []passwordItemResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].Label != "gmail" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCreatePassword_MissingField(t *testing.T) {
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodPost, "/api/passwords",
		map[string]string{"label": "gmail", "password": "x"}, validToken(t, "u-1")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDeletePassword_NotFound(t *testing.T) {
	p := &fakePasswords{err: common.ErrorNotFound}
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, p, &fakeFiles{})

	rec := serve(s, newRequest(t, http.MethodDelete, "/api/passwords/missing", nil, validToken(t, "u-1")))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListFiles_OK(t *testing.T) {
	f := &fakeFiles{list: []*files.File{{ID: "f-1", Name: "photo.jpg", Size: 100}}}
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, f)

	rec := serve(s, newRequest(t, http.MethodGet, "/api/files", nil, validToken(t, "u-1")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp []fileResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].Name != "photo.jpg" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDeleteFile_OK(t *testing.T) {
	f := &fakeFiles{}
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, f)

	rec := serve(s, newRequest(t, http.MethodDelete, "/api/files/f-1", nil, validToken(t, "u-1")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(f.deleted) != 1 || f.deleted[0] != "f-1" {
		t.Fatalf("file not deleted: %v", f.deleted)
	}
}

func TestUploadURL_OK(t *testing.T) {
	f := &fakeFiles{uploadKey: "users/k1", uploadURL: "https://s3/users/k1"}
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, f)

	rec := serve(s, newRequest(t, http.MethodPost, "/api/files/upload-url", nil, validToken(t, "u-1")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp uploadURLResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StorageKey != "users/k1" || resp.URL == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDownloadURL_FolderRejected(t *testing.T) {
	f := &fakeFiles{err: common.ErrorValidation}
	s := newTestServer(t, &fakeUsers{}, &fakeVault{}, &fakePasswords{}, f)

	rec := serve(s, newRequest(t, http.MethodGet, "/api/files/f-1/download-url", nil, validToken(t, "u-1")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
