// Package api is the HTTP client for the cloudvault server. It keeps the
// session tokens and translates HTTP statuses back into the shared error
// sentinels, so callers branch with errors.Is exactly like server code.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dkarlovs/cloudvault/internal/common"
)

type Client struct {
	baseURL      string
	http         *http.Client
	accessToken  string
	refreshToken string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// IsAuthenticated reports whether a login has succeeded in this session.
func (c *Client) IsAuthenticated() bool {
	return c.accessToken != ""
}

// Logout drops the session tokens.
func (c *Client) Logout() {
	c.accessToken = ""
	c.refreshToken = ""
}

func statusToError(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorWrongCredential
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	default:
		return common.ErrorInternal
	}
}

// do sends a JSON request and decodes the JSON response into out (when
// out is non-nil). Non-2xx statuses come back as error sentinels. On a
// 401 with a refresh token in hand, the session is refreshed and the
// request retried once.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	err := c.send(ctx, method, path, body, out)
	if !errors.Is(err, common.ErrorUnauthorized) {
		return err
	}
	if c.refreshToken == "" {
		return err
	}
	switch path {
	case "/api/auth/login", "/api/auth/register", "/api/auth/refresh":
		// a 401 here is a credential problem, not a stale session
		return err
	}
	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		return err
	}
	return c.send(ctx, method, path, body, out)
}

func (c *Client) send(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusToError(resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/ping", nil, nil)
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (c *Client) Register(ctx context.Context, username string, password []byte) error {
	body := map[string]string{"username": username, "password": string(password)}
	return c.do(ctx, http.MethodPost, "/api/auth/register", body, nil)
}

// Login authenticates and stores the token pair for subsequent calls.
func (c *Client) Login(ctx context.Context, username string, password []byte) error {
	body := map[string]string{"username": username, "password": string(password)}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return err
	}

	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	return nil
}

// Refresh redeems the stored refresh token for a new pair. The server
// consumes the old token, so both tokens are replaced on success.
func (c *Client) Refresh(ctx context.Context) error {
	if c.refreshToken == "" {
		return common.ErrorUnauthorized
	}
	body := map[string]string{"refresh_token": c.refreshToken}

	var resp loginResponse
	if err := c.send(ctx, http.MethodPost, "/api/auth/refresh", body, &resp); err != nil {
		return err
	}

	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	return nil
}

// VerifyPassword re-checks the account password of the logged-in user.
// A mismatch comes back as common.ErrorWrongCredential.
func (c *Client) VerifyPassword(ctx context.Context, password []byte) error {
	body := map[string]string{"password": string(password)}
	return c.do(ctx, http.MethodPost, "/api/auth/verify-password", body, nil)
}

// VaultCredential is the sealed unlock-secret record as stored server-side.
// A user who never stored one gets common.ErrorNotFound from
// GetVaultCredential; an empty CipherText means the secret was reset.
type VaultCredential struct {
	SecretKind string `json:"secret_kind"`
	CipherText string `json:"cipher_text"`
}

func (c *Client) GetVaultCredential(ctx context.Context) (*VaultCredential, error) {
	var resp VaultCredential
	if err := c.do(ctx, http.MethodGet, "/api/vault-credential", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetVaultCredential(ctx context.Context, secretKind, cipherText string) error {
	body := map[string]string{"secret_kind": secretKind, "cipher_text": cipherText}
	return c.do(ctx, http.MethodPost, "/api/vault-credential", body, nil)
}

// PasswordItem is one stored dashboard password.
type PasswordItem struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Password string `json:"password"`
	Color    string `json:"color"`
}

func (c *Client) ListPasswords(ctx context.Context) ([]PasswordItem, error) {
	var resp []PasswordItem
	if err := c.do(ctx, http.MethodGet, "/api/passwords", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreatePassword(ctx context.Context, label, password, color string) (*PasswordItem, error) {
	body := map[string]string{"label": label, "password": password, "color": color}

	var resp PasswordItem
	if err := c.do(ctx, http.MethodPost, "/api/passwords", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdatePassword(ctx context.Context, id, label, password, color string) (*PasswordItem, error) {
	body := map[string]string{"label": label, "password": password, "color": color}

	var resp PasswordItem
	if err := c.do(ctx, http.MethodPut, "/api/passwords/"+id, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeletePassword(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/passwords/"+id, nil, nil)
}

// FileEntry is one dashboard file or folder.
type FileEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
	IsFolder bool    `json:"is_folder"`
	Size     int64   `json:"size"`
}

func (c *Client) ListFiles(ctx context.Context, parentID string) ([]FileEntry, error) {
	path := "/api/files"
	if parentID != "" {
		path += "?parent=" + parentID
	}

	var resp []FileEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

type createFileRequest struct {
	Name       string  `json:"name"`
	ParentID   *string `json:"parent_id"`
	IsFolder   bool    `json:"is_folder"`
	StorageKey string  `json:"storage_key"`
	Size       int64   `json:"size"`
}

func (c *Client) CreateFile(ctx context.Context, name string, parentID *string, isFolder bool, storageKey string, size int64) (*FileEntry, error) {
	body := createFileRequest{
		Name:       name,
		ParentID:   parentID,
		IsFolder:   isFolder,
		StorageKey: storageKey,
		Size:       size,
	}

	var resp FileEntry
	if err := c.do(ctx, http.MethodPost, "/api/files", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/files/"+id, nil, nil)
}

type uploadURLResponse struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
}

// UploadURL asks the server for a presigned PUT target and the storage key
// to register afterwards.
func (c *Client) UploadURL(ctx context.Context) (string, string, error) {
	var resp uploadURLResponse
	if err := c.do(ctx, http.MethodPost, "/api/files/upload-url", nil, &resp); err != nil {
		return "", "", err
	}
	return resp.StorageKey, resp.URL, nil
}

type downloadURLResponse struct {
	URL string `json:"url"`
}

func (c *Client) DownloadURL(ctx context.Context, id string) (string, error) {
	var resp downloadURLResponse
	if err := c.do(ctx, http.MethodGet, "/api/files/"+id+"/download-url", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
