// Package api is the HTTP client for the CloudDrive server. It wraps the
// JSON endpoints behind typed methods and carries the bearer token obtained
// at login on every authenticated request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthenticated is returned when the server rejects the token, e.g.
// after it expires. Callers should prompt for a fresh login.
var ErrUnauthenticated = errors.New("not authenticated")

// FileInfo mirrors one entry of the server's /files listing.
type FileInfo struct {
	DisplayName string    `json:"name"`
	Extension   string    `json:"extension"`
	Size        int64     `json:"size"`
	StorageName string    `json:"storage_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Uploader    string    `json:"uploader"`
	Editor      string    `json:"editor"`
	Access      string    `json:"access"`
}

// Client talks to one CloudDrive server. It is not safe for concurrent use:
// Login replaces the stored token.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// IsLoggedIn reports whether a token from a successful Login is present.
func (c *Client) IsLoggedIn() bool { return c.token != "" }

// Logout forgets the stored token.
func (c *Client) Logout() { c.token = "" }

type errorResponse struct {
	Detail string `json:"detail"`
}

// apiError converts a non-2xx response into an error carrying the server's
// detail message when one is present.
func apiError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Detail != "" {
		return fmt.Errorf("server: %s", er.Detail)
	}
	return fmt.Errorf("server: unexpected status %d", resp.StatusCode)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, apiError(resp)
	}
	return resp, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// Register creates an account. The client stays logged out; call Login next.
func (c *Client) Register(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := c.postForm(ctx, "/register", form)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Login exchanges credentials for an access token and stores it for
// subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := c.postForm(ctx, "/token", form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var tr struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return errors.New("empty token in response")
	}
	c.token = tr.AccessToken
	return nil
}

// Files fetches the listing of everything the user owns or has access to.
func (c *Client) Files(ctx context.Context) ([]FileInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var files []FileInfo
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("decoding listing: %w", err)
	}
	return files, nil
}

// Upload sends the content as a multipart form under the given filename.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (*FileInfo, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fi FileInfo
	if err := json.NewDecoder(resp.Body).Decode(&fi); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	return &fi, nil
}

// Download fetches the raw content of the blob addressed by storageName.
func (c *Client) Download(ctx context.Context, storageName string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/raw/"+url.PathEscape(storageName), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// UpdateContent replaces the text content of the blob addressed by
// storageName.
func (c *Client) UpdateContent(ctx context.Context, storageName, content string) error {
	resp, err := c.postJSON(ctx, "/update_content", map[string]string{
		"storage_name": storageName,
		"content":      content,
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Share grants targetUser access to the caller's file at the given level
// ("read" or "write").
func (c *Client) Share(ctx context.Context, filename, targetUser, level string) error {
	resp, err := c.postJSON(ctx, "/share", map[string]string{
		"filename":    filename,
		"target_user": targetUser,
		"level":       level,
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Delete removes the file if the caller owns it, or revokes the caller's own
// access otherwise. The returned status is the server's wording.
func (c *Client) Delete(ctx context.Context, storageName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/delete/"+url.PathEscape(storageName), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var sr struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decoding delete response: %w", err)
	}
	return sr.Status, nil
}
