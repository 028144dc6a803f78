// Package client is a Go client for the inkpost API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sujalbistaa/inkpost/internal/core/posts"
	"github.com/sujalbistaa/inkpost/internal/core/users"
)

const genericErrorMessage = "Something went wrong. Please try again."

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client calls the API rooted at baseURL, e.g. "https://blog.example.com/api".
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a client. A nil httpClient uses a default with a timeout.
func New(baseURL string, session *Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if session == nil {
		session = NewSession()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: session,
	}
}

func (c *Client) Session() *Session {
	return c.session
}

// NewPost describes a post to create. Image is optional.
type NewPost struct {
	Title     string
	Content   string
	Tags      string
	ImageName string
	Image     io.Reader
}

type dataEnvelope[T any] struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    T    `json:"data"`
}

func (c *Client) Register(ctx context.Context, req users.RegisterRequest) (*users.AuthResponse, error) {
	var resp users.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	c.session.Set(resp.Token)
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*users.AuthResponse, error) {
	var resp users.AuthResponse
	req := users.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.session.Set(resp.Token)
	return &resp, nil
}

func (c *Client) Logout() {
	c.session.Clear()
}

func (c *Client) Me(ctx context.Context) (*users.Profile, error) {
	var profile users.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateMe changes the username and/or avatar; nil fields are left alone.
func (c *Client) UpdateMe(ctx context.Context, req users.UpdateProfileRequest) (*users.Profile, error) {
	var profile users.Profile
	if err := c.doJSON(ctx, http.MethodPut, "/auth/me", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	req := users.ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.doJSON(ctx, http.MethodPut, "/auth/change-password", req, nil)
}

func (c *Client) ListPosts(ctx context.Context) ([]*posts.PostView, error) {
	var resp dataEnvelope[[]*posts.PostView]
	if err := c.doJSON(ctx, http.MethodGet, "/posts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*posts.PostView, error) {
	return c.postCall(ctx, http.MethodGet, "/posts/"+id, nil)
}

// CreatePost sends a multipart request so an image can ride along.
func (c *Client) CreatePost(ctx context.Context, p NewPost) (*posts.PostView, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range map[string]string{"title": p.Title, "content": p.Content, "tags": p.Tags} {
		if err := mw.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if p.Image != nil {
		part, err := mw.CreateFormFile("image", p.ImageName)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, p.Image); err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var resp dataEnvelope[*posts.PostView]
	if err := c.do(ctx, http.MethodPost, "/posts", &buf, mw.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UpdatePost sends a partial update; keys must be among posts.AllowedUpdates.
func (c *Client) UpdatePost(ctx context.Context, id string, fields map[string]interface{}) (*posts.PostView, error) {
	return c.postCall(ctx, http.MethodPut, "/posts/"+id, fields)
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+id, nil, nil)
}

// LikePost toggles the current user's like.
func (c *Client) LikePost(ctx context.Context, id string) (*posts.PostView, error) {
	return c.postCall(ctx, http.MethodPut, "/posts/"+id+"/like", nil)
}

func (c *Client) CreateComment(ctx context.Context, postID, content string) (*posts.CommentView, error) {
	var comment posts.CommentView
	body := map[string]string{"content": content}
	if err := c.doJSON(ctx, http.MethodPost, "/comments/"+postID, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/comments/"+id, nil, nil)
}

func (c *Client) postCall(ctx context.Context, method, path string, body interface{}) (*posts.PostView, error) {
	var resp dataEnvelope[*posts.PostView]
	if err := c.doJSON(ctx, method, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	if body == nil {
		return c.do(ctx, method, path, nil, "", out)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(raw), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.session.Clear()
		}
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the server's message out of an error body, falling
// back to a generic one.
func errorMessage(r io.Reader) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return genericErrorMessage
	}
	switch {
	case body.Error != "":
		return body.Error
	case body.Message != "":
		return body.Message
	default:
		return genericErrorMessage
	}
}
