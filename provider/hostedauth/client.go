package hostedauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/mindcare/go-access"
)

// Client talks to a GoTrue-style auth API. It keeps the current session in
// memory and notifies OnSessionChange listeners on sign-in and sign-out.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  access.Logger

	mu          sync.Mutex
	session     *currentSession
	listeners   map[int]access.AuthCallback
	nextListner int
}

type currentSession struct {
	identity    access.Identity
	accessToken string
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger access.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a client for the given provider endpoint.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		http:      &http.Client{Timeout: 15 * time.Second},
		listeners: map[int]access.AuthCallback{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// FromConfig builds a client from the access configuration.
func FromConfig(cfg access.Config, opts ...Option) *Client {
	return New(cfg.GetAuthBaseURL(), cfg.GetAuthAPIKey(), opts...)
}

var _ access.AuthClient = (*Client)(nil)

type userPayload struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func (u userPayload) identity() authIdentity {
	identity := authIdentity{id: u.ID, email: u.Email}
	if ts, err := time.Parse(time.RFC3339, u.CreatedAt); err == nil {
		identity.createdAt = ts
	}
	return identity
}

// SignUp registers a new identity. It never establishes a session.
func (c *Client) SignUp(ctx context.Context, email, password string, attributes map[string]any) (string, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(attributes) > 0 {
		body["data"] = attributes
	}

	var resp struct {
		userPayload
		User *userPayload `json:"user"`
	}

	if err := c.post(ctx, "/signup", "", body, &resp); err != nil {
		return "", err
	}

	id := resp.ID
	if id == "" && resp.User != nil {
		id = resp.User.ID
	}

	if id == "" {
		return "", goerrors.New("sign up response missing identity id", goerrors.CategoryExternal)
	}

	return id, nil
}

// SignInWithPassword performs the password grant and installs the session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (access.Identity, error) {
	var resp struct {
		AccessToken string       `json:"access_token"`
		User        *userPayload `json:"user"`
	}

	body := map[string]any{
		"email":    email,
		"password": password,
	}

	if err := c.post(ctx, "/token?grant_type=password", "", body, &resp); err != nil {
		return nil, err
	}

	var identity access.Identity
	if resp.User != nil && resp.User.ID != "" {
		identity = resp.User.identity()
	} else {
		parsed, err := ExtractIdentity(resp.AccessToken)
		if err != nil {
			return nil, err
		}
		identity = parsed
	}

	c.mu.Lock()
	c.session = &currentSession{identity: identity, accessToken: resp.AccessToken}
	c.mu.Unlock()

	c.emit(access.AuthEvent{Type: access.AuthEventSignedIn, Identity: identity})

	return identity, nil
}

// GetCurrentSession returns the active identity, or nil when no session
// exists.
func (c *Client) GetCurrentSession(ctx context.Context) (access.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, nil
	}
	return c.session.identity, nil
}

// FindIdentityByEmail looks an identity up through the admin API.
func (c *Client) FindIdentityByEmail(ctx context.Context, email string) (access.Identity, error) {
	endpoint := "/admin/users?email=" + url.QueryEscape(email)

	var resp struct {
		Users []userPayload `json:"users"`
	}

	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	for _, user := range resp.Users {
		if strings.EqualFold(user.Email, email) {
			return user.identity(), nil
		}
	}

	return nil, access.ErrIdentityNotFound
}

// OnSessionChange registers a session-change listener.
func (c *Client) OnSessionChange(fn access.AuthCallback) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextListner
	c.nextListner++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// SignOut drops the local session immediately and revokes the token in the
// background.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil {
		return nil
	}

	c.emit(access.AuthEvent{Type: access.AuthEventSignedOut})

	go func() {
		err := c.post(context.WithoutCancel(ctx), "/logout", session.accessToken, nil, nil)
		if err != nil && c.logger != nil {
			c.logger.Warn("token revocation failed: %v", err)
		}
	}()

	return nil
}

func (c *Client) emit(event access.AuthEvent) {
	c.mu.Lock()
	listeners := make([]access.AuthCallback, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(event)
	}
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}

	return c.do(req, "", out)
}

func (c *Client) post(ctx context.Context, endpoint, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}

	return c.do(req, token, out)
}

func (c *Client) do(req *http.Request, token string, out any) error {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "auth provider request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "failed to read provider response")
	}

	if resp.StatusCode >= 400 {
		return classifyAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "failed to decode provider response")
	}

	return nil
}

type apiError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	default:
		return e.ErrorDescription
	}
}

// classifyAPIError maps provider error payloads onto the access error
// taxonomy so callers can use the package matchers.
func classifyAPIError(status int, raw []byte) error {
	payload := apiError{}
	_ = json.Unmarshal(raw, &payload)

	msg := payload.text()
	if msg == "" {
		msg = fmt.Sprintf("auth provider returned status %d", status)
	}

	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "already registered"), strings.Contains(lower, "duplicate key"):
		return goerrors.New(msg, goerrors.CategoryConflict).
			WithTextCode(access.TextCodeAlreadyRegistered).
			WithCode(goerrors.CodeConflict)
	case strings.Contains(lower, "invalid login credentials"), strings.Contains(lower, "invalid_grant"):
		return goerrors.New(msg, goerrors.CategoryAuth).
			WithTextCode(access.TextCodeInvalidCredentials).
			WithCode(goerrors.CodeUnauthorized)
	default:
		return goerrors.New(msg, goerrors.CategoryExternal).
			WithMetadata(map[string]any{"status": status})
	}
}
