// Package memory implements access.AuthClient entirely in process. It backs
// tests and local development where no hosted auth provider is available.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mindcare/go-access"
)

type account struct {
	id        uuid.UUID
	email     string
	password  string
	createdAt time.Time
}

type identity struct {
	id        string
	email     string
	createdAt time.Time
}

func (i identity) ID() string           { return i.id }
func (i identity) Email() string        { return i.email }
func (i identity) CreatedAt() time.Time { return i.createdAt }

var _ access.Identity = identity{}

// Client is an in-memory AuthClient.
type Client struct {
	mu          sync.Mutex
	accounts    map[string]*account
	current     *identity
	listeners   map[int]access.AuthCallback
	nextListner int
	now         func() time.Time
}

// NewClient returns an empty in-memory auth client.
func NewClient() *Client {
	return &Client{
		accounts:  map[string]*account{},
		listeners: map[int]access.AuthCallback{},
		now:       time.Now,
	}
}

var _ access.AuthClient = (*Client)(nil)

// SignUp registers an identity. It does not establish a session.
func (c *Client) SignUp(ctx context.Context, email, password string, attributes map[string]any) (string, error) {
	key := normalize(email)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.accounts[key]; exists {
		return "", access.ErrAlreadyRegistered
	}

	record := &account{
		id:        uuid.New(),
		email:     email,
		password:  password,
		createdAt: c.now(),
	}
	c.accounts[key] = record

	return record.id.String(), nil
}

// SignInWithPassword authenticates and installs the session, notifying
// listeners.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (access.Identity, error) {
	c.mu.Lock()
	record, exists := c.accounts[normalize(email)]
	if !exists || record.password != password {
		c.mu.Unlock()
		return nil, access.ErrInvalidCredentials
	}

	current := identity{
		id:        record.id.String(),
		email:     record.email,
		createdAt: record.createdAt,
	}
	c.current = &current
	c.mu.Unlock()

	c.emit(access.AuthEvent{Type: access.AuthEventSignedIn, Identity: current})

	return current, nil
}

// GetCurrentSession returns the active identity, or nil when signed out.
func (c *Client) GetCurrentSession(ctx context.Context) (access.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, nil
	}
	return *c.current, nil
}

// FindIdentityByEmail looks up a registered identity without
// authenticating it.
func (c *Client) FindIdentityByEmail(ctx context.Context, email string) (access.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, exists := c.accounts[normalize(email)]
	if !exists {
		return nil, access.ErrIdentityNotFound
	}

	return identity{
		id:        record.id.String(),
		email:     record.email,
		createdAt: record.createdAt,
	}, nil
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

// SignOut clears the session and notifies listeners.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	wasSignedIn := c.current != nil
	c.current = nil
	c.mu.Unlock()

	if wasSignedIn {
		c.emit(access.AuthEvent{Type: access.AuthEventSignedOut})
	}

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

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
