package access_test

import (
	"context"
	"io"
	"mime/multipart"
	"sync"
	"time"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/mindcare/go-access"
	"github.com/stretchr/testify/mock"
)

// stubIdentity implements access.Identity
type stubIdentity struct {
	id    string
	email string
}

func (s stubIdentity) ID() string           { return s.id }
func (s stubIdentity) Email() string        { return s.email }
func (s stubIdentity) CreatedAt() time.Time { return time.Time{} }

func newStubIdentity(email string) stubIdentity {
	return stubIdentity{id: uuid.New().String(), email: email}
}

// MockAuthClient implements access.AuthClient
type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) SignUp(ctx context.Context, email, password string, attributes map[string]any) (string, error) {
	args := m.Called(ctx, email, password, attributes)
	return args.String(0), args.Error(1)
}

func (m *MockAuthClient) SignInWithPassword(ctx context.Context, email, password string) (access.Identity, error) {
	args := m.Called(ctx, email, password)
	if identity := args.Get(0); identity != nil {
		return identity.(access.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthClient) GetCurrentSession(ctx context.Context) (access.Identity, error) {
	args := m.Called(ctx)
	if identity := args.Get(0); identity != nil {
		return identity.(access.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthClient) FindIdentityByEmail(ctx context.Context, email string) (access.Identity, error) {
	args := m.Called(ctx, email)
	if identity := args.Get(0); identity != nil {
		return identity.(access.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthClient) OnSessionChange(fn access.AuthCallback) func() {
	m.Called(fn)
	return func() {}
}

func (m *MockAuthClient) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockRoleStore implements access.RoleStore
type MockRoleStore struct {
	mock.Mock
}

func (m *MockRoleStore) SelectByIdentity(ctx context.Context, identityID string) ([]*access.RoleAssignment, error) {
	args := m.Called(ctx, identityID)
	if rows := args.Get(0); rows != nil {
		return rows.([]*access.RoleAssignment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoleStore) UpsertRole(ctx context.Context, identityID string, role access.Role) error {
	args := m.Called(ctx, identityID, role)
	return args.Error(0)
}

// memRoleStore is an in-memory RoleStore with optional per-identity gates
// so tests can control resolution timing.
type memRoleStore struct {
	mu    sync.Mutex
	rows  map[string][]access.Role
	gates map[string]chan struct{}
}

func newMemRoleStore() *memRoleStore {
	return &memRoleStore{
		rows:  map[string][]access.Role{},
		gates: map[string]chan struct{}{},
	}
}

func (s *memRoleStore) assign(identityID string, role access.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[identityID] = append(s.rows[identityID], role)
}

// gate makes SelectByIdentity for the identity block until the returned
// channel is closed.
func (s *memRoleStore) gate(identityID string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[identityID] = ch
	return ch
}

func (s *memRoleStore) SelectByIdentity(ctx context.Context, identityID string) ([]*access.RoleAssignment, error) {
	s.mu.Lock()
	gate := s.gates[identityID]
	roles := s.rows[identityID]
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	records := make([]*access.RoleAssignment, 0, len(roles))
	for _, role := range roles {
		records = append(records, &access.RoleAssignment{
			ID:   uuid.New(),
			Role: role,
		})
	}
	return records, nil
}

func (s *memRoleStore) UpsertRole(ctx context.Context, identityID string, role access.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows[identityID] {
		if existing == role {
			return nil
		}
	}
	s.rows[identityID] = append(s.rows[identityID], role)
	return nil
}

func (s *memRoleStore) rolesFor(identityID string) []access.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]access.Role, len(s.rows[identityID]))
	copy(out, s.rows[identityID])
	return out
}

// capturingSink records activity events for assertions.
type capturingSink struct {
	mu     sync.Mutex
	events []access.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, event access.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturingSink) byType(eventType access.ActivityEventType) []access.ActivityEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []access.ActivityEvent
	for _, event := range c.events {
		if event.EventType == eventType {
			out = append(out, event)
		}
	}
	return out
}

// testLogger swallows output so tests stay quiet.
type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockContext mocks router.Context for middleware tests.
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) QueryValues(name string) []string {
	args := m.Called(name)
	if values := args.Get(0); values != nil {
		return values.([]string)
	}
	return nil
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) LocalsMerge(key any, value map[string]any) map[string]any {
	args := m.Called(key, value)
	if merged := args.Get(0); merged != nil {
		return merged.(map[string]any)
	}
	return nil
}

func (m *MockContext) FormFile(key string) (*multipart.FileHeader, error) {
	args := m.Called(key)
	if header := args.Get(0); header != nil {
		return header.(*multipart.FileHeader), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) IP() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) SendStatus(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) SendStream(r io.Reader) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockContext) RouteName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) RouteParams() map[string]string {
	args := m.Called()
	if params := args.Get(0); params != nil {
		return params.(map[string]string)
	}
	return nil
}
