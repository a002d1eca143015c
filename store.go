package access

import (
	"context"
	"sync"
)

// SessionStore owns the process-wide session state. It is the only writer;
// AuthClient events and explicit SignOut calls drive every mutation, and
// readers get value snapshots through Current or Subscribe.
type SessionStore struct {
	client   AuthClient
	resolver *RoleResolver
	logger   Logger
	sink     ActivitySink

	mu          sync.Mutex
	session     Session
	epoch       uint64
	pending     []Session
	subscribers map[int]func(Session)
	nextSub     int
	unsubscribe func()
	ctx         context.Context

	// deliverMu serializes subscriber delivery so listeners observe
	// snapshots in the order the store applied them.
	deliverMu sync.Mutex
}

// NewSessionStore returns a store with an empty session. Call Start to
// attach it to the auth client.
func NewSessionStore(client AuthClient, resolver *RoleResolver) *SessionStore {
	return &SessionStore{
		client:      client,
		resolver:    resolver,
		logger:      defLogger{},
		sink:        noopActivitySink{},
		subscribers: map[int]func(Session){},
		ctx:         context.Background(),
	}
}

func (s *SessionStore) WithLogger(logger Logger) *SessionStore {
	s.logger = logger
	return s
}

// WithActivitySink configures an ActivitySink for emitting session events.
func (s *SessionStore) WithActivitySink(sink ActivitySink) *SessionStore {
	s.sink = normalizeActivitySink(sink)
	return s
}

// Start subscribes to auth client session changes and performs the initial
// session lookup so page reloads with persisted tokens recover their state.
func (s *SessionStore) Start(ctx context.Context) error {
	s.mu.Lock()
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx = ctx
	s.mu.Unlock()

	s.unsubscribe = s.client.OnSessionChange(s.handleAuthEvent)

	return s.Initialize(ctx)
}

// Stop detaches the store from the auth client. The current snapshot is
// left untouched.
func (s *SessionStore) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Initialize asks the auth client for any existing session. While the
// lookup and role resolution are pending the session reports IsLoading.
// The lookup result only applies if no auth event superseded it while it
// was in flight: a sign-in landing mid-lookup must not be clobbered by a
// slow empty result.
func (s *SessionStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	epoch := s.epoch
	s.session = Session{Loading: true}
	s.queueLocked()
	s.mu.Unlock()
	s.notify()

	identity, err := s.client.GetCurrentSession(ctx)
	if err != nil {
		s.mu.Lock()
		if s.epoch != epoch {
			s.mu.Unlock()
			s.logger.Debug("discarding stale initial session lookup failure: %v", err)
			return nil
		}
		s.epoch++
		s.session = Session{Error: err}
		s.queueLocked()
		s.mu.Unlock()
		s.logger.Error("Initialize current session lookup failed: %v", err)
		s.notify()
		return err
	}

	if identity == nil {
		s.mu.Lock()
		if s.epoch != epoch {
			s.mu.Unlock()
			s.logger.Debug("discarding stale empty initial session lookup")
			return nil
		}
		s.epoch++
		s.session = Session{}
		s.queueLocked()
		s.mu.Unlock()
		s.notify()
		return nil
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.logger.Debug("discarding stale initial session lookup for identity %s", identity.ID())
		return nil
	}
	resolveEpoch := s.installIdentityLocked(identity)
	s.mu.Unlock()
	s.notify()

	recordActivity(ctx, s.sink, s.logger, ActivityEvent{
		EventType:  ActivityEventSignedIn,
		IdentityID: identity.ID(),
	})

	go s.resolveRole(ctx, identity, resolveEpoch)
	return nil
}

// Current returns an immutable snapshot of the session.
func (s *SessionStore) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Subscribe registers a listener invoked on every state change. The
// returned function removes the listener.
func (s *SessionStore) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// SignOut clears identity and role immediately, before any network
// round-trip, so the UI never hangs in a loading state. The provider call
// runs in the background.
func (s *SessionStore) SignOut(ctx context.Context) {
	s.clearSession(ctx)

	go func() {
		if err := s.client.SignOut(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("provider sign out failed: %v", err)
		}
	}()
}

func (s *SessionStore) handleAuthEvent(event AuthEvent) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	switch event.Type {
	case AuthEventSignedIn:
		if event.Identity == nil {
			s.logger.Warn("signed in event without identity, ignoring")
			return
		}
		s.beginResolve(ctx, event.Identity)
	case AuthEventSignedOut:
		s.clearSession(ctx)
	default:
		s.logger.Debug("ignoring auth event type %s", event.Type)
	}
}

// beginResolve installs the identity with a pending role and resolves the
// role asynchronously. If another identity change lands while the lookup is
// in flight, the stale result is discarded: last writer wins, keyed by the
// identity captured at call time.
func (s *SessionStore) beginResolve(ctx context.Context, identity Identity) {
	s.mu.Lock()
	epoch := s.installIdentityLocked(identity)
	s.mu.Unlock()
	s.notify()

	recordActivity(ctx, s.sink, s.logger, ActivityEvent{
		EventType:  ActivityEventSignedIn,
		IdentityID: identity.ID(),
	})

	go s.resolveRole(ctx, identity, epoch)
}

// installIdentityLocked advances the epoch and stages the identity with a
// pending role. Callers hold mu and resolve against the returned epoch.
func (s *SessionStore) installIdentityLocked(identity Identity) uint64 {
	s.epoch++
	s.session = Session{Identity: identity, Loading: true}
	s.queueLocked()
	return s.epoch
}

func (s *SessionStore) resolveRole(ctx context.Context, identity Identity, epoch uint64) {
	role, err := s.resolver.Resolve(ctx, identity.ID())

	s.mu.Lock()
	if s.epoch != epoch || s.session.Identity == nil || s.session.Identity.ID() != identity.ID() {
		s.mu.Unlock()
		s.logger.Debug("discarding stale role resolution for identity %s", identity.ID())
		return
	}

	if err != nil {
		s.session = Session{Identity: identity, Error: err}
	} else {
		s.session = Session{Identity: identity, Role: role}
	}
	s.queueLocked()
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.logger.Warn("role resolution failed for identity %s, denying protected routes: %v", identity.ID(), err)
		recordActivity(ctx, s.sink, s.logger, ActivityEvent{
			EventType:  ActivityEventRoleResolveFailed,
			IdentityID: identity.ID(),
			Metadata:   map[string]any{"error": err.Error()},
		})
		return
	}

	recordActivity(ctx, s.sink, s.logger, ActivityEvent{
		EventType:  ActivityEventRoleResolved,
		IdentityID: identity.ID(),
		Role:       role,
	})
}

func (s *SessionStore) clearSession(ctx context.Context) {
	s.mu.Lock()
	wasEmpty := s.session.Identity == nil && !s.session.Loading
	identityID := ""
	if s.session.Identity != nil {
		identityID = s.session.Identity.ID()
	}
	s.epoch++
	s.session = Session{}
	if !wasEmpty {
		s.queueLocked()
	}
	s.mu.Unlock()

	if wasEmpty {
		return
	}

	s.notify()
	recordActivity(ctx, s.sink, s.logger, ActivityEvent{
		EventType:  ActivityEventSignedOut,
		IdentityID: identityID,
	})
}

// queueLocked stages the current snapshot for delivery. Callers hold mu,
// so queued snapshots carry the order state changes were applied in.
func (s *SessionStore) queueLocked() {
	s.pending = append(s.pending, s.session)
}

// notify drains queued snapshots to subscribers. deliverMu keeps fan-out
// single file: whichever goroutine holds it delivers everything queued so
// far, and late arrivals find an empty queue and return.
func (s *SessionStore) notify() {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		batch := s.pending
		s.pending = nil
		listeners := make([]func(Session), 0, len(s.subscribers))
		for _, fn := range s.subscribers {
			listeners = append(listeners, fn)
		}
		s.mu.Unlock()

		for _, snapshot := range batch {
			for _, fn := range listeners {
				fn(snapshot)
			}
		}
	}
}
