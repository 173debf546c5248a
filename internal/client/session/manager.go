package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Divert12/divert-ai-crew/internal/client/models"
	"github.com/Divert12/divert-ai-crew/internal/client/storage"
	"github.com/Divert12/divert-ai-crew/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AuthAPI is the part of the backend the session depends on.
// *api.Client implements it.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
}

// Manager owns the session state. It is safe for concurrent use.
//
// Mutations (restore, login, logout) are serialized and their storage writes
// happen before the new state becomes visible. Concurrent logins are not
// deduplicated: the last one to commit wins.
type Manager struct {
	store  storage.Store
	api    AuthAPI
	logger logging.Logger

	mu    sync.Mutex
	state State
	token string
	// gen counts committed login/logout calls. A restore that finds gen > 0
	// leaves state and storage alone.
	gen uint64

	initOnce sync.Once
	ready    chan struct{}

	subsMu  sync.Mutex
	subs    map[int]func(State)
	nextSub int

	pendingMu sync.Mutex
	pending   []State
	notifyMu  sync.Mutex
}

// NewManager creates a Manager in the initializing state. Call Initialize
// once the application is ready to restore the stored session.
func NewManager(store storage.Store, api AuthAPI, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Manager{
		store:  store,
		api:    api,
		logger: logger,
		state:  State{IsInitializing: true},
		ready:  make(chan struct{}),
		subs:   make(map[int]func(State)),
	}
}

// Initialize restores the session from storage. Only the first call does
// any work; later calls return once that restore has finished.
//
// A complete stored session (token and a decodable user record) makes the
// state authenticated. Anything else is discarded from storage and leaves
// the state logged out. Initialize never fails: storage errors are logged.
func (m *Manager) Initialize(ctx context.Context) {
	m.initOnce.Do(func() {
		m.restore(ctx)
		close(m.ready)
	})
}

func (m *Manager) restore(ctx context.Context) {
	m.mu.Lock()

	if m.gen > 0 {
		m.logger.Info(ctx, "session changed before restore; keeping it")
		m.state.IsInitializing = false
		m.commitLocked()
		m.mu.Unlock()
		m.flush()
		return
	}

	token, user := m.readStored(ctx)
	if user != nil {
		m.token = token
		m.state = State{IsAuthenticated: true, User: user}
		m.logger.Info(ctx, "session restored", "username", user.Username)
		m.warnIfExpired(ctx, token)
	} else {
		m.token = ""
		m.state = State{}
	}
	m.commitLocked()
	m.mu.Unlock()
	m.flush()
}

// readStored returns the stored session, or "", nil after clearing whatever
// partial or corrupt data was found. m.mu must be held.
func (m *Manager) readStored(ctx context.Context) (string, *models.User) {
	token, hasToken, err := m.store.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		m.logger.Warn(ctx, "reading stored token failed", "error", err)
		m.discard(ctx)
		return "", nil
	}
	data, hasUser, err := m.store.Get(ctx, storage.KeyUserData)
	if err != nil {
		m.logger.Warn(ctx, "reading stored user failed", "error", err)
		m.discard(ctx)
		return "", nil
	}

	if !hasToken && !hasUser {
		m.logger.Info(ctx, "no stored session")
		return "", nil
	}
	if token == "" || data == "" {
		m.logger.Warn(ctx, "stored session incomplete; clearing",
			"has_token", token != "", "has_user", data != "")
		m.discard(ctx)
		return "", nil
	}

	user, err := models.DecodeUser(data)
	if err != nil {
		m.logger.Warn(ctx, "stored user data corrupt; clearing", "error", err)
		m.discard(ctx)
		return "", nil
	}
	return token, user
}

// warnIfExpired logs when token is a JWT whose exp is in the past. The
// backend remains the authority on validity.
func (m *Manager) warnIfExpired(ctx context.Context, token string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		m.logger.Warn(ctx, "stored access token has expired", "expired_at", exp.Time)
	}
}

// discard removes both keys, logging failures. m.mu must be held.
func (m *Manager) discard(ctx context.Context) {
	if err := m.clearStored(ctx); err != nil {
		m.logger.Error(ctx, "clearing stored session failed", "error", err)
	}
}

func (m *Manager) clearStored(ctx context.Context) error {
	err := storage.Atomically(ctx, m.store, func(tx storage.Store) error {
		return errors.Join(
			tx.Remove(ctx, storage.KeyAccessToken),
			tx.Remove(ctx, storage.KeyUserData),
		)
	})
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Login authenticates against the backend, persists the credential and
// switches the session to the returned user. On any failure the state is
// unchanged.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) Result {
	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		m.logger.Warn(ctx, "login failed", "username", creds.Username, "error", err)
		return Result{Err: err}
	}

	data, err := models.EncodeUser(resp.User)
	if err != nil {
		return Result{Err: fmt.Errorf("encoding user: %w", err)}
	}

	m.mu.Lock()
	err = storage.Atomically(ctx, m.store, func(tx storage.Store) error {
		if err := tx.Set(ctx, storage.KeyAccessToken, resp.AccessToken); err != nil {
			return err
		}
		return tx.Set(ctx, storage.KeyUserData, data)
	})
	if err != nil {
		// A transactional store rolled back to the previous pair; any other
		// store may now hold a mismatched pair.
		if _, ok := m.store.(storage.Transactional); !ok {
			m.discard(ctx)
		}
		m.mu.Unlock()
		m.logger.Error(ctx, "persisting session failed", "username", creds.Username, "error", err)
		return Result{Err: fmt.Errorf("saving session: %w", err)}
	}

	user := resp.User
	m.gen++
	m.token = resp.AccessToken
	m.state.IsAuthenticated = true
	m.state.User = &user
	m.commitLocked()
	m.mu.Unlock()
	m.flush()

	m.logger.Info(ctx, "logged in", "username", user.Username)
	u := user
	return Result{User: &u}
}

// Register creates an account. It never changes the session; the caller
// decides whether to log in afterwards.
func (m *Manager) Register(ctx context.Context, reg models.Registration) Result {
	user, err := m.api.Register(ctx, reg)
	if err != nil {
		m.logger.Warn(ctx, "registration failed", "username", reg.Username, "error", err)
		return Result{Err: err}
	}
	m.logger.Info(ctx, "registered", "username", user.Username)
	return Result{User: user}
}

// Logout forgets the credential locally. No request is sent to the backend.
// The state becomes logged out even if clearing storage fails; that error
// is returned.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	err := m.clearStored(ctx)
	m.gen++
	m.token = ""
	m.state.IsAuthenticated = false
	m.state.User = nil
	m.commitLocked()
	m.mu.Unlock()
	m.flush()

	if err != nil {
		m.logger.Error(ctx, "logout could not clear storage", "error", err)
		return err
	}
	m.logger.Info(ctx, "logged out")
	return nil
}

// State returns a copy of the current session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// AccessToken returns the bearer token, "" when logged out. It lets the
// Manager serve as the API client's token source.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Ready is closed once the first Initialize has finished.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// WaitReady blocks until Initialize has finished or ctx is done.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers fn to receive every committed state, in commit order.
// fn runs on the goroutine that committed the change (or one that committed
// concurrently) and should return quickly. Calling the returned function
// stops further deliveries.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.subsMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subsMu.Lock()
			delete(m.subs, id)
			m.subsMu.Unlock()
		})
	}
}

// commitLocked queues the current state for subscribers. m.mu must be held,
// which fixes the queue order to the commit order.
func (m *Manager) commitLocked() {
	s := m.state.clone()
	m.pendingMu.Lock()
	m.pending = append(m.pending, s)
	m.pendingMu.Unlock()
}

// flush delivers queued states. Only one goroutine delivers at a time; a
// goroutine that finds delivery in progress leaves its states to the
// current deliverer, which keeps draining until the queue is empty. This
// also makes it safe for a subscriber to call Login or Logout.
func (m *Manager) flush() {
	for {
		if !m.notifyMu.TryLock() {
			return
		}
		for {
			batch := m.takePending()
			if len(batch) == 0 {
				break
			}
			for _, s := range batch {
				m.deliver(s)
			}
		}
		m.notifyMu.Unlock()

		m.pendingMu.Lock()
		empty := len(m.pending) == 0
		m.pendingMu.Unlock()
		if empty {
			return
		}
	}
}

func (m *Manager) takePending() []State {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	batch := m.pending
	m.pending = nil
	return batch
}

func (m *Manager) deliver(s State) {
	m.subsMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for id := 0; id < m.nextSub; id++ {
		if fn, ok := m.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	m.subsMu.Unlock()

	for _, fn := range fns {
		fn(s.clone())
	}
}
