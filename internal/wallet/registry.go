package wallet

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"moneyguard/internal/backend"
	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
)

// DefaultIdleTTL is how long a client may go unused before it is evicted.
const DefaultIdleTTL = 24 * time.Hour

// sweepInterval bounds how often Resolve scans for idle clients.
const sweepInterval = time.Minute

// entry is one registered token. ready is closed once client or err is set;
// until then the token is being restored and other callers wait on it.
type entry struct {
	client   *Client
	err      error
	ready    chan struct{}
	lastUsed time.Time
}

func (e *entry) settled() bool {
	select {
	case <-e.ready:
		return true
	default:
		return false
	}
}

// Registry keeps one Client per bearer token.
type Registry struct {
	mu        sync.Mutex
	clients   map[string]*entry
	backend   backend.Backend
	log       *zap.SugaredLogger
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRegistry creates an empty registry whose clients use b.
func NewRegistry(b backend.Backend, log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{
		clients: map[string]*entry{},
		backend: b,
		log:     log,
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
	}
}

// WithIdleTTL sets how long an unused client is kept. Non-positive values
// keep the default.
func (r *Registry) WithIdleTTL(ttl time.Duration) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ttl > 0 {
		r.idleTTL = ttl
	}
	return r
}

// SignUp registers a user and returns its new client.
func (r *Registry) SignUp(ctx context.Context, req models.SignUpRequest) (*Client, error) {
	c := NewClient(r.backend, r.log)
	if _, err := c.SignUp(ctx, req); err != nil {
		return nil, err
	}
	r.add(c)
	return c, nil
}

// SignIn signs a user in and returns its new client.
func (r *Registry) SignIn(ctx context.Context, req models.SignInRequest) (*Client, error) {
	c := NewClient(r.backend, r.log)
	if _, err := c.SignIn(ctx, req); err != nil {
		return nil, err
	}
	r.add(c)
	return c, nil
}

// Resolve returns the client for token, restoring a session from the
// backend when the token is not known yet. Concurrent callers with the same
// unknown token share one restore and get the same client. Clients whose
// session expired are dropped.
func (r *Registry) Resolve(ctx context.Context, token string) (*Client, error) {
	if token == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	r.mu.Lock()
	now := r.now()
	r.sweepLocked(now)

	e, ok := r.clients[token]
	if ok && e.settled() && (e.err != nil || e.client.Session.Token() != token) {
		delete(r.clients, token)
		ok = false
	}
	if ok {
		e.lastUsed = now
		r.mu.Unlock()
		return r.wait(ctx, e)
	}

	e = &entry{ready: make(chan struct{}), lastUsed: now}
	r.clients[token] = e
	r.mu.Unlock()

	c := NewClient(r.backend, r.log)
	_, err := c.Restore(ctx, token)

	r.mu.Lock()
	if err != nil {
		e.err = err
		if r.clients[token] == e {
			delete(r.clients, token)
		}
	} else {
		e.client = c
	}
	close(e.ready)
	r.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return c, nil
}

// SignOut signs the token's client out and forgets it. A token that is
// not registered yet is restored first so the server still revokes it.
func (r *Registry) SignOut(ctx context.Context, token string) error {
	c, err := r.Resolve(ctx, token)
	if err != nil {
		return err
	}
	r.mu.Lock()
	if e, ok := r.clients[token]; ok && e.client == c {
		delete(r.clients, token)
	}
	r.mu.Unlock()
	return c.SignOut(ctx)
}

// Len returns the number of registered clients, including tokens that are
// still being restored.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (r *Registry) add(c *Client) {
	token := c.Session.Token()
	if token == "" {
		return
	}
	ready := make(chan struct{})
	close(ready)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[token] = &entry{client: c, ready: ready, lastUsed: r.now()}
}

func (r *Registry) wait(ctx context.Context, e *entry) (*Client, error) {
	select {
	case <-e.ready:
	case <-ctx.Done():
		return nil, apperrors.Wrap(apperrors.ErrOperationFailed, ctx.Err())
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.client, nil
}

// sweepLocked evicts settled clients that expired or sat idle longer than
// idleTTL. It must be called with mu held.
func (r *Registry) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < sweepInterval {
		return
	}
	r.lastSweep = now

	for token, e := range r.clients {
		if !e.settled() {
			continue
		}
		if e.err != nil || e.client.Session.Token() != token || now.Sub(e.lastUsed) > r.idleTTL {
			delete(r.clients, token)
			r.log.Debugw("evicted wallet client", "idle", now.Sub(e.lastUsed))
		}
	}
}
