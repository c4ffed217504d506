// Package wallet ties one user's session, store and operations together
// and keeps a client per signed-in token.
package wallet

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"moneyguard/internal/backend"
	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
	"moneyguard/internal/operations"
	"moneyguard/internal/session"
	"moneyguard/internal/store"
)

// Client is the client-side state of one user.
type Client struct {
	Session *session.Session
	Store   *store.Store
	Ops     *operations.Operations

	auth backend.AuthBackend
	log  *zap.SugaredLogger

	listMu    sync.Mutex
	listedFor uint64
}

// NewClient creates a signed-out client. Logging out resets its store.
func NewClient(b backend.Backend, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	st := store.New()
	sess := session.New()
	sess.OnLogout(st.Reset)

	return &Client{
		Session: sess,
		Store:   st,
		Ops:     operations.New(b, st, log),
		auth:    b,
		log:     log,
	}
}

// SignUp registers a user and signs the client in.
func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error) {
	res, err := c.auth.SignUp(ctx, req)
	if err != nil {
		appErr := apperrors.ClassifySignUp(err)
		c.log.Warnw("sign-up failed", "code", appErr.Code, "error", err)
		return models.User{}, appErr
	}
	c.start(ctx, res.Token, res.User)
	return res.User, nil
}

// SignIn signs the client in.
func (c *Client) SignIn(ctx context.Context, req models.SignInRequest) (models.User, error) {
	res, err := c.auth.SignIn(ctx, req)
	if err != nil {
		appErr := apperrors.ClassifySignIn(err)
		c.log.Warnw("sign-in failed", "code", appErr.Code, "error", err)
		return models.User{}, appErr
	}
	c.start(ctx, res.Token, res.User)
	return res.User, nil
}

// Restore signs the client in with a token kept from an earlier session.
func (c *Client) Restore(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, apperrors.ErrNotAuthenticated
	}
	user, err := c.auth.CurrentUser(ctx, token)
	if err != nil {
		return models.User{}, apperrors.Classify(err)
	}
	c.start(ctx, token, user)
	return user, nil
}

// CurrentUser reloads the signed-in user, including the server balance.
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	if !c.Session.IsAuthenticated() {
		return models.User{}, apperrors.ErrNotAuthenticated
	}
	user, err := c.auth.CurrentUser(ctx, c.Session.Token())
	if err != nil {
		appErr := apperrors.Classify(err)
		if apperrors.IsSessionExpired(appErr) {
			c.Session.Expire()
		}
		return models.User{}, appErr
	}
	c.Session.SetUser(user)
	return user, nil
}

// SignOut revokes the token on the server and logs out locally. The local
// logout happens even when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	token := c.Session.Token()
	defer c.Session.Logout()

	if token == "" {
		return nil
	}
	if err := c.auth.SignOut(ctx, token); err != nil {
		appErr := apperrors.Classify(err)
		c.log.Warnw("sign-out failed on server", "code", appErr.Code, "error", err)
		if apperrors.IsSessionExpired(appErr) {
			return nil
		}
		return appErr
	}
	return nil
}

// EnsureListed runs the initial List once per sign-in.
func (c *Client) EnsureListed(ctx context.Context) error {
	c.listMu.Lock()
	defer c.listMu.Unlock()

	gen := c.Session.Generation()
	if gen == 0 || gen == c.listedFor {
		return nil
	}
	if err := c.Ops.List(ctx, c.Session); err != nil {
		return err
	}
	c.listedFor = gen
	return nil
}

func (c *Client) start(ctx context.Context, token string, user models.User) {
	c.Session.Authenticate(token, user)
	if err := c.EnsureListed(ctx); err != nil {
		c.log.Warnw("initial transaction list failed", "error", err)
	}
}
