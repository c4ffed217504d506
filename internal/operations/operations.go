// Package operations runs the four transaction operations against the
// wallet backend and folds their outcome into the store.
//
// Every call moves through pending, then fulfilled or rejected. Failures
// are rewritten into an *errors.AppError whose message can be shown as-is;
// the store only ever sees that message.
package operations

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"moneyguard/internal/backend"
	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
	"moneyguard/internal/session"
	"moneyguard/internal/store"
	mgvalidator "moneyguard/internal/validator"
)

// Operations binds a backend to the store it keeps in sync.
type Operations struct {
	backend  backend.TransactionBackend
	store    *store.Store
	validate *validator.Validate
	log      *zap.SugaredLogger
}

// New creates Operations. A nil logger disables logging.
func New(b backend.TransactionBackend, s *store.Store, log *zap.SugaredLogger) *Operations {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Operations{
		backend:  b,
		store:    s,
		validate: mgvalidator.New(),
		log:      log,
	}
}

// Store returns the store the operations write to.
func (o *Operations) Store() *store.Store {
	return o.store
}

// List fetches transactions and categories concurrently and replaces both
// cached collections. If either request fails the previous collections
// are kept.
func (o *Operations) List(ctx context.Context, sess *session.Session) error {
	if err := o.gate(sess); err != nil {
		return err
	}
	token := sess.Token()

	epoch := o.store.FetchStarted()
	o.pending("list")

	var (
		txns []models.Transaction
		cats []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, err = o.backend.ListTransactions(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = o.backend.ListCategories(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		appErr := o.reject("list", sess, err)
		o.store.FetchFailed(epoch, appErr.Message)
		return appErr
	}

	o.store.FetchSucceeded(epoch, txns, cats)
	o.log.Debugw("operation fulfilled", "operation", "list", "transactions", len(txns), "categories", len(cats))
	return nil
}

// Create validates payload, signs its amount by type and submits it. The
// server's entry is appended to the store and returned.
func (o *Operations) Create(ctx context.Context, sess *session.Session, payload models.CreateTransactionPayload) (models.Transaction, error) {
	if err := o.gate(sess); err != nil {
		return models.Transaction{}, err
	}
	if err := o.validate.Struct(payload); err != nil {
		return models.Transaction{}, o.invalid("create", err)
	}

	signed := models.SignedAmount(payload.Type, *payload.Amount)
	payload.Amount = &signed

	epoch := o.store.MutationStarted()
	o.pending("create")

	tx, err := o.backend.CreateTransaction(ctx, sess.Token(), payload)
	if err != nil {
		appErr := o.reject("create", sess, err)
		o.store.MutationFailed(epoch, appErr.Message)
		return models.Transaction{}, appErr
	}

	o.store.AddSucceeded(epoch, tx)
	o.log.Debugw("operation fulfilled", "operation", "create", "id", tx.ID)
	return tx, nil
}

// Update sends the non-nil fields of payload for transaction id and
// replaces the cached entry with the server's answer. When only one of
// amount and type is given, the cached entry supplies the other so the
// sign stays consistent.
func (o *Operations) Update(ctx context.Context, sess *session.Session, id string, payload models.UpdateTransactionPayload) (models.Transaction, error) {
	if err := o.gate(sess); err != nil {
		return models.Transaction{}, err
	}
	if id == "" {
		return models.Transaction{}, apperrors.WithMessage(apperrors.ErrValidation, "id is required")
	}
	if payload.IsEmpty() {
		return models.Transaction{}, apperrors.WithMessage(apperrors.ErrValidation, "at least one field must be changed")
	}
	if err := o.validate.Struct(payload); err != nil {
		return models.Transaction{}, o.invalid("update", err)
	}
	payload = o.normalizeUpdate(id, payload)

	epoch := o.store.MutationStarted()
	o.pending("update")

	tx, err := o.backend.UpdateTransaction(ctx, sess.Token(), id, payload)
	if err != nil {
		appErr := o.reject("update", sess, err)
		o.store.MutationFailed(epoch, appErr.Message)
		return models.Transaction{}, appErr
	}

	if err := o.store.EditSucceeded(epoch, tx); err != nil {
		o.log.Warnw("updated transaction is not cached", "operation", "update", "id", tx.ID)
		return tx, apperrors.Wrap(apperrors.ErrStaleReference, err)
	}
	o.log.Debugw("operation fulfilled", "operation", "update", "id", tx.ID)
	return tx, nil
}

// Delete removes transaction id and returns the id it sent.
func (o *Operations) Delete(ctx context.Context, sess *session.Session, id string) (string, error) {
	if err := o.gate(sess); err != nil {
		return "", err
	}
	if id == "" {
		return "", apperrors.WithMessage(apperrors.ErrValidation, "id is required")
	}

	epoch := o.store.MutationStarted()
	o.pending("delete")

	if err := o.backend.DeleteTransaction(ctx, sess.Token(), id); err != nil {
		appErr := o.reject("delete", sess, err)
		o.store.MutationFailed(epoch, appErr.Message)
		return "", appErr
	}

	o.store.DeleteSucceeded(epoch, id)
	o.log.Debugw("operation fulfilled", "operation", "delete", "id", id)
	return id, nil
}

func (o *Operations) normalizeUpdate(id string, p models.UpdateTransactionPayload) models.UpdateTransactionPayload {
	cached, known := o.store.Transaction(id)

	txType := p.Type
	if txType == nil && known {
		txType = &cached.Type
	}
	if txType == nil {
		return p
	}

	switch {
	case p.Amount != nil:
		signed := models.SignedAmount(*txType, *p.Amount)
		p.Amount = &signed
	case p.Type != nil && known:
		signed := models.SignedAmount(*txType, cached.Amount)
		p.Amount = &signed
	}
	return p
}

func (o *Operations) gate(sess *session.Session) error {
	if sess == nil || !sess.IsAuthenticated() {
		return apperrors.ErrNotAuthenticated
	}
	return nil
}

func (o *Operations) invalid(op string, err error) *apperrors.AppError {
	appErr := apperrors.WithMessage(apperrors.ErrValidation, mgvalidator.Describe(err))
	o.log.Debugw("operation rejected before request", "operation", op, "reason", appErr.Message)
	return appErr
}

func (o *Operations) pending(op string) {
	o.log.Debugw("operation pending", "operation", op)
}

// reject classifies err and expires the session on a 401.
func (o *Operations) reject(op string, sess *session.Session, err error) *apperrors.AppError {
	appErr := apperrors.Classify(err)
	if apperrors.IsSessionExpired(appErr) {
		sess.Expire()
	}
	o.log.Warnw("operation rejected", "operation", op, "code", appErr.Code, "error", err)
	return appErr
}
