// Package stores holds the stateful caches the command line reads from.
// Every store checks the session before talking to the backend, keeps
// what it fetched, and clears it again when a fetch fails.
package stores

import (
	"context"

	"kontor/internal/api"
	"kontor/internal/cache"
	"kontor/internal/log"
	"kontor/internal/session"
)

// Entities named in change events.
const (
	EntityTransaction = "transaction"
	EntityRuleSet     = "ruleset"
	EntityAccount     = "account"
	EntityBankcontact = "bankcontact"
	EntityPresets     = "presets"
	EntityUser        = "user"
	EntityRole        = "role"
)

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EventPublisher announces successful mutations to other consumers.
type EventPublisher interface {
	PublishChange(ctx context.Context, entity, action string, id int64) error
}

// Deps are the collaborators shared by every store.
type Deps struct {
	Client    *api.Client
	Session   *session.Session
	Publisher EventPublisher
	Logger    *log.Logger
}

type base struct {
	client    *api.Client
	session   *session.Session
	publisher EventPublisher
	logger    *log.Logger
	slog      *log.StructuredLogger
}

func newBase(d Deps, component string) base {
	logger := log.OrDiscard(d.Logger).WithComponent(component)
	return base{
		client:    d.Client,
		session:   d.Session,
		publisher: d.Publisher,
		logger:    logger,
		slog:      log.NewStructuredLogger(logger),
	}
}

// credentials returns the bearer credentials, or ErrUnauthorized without
// any I/O when nobody is logged in.
func (b *base) credentials() (api.Credentials, error) {
	creds, ok := b.session.Credentials()
	if !ok {
		return nil, api.ErrUnauthorized
	}
	return creds, nil
}

// failed records a failed backend call. A 401 logs the session out.
func (b *base) failed(ctx context.Context, op string, err error) error {
	if api.IsUnauthorized(err) {
		b.logger.WarnContext(ctx, "Backend rejected session", log.FieldOperation, op)
		if serr := b.session.SetNotAuthenticated(ctx); serr != nil {
			b.slog.LogError(ctx, "Failed to reset session", serr, op, nil)
		}
		return err
	}
	b.slog.LogError(ctx, "Backend call failed", err, op,
		log.LogFields{log.FieldStatusCode: api.StatusOf(err)})
	return err
}

// call runs fn with the session credentials and routes failures through failed.
func (b *base) call(ctx context.Context, op string, fn func(api.Credentials) error) error {
	creds, err := b.credentials()
	if err != nil {
		return err
	}
	if err := fn(creds); err != nil {
		return b.failed(ctx, op, err)
	}
	return nil
}

func (b *base) publish(ctx context.Context, entity, action string, id int64) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.PublishChange(ctx, entity, action, id); err != nil {
		b.logger.WarnContext(ctx, "Failed to publish change event",
			log.NewFields().WithEntity(entity, id).WithOperation(action).WithError(err).ToSlice()...)
	}
}

// fetchList GETs a list that the backend may send bare or wrapped under key.
func fetchList[T any](ctx context.Context, b *base, op, path, key string) ([]T, error) {
	list := api.List[T]{Key: key}
	err := b.call(ctx, op, func(creds api.Credentials) error {
		return b.client.Get(ctx, path, nil, creds, &list)
	})
	if err != nil {
		return nil, err
	}
	if list.Items == nil {
		return []T{}, nil
	}
	return list.Items, nil
}

// loadList is the cache-or-fetch pattern shared by the auxiliary stores.
func loadList[T any](ctx context.Context, b *base, c *cache.Collection[T], force bool, op, path, key string) error {
	err := c.Load(ctx, force, func(ctx context.Context) ([]T, error) {
		return fetchList[T](ctx, b, op, path, key)
	})
	if err == nil {
		b.logger.DebugContext(ctx, "Collection ready", log.FieldOperation, op, log.FieldCount, c.Len(), log.FieldForce, force)
	}
	return err
}
