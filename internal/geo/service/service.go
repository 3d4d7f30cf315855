// Package service runs the registry operations for regions, cities and
// players. Every call is one unit of work: id checks fail fast, owner links
// go through the relations package, scalar patches through the models' Merge,
// and cache invalidation and change events follow the commit.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"projet/internal/geo/cache"
	"projet/internal/geo/events"
	"projet/internal/geo/metrics"
	dErrors "projet/pkg/domain-errors"
	"projet/pkg/platform/sentinel"
	"projet/pkg/requestcontext"
	"projet/pkg/secrets"
)

const tracerName = "projet/geo"

// base holds the collaborators shared by the three entity services.
type base struct {
	tx         StoreTx
	logger     *slog.Logger
	cache      cache.Cache
	publisher  events.Publisher
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	secretCost int
	group      singleflight.Group
}

type Option func(b *base)

func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		b.logger = logger
	}
}

// WithCache enables read-through caching of single-record reads.
func WithCache(c cache.Cache) Option {
	return func(b *base) {
		b.cache = c
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(b *base) {
		b.publisher = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *base) {
		b.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(b *base) {
		b.tracer = t
	}
}

// WithSecretCost sets the bcrypt cost used for player credentials.
func WithSecretCost(cost int) Option {
	return func(b *base) {
		b.secretCost = cost
	}
}

func newBase(tx StoreTx, opts ...Option) *base {
	b := &base{tx: tx}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.cache == nil {
		b.cache = cache.Nop{}
	}
	if b.publisher == nil {
		b.publisher = events.NewLogPublisher(b.logger)
	}
	if b.tracer == nil {
		b.tracer = otel.Tracer(tracerName)
	}
	return b
}

// errMissing ends a unit of work whose target record does not exist when the
// operation reports that as an empty result rather than an error.
var errMissing = errors.New("record missing")

func errIDExists(entity events.Entity) error {
	return dErrors.NewKeyed(dErrors.CodeBadRequest, dErrors.KeyIDExists, "a new "+string(entity)+" cannot already have an ID")
}

func errIDNull() error {
	return dErrors.NewKeyed(dErrors.CodeBadRequest, dErrors.KeyIDNull, "invalid id: id is required")
}

func errIDInvalid() error {
	return dErrors.NewKeyed(dErrors.CodeBadRequest, dErrors.KeyIDInvalid, "invalid id: body id does not match path id")
}

func errNotFound(entity events.Entity) error {
	return dErrors.NewKeyed(dErrors.CodeBadRequest, dErrors.KeyIDNotFound, string(entity)+" not found")
}

// storeError translates a store failure into a domain error.
func storeError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "referenced record no longer exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// effects collects what a unit of work touched so it can be announced once
// the commit succeeded.
type effects struct {
	keys    []string
	changes []events.Event
}

func (e *effects) touch(keys ...string) {
	e.keys = append(e.keys, keys...)
}

func (e *effects) record(entity events.Entity, action events.Action, recordID int64) {
	e.changes = append(e.changes, events.Event{Entity: entity, Action: action, ID: recordID})
}

// afterCommit invalidates cached snapshots and publishes change events.
// Failures are logged; the write has already been committed.
func (b *base) afterCommit(ctx context.Context, fx *effects) {
	if len(fx.keys) > 0 {
		if err := b.cache.Invalidate(ctx, fx.keys...); err != nil {
			b.logger.WarnContext(ctx, "failed to invalidate cached records",
				"keys", fx.keys,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	now := requestcontext.Now(ctx)
	reqID := requestcontext.RequestID(ctx)
	for _, ev := range fx.changes {
		ev.At = now
		ev.RequestID = reqID
		if b.metrics != nil {
			b.metrics.IncrementMutation(string(ev.Entity), string(ev.Action))
		}
		if err := b.publisher.Publish(ctx, ev); err != nil {
			b.logger.WarnContext(ctx, "failed to publish change event",
				"entity", ev.Entity,
				"action", ev.Action,
				"id", ev.ID,
				"error", err,
				"request_id", reqID,
			)
		}
	}
}

// run executes fn in a unit of work and applies its effects after commit.
func (b *base) run(ctx context.Context, fn func(st Stores, fx *effects) error) error {
	fx := &effects{}
	err := b.tx.RunInTx(ctx, func(st Stores) error {
		return fn(st, fx)
	})
	if err != nil {
		return err
	}
	b.afterCommit(ctx, fx)
	return nil
}

// readThrough serves key from the cache or loads it once across concurrent
// callers. load returning (nil, nil) means the record does not exist. The
// snapshot is cached only if no write invalidated key since the load began.
func readThrough[T any](ctx context.Context, b *base, entity events.Entity, key string, load func(ctx context.Context) (*T, error), clone func(*T) *T) (*T, error) {
	var cached T
	hit, err := b.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		b.recordCacheLookup(entity, "error")
		b.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	case hit:
		b.recordCacheLookup(entity, "hit")
		return &cached, nil
	default:
		b.recordCacheLookup(entity, "miss")
	}

	v, err, _ := b.group.Do(key, func() (any, error) {
		version, verErr := b.cache.Version(ctx, key)
		rec, err := load(ctx)
		if err != nil || rec == nil {
			return rec, err
		}
		if verErr != nil {
			b.logger.WarnContext(ctx, "cache version read failed", "key", key, "error", verErr)
			return rec, nil
		}
		stored, err := b.cache.SetIfVersion(ctx, key, version, rec)
		switch {
		case err != nil:
			b.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
		case !stored:
			b.logger.DebugContext(ctx, "skipped cache write for a record changed during the read", "key", key)
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	rec, _ := v.(*T)
	if rec == nil {
		return nil, nil
	}
	return clone(rec), nil
}

func (b *base) recordCacheLookup(entity events.Entity, result string) {
	if b.metrics != nil {
		b.metrics.RecordCacheLookup(string(entity), result)
	}
}

// startSpan opens a span named after the operation.
func (b *base) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return b.tracer.Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// hashSecret replaces a plaintext credential with its bcrypt hash. Values
// that already are hashes are kept so full updates can carry them through.
func (b *base) hashSecret(secret *string) (*string, error) {
	if secret == nil || secrets.IsHash(*secret) {
		return secret, nil
	}
	hashed, err := secrets.Hash(*secret, b.secretCost)
	if err != nil {
		return nil, err
	}
	return &hashed, nil
}
