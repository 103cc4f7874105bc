package ecs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTickInterval is the minimum time between two Update passes.
const DefaultTickInterval = 5 * time.Millisecond

// Engine owns a Storage and a Scheduler and drives the Startup/Update
// lifecycle. It is not safe for concurrent use; systems run on the goroutine
// that called Run.
type Engine struct {
	id           uuid.UUID
	storage      *Storage
	scheduler    *Scheduler
	logger       *zap.Logger
	tickInterval time.Duration
	err          error
}

// Option configures an Engine.
type Option func(*Engine)

// WithTickInterval sets the minimum time between two Update passes.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tickInterval = d
		}
	}
}

// WithLogger sets the logger used by the engine and its scheduler.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine with empty storage and no systems.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:           uuid.New(),
		logger:       zap.NewNop(),
		tickInterval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With(zap.Stringer("engine", e.id))
	e.storage = NewStorage()
	e.scheduler = NewScheduler(e.storage, e.logger)
	return e
}

// AddSystem registers fn for the given phase and returns the engine so calls
// can be chained. The first registration error is kept and returned by Err,
// Run and Start; systems that fail to register are dropped.
func (e *Engine) AddSystem(phase Phase, fn any) *Engine {
	if err := e.scheduler.Register(phase, fn); err != nil && e.err == nil {
		e.err = err
	}
	return e
}

// Err returns the first error reported by AddSystem.
func (e *Engine) Err() error {
	return e.err
}

// AddEntity creates a new entity with the given components.
func (e *Engine) AddEntity(components ...Component) EntityId {
	return e.storage.AddEntity(components...)
}

// ID returns the identifier the engine tags its log lines with.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Storage returns the engine's component storage.
func (e *Engine) Storage() *Storage {
	return e.storage
}

// Scheduler returns the engine's scheduler.
func (e *Engine) Scheduler() *Scheduler {
	return e.scheduler
}

// Run runs every Startup system once, then the Update systems once per tick
// until ctx is done. It fails before running anything if a system was
// rejected by AddSystem.
func (e *Engine) Run(ctx context.Context) error {
	if e.err != nil {
		return e.err
	}

	e.logger.Info("starting engine", zap.Duration("tick_interval", e.tickInterval))
	e.scheduler.Run(ctx, e.tickInterval)
	return nil
}

// Start runs the engine forever. It only returns if a system was rejected by
// AddSystem.
func (e *Engine) Start() error {
	return e.Run(context.Background())
}
