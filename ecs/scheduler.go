package ecs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Ticks           int64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Phase          Phase
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func newSystemStatsInternal() systemStatsInternal {
	return systemStatsInternal{minDuration: time.Duration(1<<63 - 1)}
}

func (s *systemStatsInternal) record(duration time.Duration) {
	s.executionCount++
	s.lastDuration = duration
	s.totalDuration += duration

	if duration < s.minDuration {
		s.minDuration = duration
	}
	if duration > s.maxDuration {
		s.maxDuration = duration
	}
}

// Scheduler holds the registered systems of both phases and dispatches them
// in registration order. Query parameters are resolved against the storage
// immediately before each call.
type Scheduler struct {
	storage  *Storage
	commands *Commands
	logger   *zap.Logger

	startup []*system
	update  []*system

	startupDone bool
	ticks       int64
}

// NewScheduler creates a new scheduler for the given storage. A nil logger
// disables logging.
func NewScheduler(storage *Storage, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		storage:  storage,
		commands: newCommands(storage),
		logger:   logger,
	}
}

// Register adds fn to the given phase. fn must be a function whose
// parameters are each *Commands or a query type (Query, Query2, Query3,
// Query4). Any other parameter type yields an *UnsupportedParameterError
// and nothing is registered. Return values of fn are ignored.
//
// Register panics if fn is not a function or phase is unknown.
func (s *Scheduler) Register(phase Phase, fn any) error {
	if phase != Startup && phase != Update {
		panic("ecs: unknown phase " + phase.String())
	}

	sys, err := newSystem(phase, fn, s.storage, s.commands)
	if err != nil {
		s.logger.Warn("rejected system", zap.Error(err))
		return err
	}

	switch phase {
	case Startup:
		s.startup = append(s.startup, sys)
	case Update:
		s.update = append(s.update, sys)
	}

	s.logger.Debug("registered system",
		zap.String("system", sys.name),
		zap.Stringer("phase", phase),
		zap.Int("params", len(sys.binders)),
	)
	return nil
}

// RunStartup runs every Startup system once, in registration order. Calls
// after the first do nothing.
func (s *Scheduler) RunStartup() {
	if s.startupDone {
		return
	}
	s.startupDone = true

	s.logger.Info("running startup systems", zap.Int("systems", len(s.startup)))
	for _, sys := range s.startup {
		sys.invoke()
	}
}

// Once runs every Update system once, in registration order. The Startup
// systems run first if RunStartup has not been called yet.
func (s *Scheduler) Once() {
	s.RunStartup()

	s.ticks++
	for _, sys := range s.update {
		sys.invoke()
	}
}

// Run runs the Startup systems, then runs the Update systems at most once
// per interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	s.RunStartup()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("entering update loop",
		zap.Duration("interval", interval),
		zap.Int("systems", len(s.update)),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("update loop stopped", zap.Int64("ticks", s.ticks))
			return
		case <-ticker.C:
			// Both cases may be ready at once; never tick after cancellation.
			if ctx.Err() != nil {
				continue
			}
			s.Once()
		}
	}
}

// GetStats returns statistics about system execution. Startup systems are
// listed first, each phase in registration order.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.startup) + len(s.update),
		Ticks:       s.ticks,
		Systems:     make([]SystemStats, 0, len(s.startup)+len(s.update)),
	}

	for _, sys := range append(append([]*system(nil), s.startup...), s.update...) {
		internal := sys.stats

		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems = append(stats.Systems, SystemStats{
			Name:           sys.name,
			Phase:          sys.phase,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		})
		stats.TotalExecutions += internal.executionCount
	}

	return stats
}
