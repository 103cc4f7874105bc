package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/plus3/engineless/ecs"
)

const memSampleInterval = 250 * time.Millisecond

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "ecs-stress:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	logger.Info("starting ECS stress test",
		zap.Duration("duration", cfg.Duration),
		zap.Int("entities", cfg.Entities),
		zap.Duration("tick_interval", cfg.TickInterval),
	)

	engine := ecs.New(
		ecs.WithLogger(logger),
		ecs.WithTickInterval(cfg.TickInterval),
	)
	sim := newSimulation(cfg.Seed, cfg.SpawnPerTick)
	if err := sim.register(engine).Err(); err != nil {
		return fmt.Errorf("register systems: %w", err)
	}

	logger.Info("populating storage", zap.Int("entities", cfg.Entities))
	sim.populate(engine, cfg.Entities)

	report := &Report{
		RunID:  engine.ID(),
		Config: cfg,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	startTime := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	g.Go(func() error {
		report.PeakHeapAlloc = sampleHeap(gctx, logger, memSampleInterval)
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("run engine: %w", err)
	}
	report.TotalTime = time.Since(startTime)
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Scheduler = engine.Scheduler().GetStats()
	report.Storage = engine.Storage().CollectStats()
	report.Counters = Counters{
		Spawned: sim.spawned,
		Moved:   sim.moved,
		Wounded: sim.wounded,
		Aged:    sim.aged,
	}

	logger.Info("simulation finished",
		zap.Int64("ticks", report.Scheduler.Ticks),
		zap.Int("entities", report.Storage.EntityCount),
	)

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}

// parseConfig loads the config file named by -config, applies environment
// overrides, then applies any flag that was set explicitly.
func parseConfig(args []string) (Config, error) {
	defaults := DefaultConfig()

	fs := flag.NewFlagSet("ecs-stress", flag.ContinueOnError)
	configPath := fs.String("config", "", "Optional YAML config file.")
	duration := fs.Duration("duration", defaults.Duration, "The total duration the test should run for.")
	entities := fs.Int("entities", defaults.Entities, "The initial number of entities to create.")
	tickInterval := fs.Duration("tick", defaults.TickInterval, "Minimum time between two update passes.")
	spawn := fs.Int("spawn", defaults.SpawnPerTick, "Entities spawned by the spawner system each tick.")
	seed := fs.Int64("seed", defaults.Seed, "Random seed for entity generation.")
	logLevel := fs.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error).")
	prof := fs.String("profile", defaults.Profile, "Write a cpu or mem profile to the working directory.")
	gcPauseMetrics := fs.Bool("gc-pause-metrics", defaults.GCPauseMetrics, "Enable detailed GC pause metrics in the report.")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg, err := LoadConfig(*configPath, nil)
	if err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Duration = *duration
		case "entities":
			cfg.Entities = *entities
		case "tick":
			cfg.TickInterval = *tickInterval
		case "spawn":
			cfg.SpawnPerTick = *spawn
		case "seed":
			cfg.Seed = *seed
		case "log-level":
			cfg.LogLevel = *logLevel
		case "profile":
			cfg.Profile = *prof
		case "gc-pause-metrics":
			cfg.GCPauseMetrics = *gcPauseMetrics
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// sampleHeap polls the heap size until ctx is done and returns the largest
// HeapAlloc it observed.
func sampleHeap(ctx context.Context, logger *zap.Logger, interval time.Duration) uint64 {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		ms   runtime.MemStats
		peak uint64
	)
	for {
		select {
		case <-ctx.Done():
			return peak
		case <-ticker.C:
			runtime.ReadMemStats(&ms)
			if ms.HeapAlloc > peak {
				peak = ms.HeapAlloc
			}
			logger.Debug("heap sample",
				zap.Uint64("heap_alloc", ms.HeapAlloc),
				zap.Uint32("num_gc", ms.NumGC),
			)
		}
	}
}
