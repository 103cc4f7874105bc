package ecs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plus3/engineless/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEngineLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls []string
	ticks := 0

	engine := ecs.New(ecs.WithTickInterval(time.Millisecond)).
		AddSystem(ecs.Update, func() { calls = append(calls, "u1") }).
		AddSystem(ecs.Startup, func() { calls = append(calls, "s1") }).
		AddSystem(ecs.Update, func() {
			calls = append(calls, "u2")
			ticks++
			if ticks == 3 {
				cancel()
			}
		}).
		AddSystem(ecs.Startup, func() { calls = append(calls, "s2") })
	require.NoError(t, engine.Err())

	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after context cancellation")
	}

	assert.Equal(t, []string{"s1", "s2", "u1", "u2", "u1", "u2", "u1", "u2"}, calls)
	assert.Equal(t, int64(3), engine.Scheduler().GetStats().Ticks)
}

func TestEngineSameTickVisibility(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var added ecs.EntityId
	var firstTick []ecs.EntityId

	engine := ecs.New(ecs.WithTickInterval(time.Millisecond))
	engine.
		AddSystem(ecs.Update, func(cmd *ecs.Commands) {
			added = cmd.AddEntity(ecs.With(Tag("x")))
		}).
		AddSystem(ecs.Update, func(tags ecs.Query[Tag]) {
			firstTick = tags.Ids()
			cancel()
		})

	require.NoError(t, engine.Run(ctx))
	assert.Equal(t, []ecs.EntityId{added}, firstTick)
}

func TestEngineStartupEntitiesVisibleToUpdate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var movers ecs.Query2[Position, Velocity]
	engine := ecs.New(ecs.WithTickInterval(time.Millisecond)).
		AddSystem(ecs.Startup, func(cmd *ecs.Commands) {
			cmd.AddEntity(ecs.With(Position{X: 1}), ecs.With(Velocity{DX: 1}))
			cmd.AddEntity(ecs.With(Position{X: 2}))
		}).
		AddSystem(ecs.Update, func(q ecs.Query2[Position, Velocity]) {
			movers = q
			cancel()
		})
	engine.AddEntity(ecs.With(Position{X: 3}), ecs.With(Velocity{DX: 3}))

	require.NoError(t, engine.Run(ctx))
	assert.Equal(t, 2, movers.Len())
}

func TestEngineRejectsUnsupportedSystemBeforeRunning(t *testing.T) {
	ran := false
	engine := ecs.New().
		AddSystem(ecs.Startup, func() { ran = true }).
		AddSystem(ecs.Update, func(float64) {}).
		AddSystem(ecs.Update, func(string) {})

	err := engine.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ecs.ErrUnsupportedParameter))

	var paramErr *ecs.UnsupportedParameterError
	require.True(t, errors.As(err, &paramErr))
	assert.Equal(t, "float64", paramErr.Type.String())

	assert.ErrorIs(t, engine.Run(context.Background()), ecs.ErrUnsupportedParameter)
	assert.ErrorIs(t, engine.Start(), ecs.ErrUnsupportedParameter)
	assert.False(t, ran)
	assert.Equal(t, 1, engine.Scheduler().GetStats().SystemCount)
}

func TestEngineLogsLifecycle(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := ecs.New(ecs.WithLogger(zap.New(core)), ecs.WithTickInterval(time.Millisecond)).
		AddSystem(ecs.Update, func() { cancel() })
	require.NoError(t, engine.Run(ctx))

	assert.Equal(t, 1, logs.FilterMessage("registered system").Len())
	assert.Equal(t, 1, logs.FilterMessage("starting engine").Len())
	assert.Equal(t, 1, logs.FilterMessage("update loop stopped").Len())

	for _, entry := range logs.All() {
		assert.Equal(t, engine.ID().String(), entry.ContextMap()["engine"])
	}
}

func TestEngineAddEntity(t *testing.T) {
	engine := ecs.New()

	first := engine.AddEntity(ecs.With(Position{X: 1}))
	second := engine.AddEntity(ecs.With(Position{X: 2}), ecs.With(Velocity{}))

	assert.Equal(t, ecs.EntityId(0), first)
	assert.Equal(t, ecs.EntityId(1), second)
	assert.Equal(t, 2, ecs.Count[Position](engine.Storage()))
}
