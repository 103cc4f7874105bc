package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokeReleasesBoundArguments(t *testing.T) {
	s := NewStorage()
	s.AddEntity(With(1), With("one"))
	scheduler := NewScheduler(s, nil)

	seen := 0
	require.NoError(t, scheduler.Register(Update, func(cmd *Commands, q Query2[int, string]) {
		seen = q.Len()
	}))

	scheduler.Once()
	assert.Equal(t, 1, seen)

	sys := scheduler.update[0]
	require.Len(t, sys.args, 2)
	for i, arg := range sys.args {
		assert.False(t, arg.IsValid(), "argument %d still bound after the call", i)
	}

	scheduler.Once()
	assert.Equal(t, 1, seen, "arguments are rebound on the next call")
}
