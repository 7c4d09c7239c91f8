package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewScheduler_Constructs(t *testing.T) {
	s := NewScheduler(nil, time.Minute)

	require.NotNil(t, s)
	require.Equal(t, time.Minute, s.interval)
	require.Nil(t, s.sched)
}

func TestNewScheduler_DefaultsInterval(t *testing.T) {
	s := NewScheduler(nil, 0)

	require.Equal(t, 6*time.Hour, s.interval)
}

func TestScheduler_ShutdownBeforeStartIsNoop(t *testing.T) {
	s := NewScheduler(nil, time.Minute)

	require.NoError(t, s.Shutdown())
}

func TestScheduler_ContextCancelStops(t *testing.T) {
	s := NewScheduler(nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.sched)

	cancel()

	require.Eventually(t, func() bool {
		return s.sched == nil
	}, time.Second, 10*time.Millisecond)
}

func TestScheduler_ShutdownIsIdempotent(t *testing.T) {
	s := NewScheduler(nil, time.Hour)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Shutdown())
	require.NoError(t, s.Shutdown())
}
