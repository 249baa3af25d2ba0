package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/tears-of-aya/pkg/config"
)

func TestRunnerExecutesCommandsBetweenTicks(t *testing.T) {
	g := NewGameManager(config.MustLoadVariant("tears"), WithSeed(1))
	var frames atomic.Int64
	require.NoError(t, g.Initialize(RenderFunc(func(Snapshot) { frames.Add(1) })))

	r := NewRunner(g, 240)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	started := make(chan struct{})
	require.True(t, r.Send(func(g *GameManager) {
		require.NoError(t, g.StartGame())
		close(started)
	}))
	require.True(t, r.Send(func(g *GameManager) {
		g.Input().SetPointerX(0)
	}))

	err := r.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-started:
	default:
		t.Fatal("start command never ran")
	}
	assert.Greater(t, frames.Load(), int64(10))
	// 退出时已清理
	assert.False(t, g.IsRunning())
	assert.Equal(t, 0, g.PendingTimers())
}

func TestRunnerSendDropsWhenFull(t *testing.T) {
	g := NewGameManager(config.MustLoadVariant("tears"), WithSeed(1))
	r := NewRunner(g, 0)

	accepted := 0
	for i := 0; i < 100; i++ {
		if r.Send(func(*GameManager) {}) {
			accepted++
		}
	}
	assert.Equal(t, cap(r.commands), accepted)
}

func TestRunnerPauseStopsClock(t *testing.T) {
	g := NewGameManager(config.MustLoadVariant("tears"), WithSeed(1))
	require.NoError(t, g.Initialize(RenderFunc(func(Snapshot) {})))

	r := NewRunner(g, 240)
	assert.True(t, r.TogglePause())
	assert.True(t, r.Paused())

	var clock atomic.Value
	require.True(t, r.Send(func(g *GameManager) { require.NoError(t, g.StartGame()) }))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	go func() {
		<-time.After(80 * time.Millisecond)
		r.Send(func(g *GameManager) { clock.Store(g.Snapshot().Frame) })
	}()
	_ = r.Run(ctx)

	require.NotNil(t, clock.Load(), "command should still run while paused")
	assert.Equal(t, uint64(0), clock.Load())

	assert.False(t, r.TogglePause())
	assert.False(t, r.Paused())
}
