package scenes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/tears-of-aya/pkg/attempts"
	"github.com/gonewx/tears-of-aya/pkg/game"
	"github.com/gonewx/tears-of-aya/pkg/session"
)

func TestMenuModelNavigation(t *testing.T) {
	m := newMenuModel([]string{"blood", "tears"}, "tears", "paid", true)
	assert.Equal(t, "tears", m.Variant())
	assert.Equal(t, session.ModePaid, m.Mode())
	assert.Equal(t, rowStart, m.cursor)

	m.Move(1)
	assert.Equal(t, rowVariant, m.cursor, "cursor wraps forward")
	m.Move(-1)
	assert.Equal(t, rowStart, m.cursor, "cursor wraps backward")

	m.cursor = rowVariant
	assert.False(t, m.Change(1))
	assert.Equal(t, "blood", m.Variant())
	m.Change(-1)
	assert.Equal(t, "tears", m.Variant())

	m.cursor = rowMode
	m.Change(1)
	assert.Equal(t, session.ModeFree, m.Mode())

	m.cursor = rowMusic
	m.Change(1)
	assert.False(t, m.music)

	m.cursor = rowStart
	assert.True(t, m.Change(1))
	assert.Equal(t, game.PlayChoice{Variant: "tears", Mode: "free"}, m.Choice())
}

func TestMenuModelUnknownLastChoice(t *testing.T) {
	m := newMenuModel([]string{"blood", "tears"}, "nope", "weird", false)
	assert.Equal(t, "blood", m.Variant())
	assert.Equal(t, session.ModeFree, m.Mode())

	lines := m.Lines()
	require.Len(t, lines, rowCount)
	assert.Equal(t, "> START", lines[rowStart])
	assert.Contains(t, lines[rowMusic], "OFF")
}

func TestResultLines(t *testing.T) {
	lines := resultLines(session.Result{Score: 40, NewBest: true, Submitted: true}, 40)
	assert.Contains(t, lines, "score: 40")
	assert.Contains(t, lines, "new best!")
	assert.Contains(t, lines, "score submitted")

	lines = resultLines(session.Result{Score: 5, SubmitErr: errors.New("down")}, 90)
	assert.Contains(t, lines, "best: 90")
	assert.Contains(t, lines, "score not submitted")
}

func TestBlockedLines(t *testing.T) {
	assert.Equal(t, "no paid attempts left", blockedLines(session.ErrNoAttempts)[0])
	assert.Equal(t, "paid mode needs a wallet", blockedLines(session.ErrWalletRequired)[0])
	assert.Contains(t, blockedLines(errors.New("boom"))[0], "boom")
}

func newDeps() *Deps {
	return &Deps{Scenes: game.NewSceneManager(), Seed: 7}
}

func TestNewPlaySceneFreeStarts(t *testing.T) {
	scene, err := NewPlayScene(newDeps(), game.PlayChoice{Variant: "tears", Mode: "free"})
	require.NoError(t, err)

	assert.Nil(t, scene.blocked)
	assert.True(t, scene.Engine().IsRunning())
	assert.Positive(t, scene.Engine().PendingTimers())

	snap, ok := scene.renderer.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "tears", snap.Variant)
	assert.True(t, snap.Active)
}

func TestNewPlaySceneRejectsUnknownVariant(t *testing.T) {
	_, err := NewPlayScene(newDeps(), game.PlayChoice{Variant: "sweat", Mode: "free"})
	assert.Error(t, err)

	_, err = NewPlayScene(newDeps(), game.PlayChoice{Variant: "tears", Mode: "gold"})
	assert.Error(t, err)
}

func TestNewPlayScenePaidWithoutAttempts(t *testing.T) {
	deps := newDeps()
	deps.Gate = attempts.NewMemoryLedger()
	deps.Wallet = "0xabc"

	scene, err := NewPlayScene(deps, game.PlayChoice{Variant: "blood", Mode: "paid"})
	require.NoError(t, err)
	assert.ErrorIs(t, scene.blocked, session.ErrNoAttempts)
	assert.False(t, scene.Engine().IsRunning())
}

func TestNewPlayScenePaidConsumesAttempt(t *testing.T) {
	ledger := attempts.NewMemoryLedger()
	_, err := ledger.Grant(context.Background(), "0xabc", 2)
	require.NoError(t, err)

	deps := newDeps()
	deps.Gate = ledger
	deps.Wallet = "0xabc"

	scene, err := NewPlayScene(deps, game.PlayChoice{Variant: "blood", Mode: "paid"})
	require.NoError(t, err)
	assert.Nil(t, scene.blocked)
	assert.True(t, scene.Engine().IsRunning())

	left, err := ledger.Available(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, 1, left)
}

func TestPlaySceneOnLeaveCleansUp(t *testing.T) {
	deps := newDeps()
	scene, err := NewPlayScene(deps, game.PlayChoice{Variant: "tears", Mode: "free"})
	require.NoError(t, err)

	deps.Scenes.SwitchTo(scene)
	deps.Scenes.SwitchTo(NewMenuScene(deps))

	assert.False(t, scene.Engine().IsRunning())
	assert.Zero(t, scene.Engine().PendingTimers())
	assert.Zero(t, scene.Engine().EntityCount())

	// 再次清理是安全的
	assert.True(t, scene.SaveOnExit())
}

func TestPlaySceneGameOverDeliversResult(t *testing.T) {
	scene, err := NewPlayScene(newDeps(), game.PlayChoice{Variant: "tears", Mode: "free"})
	require.NoError(t, err)

	scene.onGameOver(42)
	assert.True(t, scene.finished)

	select {
	case res := <-scene.results:
		assert.Equal(t, 42, res.Score)
		assert.False(t, res.Submitted)
	case <-time.After(2 * time.Second):
		t.Fatal("result not delivered")
	}
}

func TestDepsWallet(t *testing.T) {
	d := &Deps{}
	assert.Empty(t, d.wallet())
	assert.False(t, d.recordBest("tears", 5), "no settings store")
	assert.NotZero(t, d.seed())

	d.Wallet = "0x1"
	d.Seed = 9
	assert.Equal(t, "0x1", d.wallet())
	assert.Equal(t, int64(9), d.seed())
}

// 最高分由场景在主循环中写入,后台上报不会碰设置存储
func TestPlaySceneRecordsBestOnUpdateGoroutine(t *testing.T) {
	deps := newDeps()
	sm, err := game.NewSettingsManager(nil)
	require.NoError(t, err)
	deps.Settings = sm

	scene, err := NewPlayScene(deps, game.PlayChoice{Variant: "tears", Mode: "free"})
	require.NoError(t, err)

	scene.onGameOver(42)
	var res session.Result
	select {
	case res = <-scene.results:
	case <-time.After(2 * time.Second):
		t.Fatal("result not delivered")
	}
	assert.False(t, res.NewBest, "background submission does not record the best score")
	assert.Zero(t, sm.BestScore("tears"))

	assert.True(t, deps.recordBest("tears", res.Score))
	assert.Equal(t, 42, sm.BestScore("tears"))
	assert.False(t, deps.recordBest("tears", 10))
}
