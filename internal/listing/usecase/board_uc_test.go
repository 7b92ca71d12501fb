package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/repository/memory"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	board := NewBoard(store, logger.NewNop())

	sidA, identityA, err := board.SignIn(ctx, alice)
	require.NoError(t, err)
	sidB, _, err := board.SignIn(ctx, bob)
	require.NoError(t, err)
	assert.NotEqual(t, sidA, sidB)

	got, err := board.Identity(ctx, sidA)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, identityA, *got)

	_, found, err := store.Load(ctx, "session:"+sidA+":cc_user")
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, board.SignOut(ctx, sidA))
	got, err = board.Identity(ctx, sidA)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = board.Identity(ctx, sidB)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bob, got.Email)
}

func TestBoard_SignInRejectsInvalidEmail(t *testing.T) {
	board := NewBoard(memory.NewStore(), logger.NewNop())
	sid, _, err := board.SignIn(context.Background(), "alice@gmail.com")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	assert.Empty(t, sid)
}

func TestBoard_UnknownSessionIDs(t *testing.T) {
	ctx := context.Background()
	board := NewBoard(memory.NewStore(), logger.NewNop())

	got, err := board.Identity(ctx, "../../cc_listings")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, board.SignOut(ctx, "not-a-uuid"), domain.ErrInvalidSession)
}

func TestBoard_SignOutResetsEditor(t *testing.T) {
	ctx := context.Background()
	board := NewBoard(memory.NewStore(), logger.NewNop())
	sid, identity, err := board.SignIn(ctx, alice)
	require.NoError(t, err)

	editor := board.Editor(sid)
	assert.Same(t, editor, board.Editor(sid))
	require.NoError(t, editor.BeginEdit(domain.Listing{ID: "l1", OwnerEmail: alice}, &identity))

	require.NoError(t, board.SignOut(ctx, sid))
	mode, _ := editor.State()
	assert.Equal(t, domain.ModeCreating, mode)
	assert.NotSame(t, editor, board.Editor(sid))
}

func TestBoard_SweepClosesExpiredSessions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clock := &fakeClock{t: time.UnixMilli(1700000000000)}
	board := NewBoard(store, logger.NewNop(), WithSessionTTL(time.Hour), WithBoardClock(clock.Now))

	expiring, identity, err := board.SignIn(ctx, alice)
	require.NoError(t, err)
	editor := board.Editor(expiring)
	require.NoError(t, editor.BeginEdit(domain.Listing{ID: "l1", OwnerEmail: alice}, &identity))

	clock.t = clock.t.Add(30 * time.Minute)
	fresh, _, err := board.SignIn(ctx, bob)
	require.NoError(t, err)

	closed, err := board.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, closed)

	clock.t = clock.t.Add(31 * time.Minute)
	closed, err = board.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	_, found, err := store.Load(ctx, "session:"+expiring+":cc_user")
	require.NoError(t, err)
	assert.False(t, found)
	mode, _ := editor.State()
	assert.Equal(t, domain.ModeCreating, mode)
	assert.NotSame(t, editor, board.Editor(expiring))

	got, err := board.Identity(ctx, fresh)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bob, got.Email)

	raw, found, err := store.Load(ctx, sessionIndexKey)
	require.NoError(t, err)
	require.True(t, found)
	index, err := decodeSessionIndex(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{fresh}, keysOf(index))
}

func TestBoard_SweepSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clock := &fakeClock{t: time.UnixMilli(1700000000000)}
	sid, _, err := NewBoard(store, logger.NewNop(), WithSessionTTL(time.Minute), WithBoardClock(clock.Now)).SignIn(ctx, alice)
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Minute)
	restarted := NewBoard(store, logger.NewNop(), WithSessionTTL(time.Minute), WithBoardClock(clock.Now))
	closed, err := restarted.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	got, err := restarted.Identity(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBoard_SignOutUnindexesSession(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	board := NewBoard(store, logger.NewNop())
	sid, _, err := board.SignIn(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, board.SignOut(ctx, sid))

	raw, found, err := store.Load(ctx, sessionIndexKey)
	require.NoError(t, err)
	require.True(t, found)
	index, err := decodeSessionIndex(raw)
	require.NoError(t, err)
	assert.Empty(t, index)
}

func TestBoard_StartSweeperStops(t *testing.T) {
	board := NewBoard(memory.NewStore(), logger.NewNop())
	board.StartSweeper(time.Millisecond)
	board.Stop()
	board.Stop()
}

func keysOf(index map[string]int64) []string {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	return keys
}
