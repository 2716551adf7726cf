package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEENet-io/swapflow/state"
)

func testSource(id string) *EventSource {
	return &EventSource{
		FlowContractAddress:  "flow",
		SourceID:             id,
		Chain:                "ethereum",
		SourceType:           "evm",
		SmartContractAddress: "0xDa4140B906044aCFb1aF3b34C94A2803D90e96aA",
		EventType:            "SwapInitiated",
		EventFilters:         []string{"topic0"},
	}
}

func TestRegisterAndList(t *testing.T) {
	ctx := context.Background()
	r := New(state.NewMemKV())

	next, ops, err := r.SourcesFrom(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), next)
	assert.Empty(t, ops)

	i, err := r.Register(ctx, testSource("0"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), i)
	i, err = r.Register(ctx, testSource("1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), i)

	op, err := r.Source(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, OpCreate, op.Op)
	assert.Equal(t, *testSource("1"), op.EventSource)

	_, err = r.Source(ctx, 3)
	assert.ErrorIs(t, err, ErrSourceNotFound)

	next, ops, err = r.SourcesFrom(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next)
	assert.Len(t, ops, 2)

	next, ops, err = r.SourcesFrom(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next)
	require.Len(t, ops, 1)
	assert.Equal(t, "1", ops[0].EventSource.SourceID)

	// caught up
	next, ops, err = r.SourcesFrom(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next)
	assert.Empty(t, ops)
}

func TestUnregister(t *testing.T) {
	ctx := context.Background()
	r := New(state.NewMemKV())

	_, err := r.Unregister(ctx, 1)
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = r.Register(ctx, testSource("0"))
	require.NoError(t, err)
	ok, err := r.IsAuthorized(ctx, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.ErrorIs(t, r.Authorize(ctx, 1), ErrUnauthorizedSource)

	removed, err := r.Unregister(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), removed)

	op, err := r.Source(ctx, removed)
	require.NoError(t, err)
	assert.Equal(t, OpRemove, op.Op)
	assert.Equal(t, *testSource("0"), op.EventSource)

	// the create entry is untouched
	op, err = r.Source(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, OpCreate, op.Op)

	ok, err = r.IsAuthorized(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, r.Authorize(ctx, 0), ErrUnauthorizedSource)
}

func TestAuthorizedWithOtherRegistrationLive(t *testing.T) {
	ctx := context.Background()
	r := New(state.NewMemKV())

	first, err := r.Register(ctx, testSource("0"))
	require.NoError(t, err)
	other := testSource("0")
	other.Chain = "optimism"
	_, err = r.Register(ctx, other)
	require.NoError(t, err)

	_, err = r.Unregister(ctx, first)
	require.NoError(t, err)
	assert.NoError(t, r.Authorize(ctx, 0))
}

func TestRegistryOnStateDB(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := state.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := state.NewStateDB(sqlDB)
	require.NoError(t, err)
	defer db.Close()

	r := New(db)
	_, err = r.Register(ctx, testSource("1"))
	require.NoError(t, err)

	// a fresh registry over the same db sees the log
	r = New(db)
	op, err := r.Source(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "1", op.EventSource.SourceID)
	assert.NoError(t, r.Authorize(ctx, 1))
}
