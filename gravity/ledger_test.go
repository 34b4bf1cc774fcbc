package gravity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedger_ZeroCapacityNeverEntersPool(t *testing.T) {
	// GIVEN one location without capacity among three
	arena := []Location{at(1, 0, 0, 2), at(2, 1, 0, 0), at(3, 2, 0, 1)}
	g := unitGrid()

	// WHEN the ledger is built
	l := NewLedger(arena, g, ModeAssignment)

	// THEN the pool and grid hold only the locations with capacity
	assert.Equal(t, []Handle{0, 2}, l.Pool())
	assert.False(t, l.IsActive(1))
	assert.False(t, g.Contains(1))
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 0, l.Evicted())
}

func TestLedger_Consume_DecrementsThenEvicts(t *testing.T) {
	arena := []Location{at(1, 0, 0, 2), at(2, 1, 0, 1)}
	g := unitGrid()
	l := NewLedger(arena, g, ModeAssignment)

	evicted, err := l.Consume(0)
	require.NoError(t, err)
	assert.False(t, evicted)
	assert.Equal(t, 1, l.Remaining(0))
	assert.True(t, g.Contains(0))

	evicted, err = l.Consume(0)
	require.NoError(t, err)
	assert.True(t, evicted)
	assert.True(t, l.IsExhausted(0))
	assert.False(t, l.IsActive(0))
	assert.False(t, g.Contains(0))
	assert.Equal(t, []Handle{1}, l.Pool())
	assert.Equal(t, 1, l.Evicted())

	// assignment mode leaves the reporting weight alone
	assert.Equal(t, 2, arena[0].Weight)
}

func TestLedger_Consume_ExhaustedIsError(t *testing.T) {
	arena := []Location{at(1, 0, 0, 1)}
	l := NewLedger(arena, unitGrid(), ModeAssignment)
	_, err := l.Consume(0)
	require.NoError(t, err)

	_, err = l.Consume(0)

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 0, l.Remaining(0), "capacity must never go negative")
}

func TestLedger_NetworkMode_TracksWeight(t *testing.T) {
	arena := []Location{at(1, 0, 0, 3)}
	l := NewLedger(arena, unitGrid(), ModeNetwork)

	_, err := l.Consume(0)

	require.NoError(t, err)
	assert.Equal(t, 2, arena[0].Weight)
	assert.Equal(t, 2, arena[0].Capacity)
}

func TestLedger_WithdrawAndExhaust(t *testing.T) {
	arena := []Location{at(1, 0, 0, 3), at(2, 1, 0, 1), at(3, 2, 0, 1)}
	g := unitGrid()
	l := NewLedger(arena, g, ModeNetwork)

	// withdraw keeps capacity but leaves pool and grid
	l.Withdraw(0)
	assert.Equal(t, 3, l.Remaining(0))
	assert.False(t, l.IsActive(0))
	assert.False(t, g.Contains(0))
	assert.ElementsMatch(t, []Handle{1, 2}, l.Pool())

	// exhausting an already withdrawn location only zeroes capacity
	l.Exhaust(0)
	assert.True(t, l.IsExhausted(0))
	assert.Equal(t, 1, l.Evicted())

	l.Exhaust(2)
	assert.Equal(t, []Handle{1}, l.Pool())
	assert.Equal(t, 2, l.Evicted())
}

func TestLedger_SwapRemove_KeepsPositionsConsistent(t *testing.T) {
	arena := make([]Location, 6)
	for i := range arena {
		arena[i] = at(i+1, i, 0, 1)
	}
	l := NewLedger(arena, unitGrid(), ModeAssignment)

	for _, h := range []Handle{0, 3, 5, 1} {
		_, err := l.Consume(h)
		require.NoError(t, err)
	}

	assert.ElementsMatch(t, []Handle{2, 4}, l.Pool())
	for i, h := range l.Pool() {
		assert.Equal(t, i, l.pos[h])
	}
}
