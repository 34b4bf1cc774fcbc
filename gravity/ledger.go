package gravity

import "fmt"

// LedgerMode selects the bookkeeping variant shared by the two drivers.
type LedgerMode int

const (
	// ModeAssignment consumes capacity only.
	ModeAssignment LedgerMode = iota
	// ModeNetwork also decrements the reporting weight and allows the acting
	// location to withdraw itself from the pool before it searches.
	ModeNetwork
)

// Ledger tracks remaining capacity and the active candidate pool. A location
// is active while its capacity is above zero and it has not withdrawn; once
// inactive it is removed from both the pool and the grid and never returns.
//
// The pool is a swap-remove list with a position index, so eviction is O(1)
// plus the O(bucket size) grid removal.
type Ledger struct {
	mode  LedgerMode
	arena []Location
	grid  *Grid

	pool    []Handle
	pos     []int // position in pool, -1 once evicted
	evicted int
}

// NewLedger builds the pool from every location with capacity above zero and
// indexes the same locations in grid. Zero-capacity locations never enter.
func NewLedger(arena []Location, grid *Grid, mode LedgerMode) *Ledger {
	l := &Ledger{
		mode:  mode,
		arena: arena,
		grid:  grid,
		pool:  make([]Handle, 0, len(arena)),
		pos:   make([]int, len(arena)),
	}
	for i := range arena {
		if arena[i].Capacity <= 0 {
			l.pos[i] = -1
			continue
		}
		l.pos[i] = len(l.pool)
		l.pool = append(l.pool, Handle(i))
	}
	grid.Build(arena, l.pool)
	return l
}

// Consume records one selection of h. It returns true when the selection
// exhausted h and evicted it.
func (l *Ledger) Consume(h Handle) (bool, error) {
	loc := &l.arena[h]
	if loc.Capacity <= 0 {
		return false, fmt.Errorf("%w: location %d", ErrExhausted, loc.ID)
	}
	loc.Capacity--
	if l.mode == ModeNetwork {
		loc.Weight--
	}
	if loc.Capacity > 0 {
		return false, nil
	}
	return l.evict(h), nil
}

// Exhaust sets the remaining capacity of h to zero and evicts it.
func (l *Ledger) Exhaust(h Handle) {
	l.arena[h].Capacity = 0
	l.evict(h)
}

// Withdraw removes h from the pool and the grid without touching its capacity.
func (l *Ledger) Withdraw(h Handle) {
	l.evict(h)
}

// IsExhausted reports whether h has no capacity left.
func (l *Ledger) IsExhausted(h Handle) bool {
	return l.arena[h].Capacity <= 0
}

// IsActive reports whether h is still in the pool.
func (l *Ledger) IsActive(h Handle) bool {
	return l.pos[h] >= 0
}

// Remaining returns the remaining capacity of h.
func (l *Ledger) Remaining(h Handle) int {
	return l.arena[h].Capacity
}

// Pool returns the active handles. The slice is owned by the ledger and is
// reordered by evictions.
func (l *Ledger) Pool() []Handle {
	return l.pool
}

// Len returns the pool size.
func (l *Ledger) Len() int {
	return len(l.pool)
}

// Evicted returns how many locations left the pool after being exhausted or
// withdrawn.
func (l *Ledger) Evicted() int {
	return l.evicted
}

// evict swap-removes h from the pool and drops it from the grid. Returns false
// if h was not active.
func (l *Ledger) evict(h Handle) bool {
	i := l.pos[h]
	if i < 0 {
		return false
	}
	last := len(l.pool) - 1
	if i != last {
		moved := l.pool[last]
		l.pool[i] = moved
		l.pos[moved] = i
	}
	l.pool = l.pool[:last]
	l.pos[h] = -1
	l.grid.Remove(h)
	l.evicted++
	return true
}
