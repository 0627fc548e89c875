package ledger

// registry keeps the set of allocated targets in a dense slice so settlement
// can walk it without touching the index map. The map points each target at
// its slot in the arena.
type registry struct {
	arena []Allocation
	index map[AccountID]int
}

func newRegistry() registry {
	return registry{
		index: make(map[AccountID]int),
	}
}

// get returns the allocation for the specified target. Unknown targets
// report a zero allocation.
func (r *registry) get(target AccountID) (Allocation, bool) {
	slot, exists := r.index[target]
	if !exists {
		return Allocation{Target: target}, false
	}

	return r.arena[slot], true
}

// set stores the allocation, inserting the target when it is not present.
func (r *registry) set(allocation Allocation) {
	if slot, exists := r.index[allocation.Target]; exists {
		r.arena[slot] = allocation
		return
	}

	r.arena = append(r.arena, allocation)
	r.index[allocation.Target] = len(r.arena) - 1
}

// remove drops the target by swapping the last slot into its place. The
// enumeration order of the remaining targets is not stable across removals.
func (r *registry) remove(target AccountID) {
	slot, exists := r.index[target]
	if !exists {
		return
	}

	last := len(r.arena) - 1
	if slot != last {
		r.arena[slot] = r.arena[last]
		r.index[r.arena[slot].Target] = slot
	}

	r.arena = r.arena[:last]
	delete(r.index, target)
}

// count returns the number of allocated targets in the arena.
func (r *registry) count() int {
	return len(r.arena)
}

// at returns the allocation in the specified arena slot.
func (r *registry) at(slot int) (Allocation, bool) {
	if slot < 0 || slot >= len(r.arena) {
		return Allocation{}, false
	}

	return r.arena[slot], true
}

// all returns a copy of the arena so callers can range without holding a
// reference into the registry's backing array.
func (r *registry) all() []Allocation {
	allocations := make([]Allocation, len(r.arena))
	copy(allocations, r.arena)

	return allocations
}
