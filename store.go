package lumen

// lightPtr ties a light struct to its pointer type so generic code can
// reach the embedded lightCore without reflection.
type lightPtr[L any] interface {
	*L
	core() *lightCore
}

// lightArray is one fixed-capacity light pool plus its scratch twin. The
// scratch slice doubles as the radix sort's ping-pong buffer, so it always
// mirrors the primary slice's capacity. Nothing ever grows after New.
type lightArray[L any] struct {
	items   []L
	scratch []L
	count   int
}

func makeLightArray[L any](capacity int) lightArray[L] {
	return lightArray[L]{
		items:   make([]L, capacity),
		scratch: make([]L, capacity),
	}
}

func (a *lightArray[L]) full() bool { return a.count >= len(a.items) }

// next hands out the slot for the next append, zeroed so stale data from a
// removed or reused slot never leaks into a new light.
func (a *lightArray[L]) next() *L {
	var zero L
	a.items[a.count] = zero
	return &a.items[a.count]
}

func (a *lightArray[L]) commit() int {
	idx := a.count
	a.count++
	return idx
}

// removeAt compacts the pool by shifting every later element down one slot.
// Callers handle the ordering-stale and animated-flag bookkeeping.
func (a *lightArray[L]) removeAt(idx int) bool {
	if idx < 0 || idx >= a.count {
		return false
	}
	copy(a.items[idx:a.count-1], a.items[idx+1:a.count])
	a.count--
	return true
}

func (a *lightArray[L]) setCount(n int) bool {
	if n < 0 || n > len(a.items) {
		return false
	}
	a.count = n
	return true
}

// coreAt resolves the shared-field view of the light at idx, or nil when
// the index is out of range. All generic setters funnel through this so
// the bounds contract (silent no-op) lives in one place.
func coreAt[L any, P lightPtr[L]](a *lightArray[L], idx int) *lightCore {
	if idx < 0 || idx >= a.count {
		return nil
	}
	return P(&a.items[idx]).core()
}

// anyAnimated reports whether any live light in the pool carries animation
// flags. Used to rebuild the engine-wide animated flag after removals.
func anyAnimated[L any, P lightPtr[L]](a *lightArray[L]) bool {
	for i := 0; i < a.count; i++ {
		if P(&a.items[i]).core().Anim.Flags != AnimNone {
			return true
		}
	}
	return false
}
