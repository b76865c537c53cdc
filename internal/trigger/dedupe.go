package trigger

// seenWindow is a bounded set of recently observed transaction
// signatures. When the set grows past highWater it is trimmed to the
// most recent keep entries. Approximate by design: signatures are
// globally unique and old ones are not re-delivered in practice, so an
// exact LRU buys nothing.
type seenWindow struct {
	set       map[string]struct{}
	order     []string // insertion order, oldest first
	highWater int
	keep      int
}

func newSeenWindow(highWater, keep int) *seenWindow {
	if highWater <= 0 {
		highWater = 1000
	}
	if keep <= 0 || keep > highWater {
		keep = highWater / 2
	}
	return &seenWindow{
		set:       make(map[string]struct{}, highWater),
		highWater: highWater,
		keep:      keep,
	}
}

// Add inserts a signature and reports whether it was already present.
func (w *seenWindow) Add(signature string) bool {
	if _, exists := w.set[signature]; exists {
		return true
	}

	w.set[signature] = struct{}{}
	w.order = append(w.order, signature)

	if len(w.order) > w.highWater {
		drop := len(w.order) - w.keep
		for _, old := range w.order[:drop] {
			delete(w.set, old)
		}
		w.order = append(w.order[:0], w.order[drop:]...)
	}

	return false
}

// Len returns the current number of tracked signatures.
func (w *seenWindow) Len() int {
	return len(w.set)
}
