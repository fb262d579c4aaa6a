package simexec

// workItem is one pending continuation: a context resuming at a program
// counter. child marks the context as the duplicate result of the
// immediately preceding duplication; the next branch test consumes it.
type workItem struct {
	contextID int
	pc        int
	child     bool

	// lineage tracks how this continuation came to be, for logging only
	// (e.g. "1", "1.C", "1.C.C").
	lineage string
}

// worklist holds continuations awaiting execution. Pop is LIFO: the child
// continuation of a duplication is pushed last and therefore runs first,
// which assigns context ids depth-first, matching the derivation order of
// the modeled programs. Final counts do not depend on the order.
type worklist struct {
	items []workItem
}

func newWorklist() *worklist {
	return &worklist{
		items: make([]workItem, 0, 32),
	}
}

// push adds a continuation to the worklist.
func (w *worklist) push(item workItem) {
	w.items = append(w.items, item)
}

// pop removes and returns the most recently pushed continuation.
func (w *worklist) pop() (workItem, bool) {
	if len(w.items) == 0 {
		return workItem{}, false
	}
	item := w.items[len(w.items)-1]
	w.items = w.items[:len(w.items)-1]
	return item, true
}

// isEmpty checks if the worklist is empty.
func (w *worklist) isEmpty() bool {
	return len(w.items) == 0
}
