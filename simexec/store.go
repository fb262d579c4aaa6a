package simexec

import "fmt"

// ThreadRecord is one unit of control flow inside a context. Every context
// owns at least one: the synthetic record standing for its calling thread.
type ThreadRecord struct {
	ID            int    `yaml:"id"`
	OwningContext int    `yaml:"owning_context"`
	CreatedAt     int    `yaml:"created_at"` // pc of the creating instruction; -1 for the calling thread
	Name          string `yaml:"name,omitempty"`
}

// ExecutionContext is one simulated process. ParentID is zero for the
// initial context. Instances returned by Snapshot are copies; the store
// retains exclusive ownership of the live records.
type ExecutionContext struct {
	ID       int            `yaml:"id"`
	ParentID int            `yaml:"parent_id"`
	Threads  []ThreadRecord `yaml:"threads"`
}

// UnknownContextError reports an operation against a context id the store
// has never issued. A validated program driven by the engine cannot trigger
// it; seeing one means an engine defect, not bad input.
type UnknownContextError struct {
	ID int
}

func (e *UnknownContextError) Error() string {
	return fmt.Sprintf("unknown context id %d", e.ID)
}

// ContextStore is the append-only collection of execution contexts. It is
// the engine's sole mutation point: context ids and thread ids are assigned
// here, each from its own strictly increasing sequence.
type ContextStore struct {
	contexts []*ExecutionContext
	byID     map[int]*ExecutionContext

	nextContextID int
	nextThreadID  int
}

// NewContextStore returns an empty store. Ids start at 1.
func NewContextStore() *ContextStore {
	return &ContextStore{
		byID:          make(map[int]*ExecutionContext),
		nextContextID: 1,
		nextThreadID:  1,
	}
}

// CreateInitial seeds the store with the first context and its calling
// thread. It is called exactly once per run.
func (s *ContextStore) CreateInitial() (int, error) {
	if len(s.contexts) != 0 {
		return 0, fmt.Errorf("initial context already created")
	}
	ec := s.newContext(0)
	return ec.ID, nil
}

// Duplicate clones the caller into a fresh child context. The child's thread
// inventory is reset to a single fresh calling-thread record regardless of
// how many threads the parent holds; only the duplicating thread survives
// into the child. The parent is returned unchanged: duplication is the
// caller continuing plus one new context, not two new ones.
func (s *ContextStore) Duplicate(parentID int) (childID, parentContinuationID int, err error) {
	parent, ok := s.byID[parentID]
	if !ok {
		return 0, 0, &UnknownContextError{ID: parentID}
	}
	child := s.newContext(parent.ID)
	return child.ID, parent.ID, nil
}

// CreateThread appends a fresh thread record to the context.
func (s *ContextStore) CreateThread(contextID int, name string, pc int) (int, error) {
	ec, ok := s.byID[contextID]
	if !ok {
		return 0, &UnknownContextError{ID: contextID}
	}
	tr := ThreadRecord{
		ID:            s.nextThreadID,
		OwningContext: ec.ID,
		CreatedAt:     pc,
		Name:          name,
	}
	s.nextThreadID++
	ec.Threads = append(ec.Threads, tr)
	return tr.ID, nil
}

// Len returns the number of live contexts.
func (s *ContextStore) Len() int {
	return len(s.contexts)
}

// Snapshot returns deep copies of every context in creation order.
func (s *ContextStore) Snapshot() []ExecutionContext {
	out := make([]ExecutionContext, len(s.contexts))
	for i, ec := range s.contexts {
		threads := make([]ThreadRecord, len(ec.Threads))
		copy(threads, ec.Threads)
		out[i] = ExecutionContext{
			ID:       ec.ID,
			ParentID: ec.ParentID,
			Threads:  threads,
		}
	}
	return out
}

func (s *ContextStore) newContext(parentID int) *ExecutionContext {
	ec := &ExecutionContext{
		ID:       s.nextContextID,
		ParentID: parentID,
	}
	s.nextContextID++
	ec.Threads = append(ec.Threads, ThreadRecord{
		ID:            s.nextThreadID,
		OwningContext: ec.ID,
		CreatedAt:     -1,
	})
	s.nextThreadID++
	s.contexts = append(s.contexts, ec)
	s.byID[ec.ID] = ec
	return ec
}
