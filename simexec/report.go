package simexec

// Emit is one ordered output line recorded during execution.
type Emit struct {
	ContextID int    `yaml:"context"`
	Label     string `yaml:"label"`
}

// ContextReport summarizes one context's final thread inventory.
type ContextReport struct {
	ID          int      `yaml:"id"`
	ParentID    int      `yaml:"parent_id"`
	ThreadCount int      `yaml:"threads"`
	ThreadIDs   []int    `yaml:"thread_ids"`
	ThreadNames []string `yaml:"thread_names,omitempty"`
}

// DerivationNode is one context in the duplication tree. Children are the
// contexts it produced, in ascending id order.
type DerivationNode struct {
	ID       int               `yaml:"id"`
	Threads  int               `yaml:"threads"`
	Children []*DerivationNode `yaml:"children,omitempty"`
}

// Report is the final accounting of one run.
type Report struct {
	TotalContexts int             `yaml:"total_contexts"`
	TotalThreads  int             `yaml:"total_threads"`
	Contexts      []ContextReport `yaml:"contexts"`
	Emits         []Emit          `yaml:"emits,omitempty"`
	Root          *DerivationNode `yaml:"derivation,omitempty"`
}

// BuildReport derives a report from a final snapshot. It is a pure function:
// the same snapshot and emit sequence always produce an identical report,
// and neither input is mutated. Contexts arrive from the store in creation
// order, which is ascending id order.
func BuildReport(snapshot []ExecutionContext, emits []Emit) *Report {
	r := &Report{
		Contexts: make([]ContextReport, 0, len(snapshot)),
	}
	nodes := make(map[int]*DerivationNode, len(snapshot))

	for i := range snapshot {
		ec := &snapshot[i]
		cr := ContextReport{
			ID:          ec.ID,
			ParentID:    ec.ParentID,
			ThreadCount: len(ec.Threads),
			ThreadIDs:   make([]int, 0, len(ec.Threads)),
		}
		for _, tr := range ec.Threads {
			cr.ThreadIDs = append(cr.ThreadIDs, tr.ID)
			if tr.Name != "" {
				cr.ThreadNames = append(cr.ThreadNames, tr.Name)
			}
		}
		r.Contexts = append(r.Contexts, cr)
		r.TotalContexts++
		r.TotalThreads += len(ec.Threads)

		node := &DerivationNode{ID: ec.ID, Threads: len(ec.Threads)}
		nodes[ec.ID] = node
		if parent, ok := nodes[ec.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else if r.Root == nil {
			r.Root = node
		}
	}

	if len(emits) > 0 {
		r.Emits = make([]Emit, len(emits))
		copy(r.Emits, emits)
	}
	return r
}
