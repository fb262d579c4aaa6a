// Package forksim models POSIX-style process duplication and thread creation
// as a small deterministic instruction set. A program is an ordered sequence
// of instructions with one nesting construct: a block executed only by the
// context produced as the child result of the immediately preceding
// duplication.
package forksim

import "fmt"

// Kind identifies an instruction.
type Kind int

const (
	// KindDuplicate clones the calling context into a second context; both
	// resume at the next instruction.
	KindDuplicate Kind = iota
	// KindIfChild guards a block that only the duplicate child of the
	// immediately preceding duplication enters. The child tag is consumed by
	// the test whether or not it matches.
	KindIfChild
	// KindCreateThread appends a fresh thread record to the calling context.
	KindCreateThread
	// KindJoinThread names a previously created thread. Joining does not
	// change context or thread counts; it is validated structurally and then
	// ignored by the engine.
	KindJoinThread
	// KindEmit records an ordered output line attributed to the calling
	// context.
	KindEmit
)

func (k Kind) String() string {
	switch k {
	case KindDuplicate:
		return "duplicate"
	case KindIfChild:
		return "if_child"
	case KindCreateThread:
		return "create_thread"
	case KindJoinThread:
		return "join_thread"
	case KindEmit:
		return "emit"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Instruction is one node of the program tree. Label is used by KindEmit,
// Thread by KindCreateThread and KindJoinThread, Body by KindIfChild.
type Instruction struct {
	Kind   Kind
	Label  string
	Thread string
	Body   []Instruction
}

// Program is an ordered instruction sequence. The zero value is a valid
// program; it yields exactly the initial context and its calling thread.
type Program struct {
	Instructions []Instruction
}

// MalformedProgramError reports a structural defect found during validation.
// Index is the preorder position of the offending instruction.
type MalformedProgramError struct {
	Index  int
	Detail string
}

func (e *MalformedProgramError) Error() string {
	return fmt.Sprintf("malformed program: instruction %d: %s", e.Index, e.Detail)
}

// Validate checks the program structurally: conditional blocks must carry a
// body, emits must carry a label, thread creations must be named if they are
// ever joined, and every join must reference a thread created earlier in
// program order within a reachable scope. Validation has no side effects.
func (p *Program) Validate() error {
	idx := 0
	scopes := []map[string]bool{{}}
	return validateSeq(p.Instructions, &idx, scopes)
}

func validateSeq(instrs []Instruction, idx *int, scopes []map[string]bool) error {
	for i := range instrs {
		in := &instrs[i]
		here := *idx
		*idx++
		switch in.Kind {
		case KindDuplicate:
			// total over its inputs
		case KindIfChild:
			if in.Body == nil {
				return &MalformedProgramError{Index: here, Detail: "conditional block has no body"}
			}
			// Names created inside the block are not reachable after it.
			inner := append(scopes, map[string]bool{})
			if err := validateSeq(in.Body, idx, inner); err != nil {
				return err
			}
		case KindCreateThread:
			if in.Thread != "" {
				scopes[len(scopes)-1][in.Thread] = true
			}
		case KindJoinThread:
			if in.Thread == "" {
				return &MalformedProgramError{Index: here, Detail: "join_thread requires a thread name"}
			}
			if !threadInScope(scopes, in.Thread) {
				return &MalformedProgramError{
					Index:  here,
					Detail: fmt.Sprintf("join_thread references unknown thread %q", in.Thread),
				}
			}
		case KindEmit:
			if in.Label == "" {
				return &MalformedProgramError{Index: here, Detail: "emit requires a label"}
			}
		default:
			return &MalformedProgramError{Index: here, Detail: fmt.Sprintf("unknown instruction kind %d", int(in.Kind))}
		}
	}
	return nil
}

func threadInScope(scopes []map[string]bool, name string) bool {
	for i := len(scopes) - 1; i >= 0; i-- {
		if scopes[i][name] {
			return true
		}
	}
	return false
}

// Len returns the number of instructions in preorder, counting conditional
// blocks as one instruction plus their body.
func (p *Program) Len() int {
	return seqLen(p.Instructions)
}

func seqLen(instrs []Instruction) int {
	n := 0
	for i := range instrs {
		n++
		if instrs[i].Kind == KindIfChild {
			n += seqLen(instrs[i].Body)
		}
	}
	return n
}
