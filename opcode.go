package forksim

type code struct {
	v  any
	op opcode
}

// GetOp returns the opcode for engine dispatch.
func (c *code) GetOp() int {
	return int(c.op)
}

// GetValue returns the opcode value for engine dispatch.
func (c *code) GetValue() any {
	return c.v
}

// OpString returns the string representation of the opcode.
func (c *code) OpString() string {
	return c.op.String()
}

type opcode int

const (
	opnop opcode = iota
	opduplicate
	opbranchnotchild
	opthreadcreate
	opthreadjoin
	opemit
)

func (op opcode) String() string {
	switch op {
	case opnop:
		return "nop"
	case opduplicate:
		return "duplicate"
	case opbranchnotchild:
		return "branchnotchild"
	case opthreadcreate:
		return "threadcreate"
	case opthreadjoin:
		return "threadjoin"
	case opemit:
		return "emit"
	default:
		panic(op)
	}
}

// Code is a compiled program: a flat instruction list the engine can drive
// with a single integer program counter. Conditional blocks compile to a
// branchnotchild whose value is the jump target just past the block.
type Code struct {
	codes []*code
}

// GetCodes returns the flat instruction list.
func (c *Code) GetCodes() []*code {
	return c.codes
}
