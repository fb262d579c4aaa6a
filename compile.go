package forksim

import "fmt"

// Compile validates a program and flattens it into engine code. Conditional
// blocks become a branchnotchild whose target is the instruction just past
// the block, so at run time a context that does not carry the child tag
// skips the body with a single jump.
func Compile(p *Program) (*Code, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot compile nil program")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("failed to compile program: %w", err)
	}
	c := &Code{codes: make([]*code, 0, p.Len())}
	compileSeq(c, p.Instructions)
	return c, nil
}

func compileSeq(c *Code, instrs []Instruction) {
	for i := range instrs {
		in := &instrs[i]
		switch in.Kind {
		case KindDuplicate:
			c.append(opduplicate, nil)
		case KindIfChild:
			branch := c.append(opbranchnotchild, nil)
			compileSeq(c, in.Body)
			// Patch the jump target now that the body length is known.
			branch.v = len(c.codes)
		case KindCreateThread:
			c.append(opthreadcreate, in.Thread)
		case KindJoinThread:
			c.append(opthreadjoin, in.Thread)
		case KindEmit:
			c.append(opemit, in.Label)
		}
	}
}

func (c *Code) append(op opcode, v any) *code {
	cd := &code{op: op, v: v}
	c.codes = append(c.codes, cd)
	return cd
}
