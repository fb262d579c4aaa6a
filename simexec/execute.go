package simexec

import (
	"context"
	"fmt"

	forksim "github.com/forklab/forksim"
)

// env is the execution environment for one run: the compiled code, the
// context store, the worklist, and the logger. It is driven by a single
// logical worker; nothing inside suspends or blocks.
type env struct {
	ctx    context.Context
	opts   Options
	codes  []codeOp
	store  *ContextStore
	work   *worklist
	emits  []Emit
	logger Logger
	execID string
}

// codeOp is the engine's view of one compiled instruction.
type codeOp struct {
	op     int    // Opcode as int (from GetOp())
	value  any    // Opcode value
	opName string // Opcode name string (from OpString())
}

// Opcode constants matching the compiler's internal opcodes
const (
	opNop int = iota
	opDuplicate
	opBranchNotChild
	opThreadCreate
	opThreadJoin
	opEmit
)

// newEnv creates a new execution environment.
func newEnv(ctx context.Context, execID string, opts Options) *env {
	logger := opts.Logger
	if logger == nil {
		if opts.LogLevel != "" {
			logger = NewLogger(ParseLogLevel(opts.LogLevel), opts.LogOutput, opts.LogTimeLayout)
		} else {
			logger = newNoopLogger()
		}
	}
	return &env{
		ctx:    ctx,
		opts:   opts,
		store:  NewContextStore(),
		work:   newWorklist(),
		logger: logger,
		execID: execID,
	}
}

// execute drives the compiled code over the growing context set until the
// worklist drains, then builds the report from the final snapshot.
func (e *env) execute(c *forksim.Code) (*Result, error) {
	rawCodes := c.GetCodes()
	e.codes = make([]codeOp, len(rawCodes))
	for i, rc := range rawCodes {
		e.codes[i] = codeOp{
			op:     rc.GetOp(),
			value:  rc.GetValue(),
			opName: rc.OpString(),
		}
	}

	initialID, err := e.store.CreateInitial()
	if err != nil {
		return nil, fmt.Errorf("failed to seed initial context: %w", err)
	}
	e.work.push(workItem{
		contextID: initialID,
		pc:        0,
		lineage:   fmt.Sprintf("%d", initialID),
	})

	e.logger.With(map[string]any{
		"exec":  e.execID,
		"codes": len(e.codes),
	}).Infof("Starting simulation")

	maxSteps := e.opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultOptions().MaxSteps
	}
	steps := 0
	for !e.work.isEmpty() {
		steps++
		if steps > maxSteps {
			return nil, fmt.Errorf("exceeded maximum steps (%d) - engine defect", maxSteps)
		}

		// Check context cancellation
		select {
		case <-e.ctx.Done():
			return nil, e.ctx.Err()
		default:
		}

		item, _ := e.work.pop()

		if item.pc >= len(e.codes) {
			// Terminal continuation - the context retires, nothing requeues.
			e.logger.With(map[string]any{
				"exec":    e.execID,
				"context": item.contextID,
				"lineage": item.lineage,
			}).Debugf("Context terminated")
			continue
		}

		code := e.codes[item.pc]
		e.logger.With(map[string]any{
			"exec":    e.execID,
			"context": item.contextID,
			"lineage": item.lineage,
			"pc":      item.pc,
			"op":      code.opName,
			"child":   item.child,
		}).Debugf("Executing opcode")

		if err := e.step(item, code); err != nil {
			return nil, err
		}
	}

	snapshot := e.store.Snapshot()
	e.logger.With(map[string]any{
		"exec":     e.execID,
		"contexts": len(snapshot),
		"steps":    steps,
	}).Infof("Simulation complete")

	return &Result{
		RunID:  e.execID,
		Report: BuildReport(snapshot, e.emits),
	}, nil
}

// step executes one instruction for one continuation and enqueues whatever
// continuations result. Every opcode is total over its inputs; the only
// error surface is the defensive unknown-context check in the store.
func (e *env) step(item workItem, code codeOp) error {
	switch code.op {
	case opDuplicate:
		// The single most important rule: both resulting contexts resume at
		// the same next instruction. The caller continues untagged; the
		// fresh child carries the one-shot tag for the next branch test.
		// The child is pushed last so it executes first (depth-first).
		childID, contID, err := e.store.Duplicate(item.contextID)
		if err != nil {
			return fmt.Errorf("duplicate at pc %d: %w", item.pc, err)
		}
		e.work.push(workItem{
			contextID: contID,
			pc:        item.pc + 1,
			lineage:   item.lineage,
		})
		e.work.push(workItem{
			contextID: childID,
			pc:        item.pc + 1,
			child:     true,
			lineage:   item.lineage + ".C",
		})

	case opBranchNotChild:
		// The child tag is consumed by the test whether or not it matches.
		next := item.pc + 1
		if !item.child {
			next = code.value.(int)
		}
		e.work.push(workItem{
			contextID: item.contextID,
			pc:        next,
			lineage:   item.lineage,
		})

	case opThreadCreate:
		name, _ := code.value.(string)
		if _, err := e.store.CreateThread(item.contextID, name, item.pc); err != nil {
			return fmt.Errorf("create_thread at pc %d: %w", item.pc, err)
		}
		item.pc++
		e.work.push(item)

	case opThreadJoin:
		// Joining changes no counts; validation already pinned the reference.
		item.pc++
		e.work.push(item)

	case opEmit:
		label, _ := code.value.(string)
		e.emits = append(e.emits, Emit{ContextID: item.contextID, Label: label})
		item.pc++
		e.work.push(item)

	case opNop:
		item.pc++
		e.work.push(item)

	default:
		return fmt.Errorf("unknown opcode %d at pc %d", code.op, item.pc)
	}
	return nil
}
