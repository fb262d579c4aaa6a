// Package simexec executes duplication programs against a growing set of
// simulated execution contexts and reports the resulting process and thread
// inventories. The engine is a single-threaded, deterministic fixpoint over
// a worklist of continuations; it models how many contexts and threads a
// program yields, not their timing.
package simexec

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	forksim "github.com/forklab/forksim"
)

// Run validates and compiles a program, then executes it.
//
// Example:
//
//	prog := &forksim.Program{Instructions: []forksim.Instruction{
//	    {Kind: forksim.KindDuplicate},
//	}}
//	result, err := simexec.Run(context.Background(), prog)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("contexts: %d\n", result.Report.TotalContexts)
func Run(ctx context.Context, prog *forksim.Program, opts ...Options) (*Result, error) {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	code, err := forksim.Compile(prog)
	if err != nil {
		return nil, err
	}

	return Exec(ctx, code, opt)
}

// Exec executes already-compiled code. Callers that compile once and run
// repeatedly can skip the validation cost of Run.
func Exec(ctx context.Context, code *forksim.Code, opts Options) (*Result, error) {
	if code == nil {
		return nil, fmt.Errorf("code cannot be nil")
	}
	env := newEnv(ctx, newExecID(), opts)
	return env.execute(code)
}

// newExecID returns a short unique id attached to a run's logs and result.
func newExecID() string {
	return "e" + uuid.NewString()[:8]
}
