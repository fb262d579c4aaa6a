package simexec

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	forksim "github.com/forklab/forksim"
)

// LiveCounts is the tally produced by a live run.
type LiveCounts struct {
	Contexts int
	Threads  int
}

// RunLive replays a program with real goroutines: every context is a
// goroutine, every created thread is a goroutine. Interleaving is genuinely
// nondeterministic, so no ids or ordered emits are produced; only the final
// counts are meaningful, and they must match the deterministic model. The
// model is the source of truth, not this mode.
func RunLive(ctx context.Context, prog *forksim.Program) (LiveCounts, error) {
	code, err := forksim.Compile(prog)
	if err != nil {
		return LiveCounts{}, err
	}
	rawCodes := code.GetCodes()
	codes := make([]codeOp, len(rawCodes))
	for i, rc := range rawCodes {
		codes[i] = codeOp{op: rc.GetOp(), value: rc.GetValue()}
	}

	var contexts, threads atomic.Int64
	g, ctx := errgroup.WithContext(ctx)

	var spawn func(pc int, child bool)
	run := func(pc int, child bool) error {
		for pc < len(codes) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			switch codes[pc].op {
			case opDuplicate:
				spawn(pc+1, true)
				child = false
				pc++
			case opBranchNotChild:
				if child {
					pc++
				} else {
					pc = codes[pc].value.(int)
				}
				child = false
			case opThreadCreate:
				threads.Add(1)
				g.Go(func() error { return nil })
				pc++
			default:
				// join and emit carry no accounting weight here
				pc++
			}
		}
		return nil
	}
	spawn = func(pc int, child bool) {
		contexts.Add(1)
		threads.Add(1) // the context's own calling thread
		g.Go(func() error { return run(pc, child) })
	}

	spawn(0, false)
	if err := g.Wait(); err != nil {
		return LiveCounts{}, err
	}
	return LiveCounts{
		Contexts: int(contexts.Load()),
		Threads:  int(threads.Load()),
	}, nil
}

// VerifyLive runs a program in both the deterministic model and live mode
// and fails if the final counts disagree.
func VerifyLive(ctx context.Context, prog *forksim.Program, opts ...Options) error {
	result, err := Run(ctx, prog, opts...)
	if err != nil {
		return err
	}
	live, err := RunLive(ctx, prog)
	if err != nil {
		return err
	}
	if live.Contexts != result.Report.TotalContexts || live.Threads != result.Report.TotalThreads {
		return fmt.Errorf("live counts diverged from model: live %d contexts / %d threads, model %d contexts / %d threads",
			live.Contexts, live.Threads, result.Report.TotalContexts, result.Report.TotalThreads)
	}
	return nil
}
