package simexec

import (
	"context"
	"testing"

	"go.uber.org/goleak"

	forksim "github.com/forklab/forksim"
)

func TestRunLiveMatchesModel(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := []struct {
		name   string
		instrs []forksim.Instruction
	}{
		{
			name:   "empty program",
			instrs: nil,
		},
		{
			name:   "three duplicates",
			instrs: []forksim.Instruction{dup(), dup(), dup()},
		},
		{
			name: "nested fork walkthrough",
			instrs: []forksim.Instruction{
				dup(),
				ifChild(
					dup(),
					createThread("worker"),
					forksim.Instruction{Kind: forksim.KindJoinThread, Thread: "worker"},
				),
				dup(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := &forksim.Program{Instructions: tt.instrs}
			if err := VerifyLive(context.Background(), prog); err != nil {
				t.Fatalf("VerifyLive failed: %v", err)
			}
		})
	}
}

func TestRunLiveCounts(t *testing.T) {
	defer goleak.VerifyNone(t)

	prog := &forksim.Program{Instructions: []forksim.Instruction{
		dup(),
		ifChild(dup(), createThread("worker")),
		dup(),
	}}
	counts, err := RunLive(context.Background(), prog)
	if err != nil {
		t.Fatalf("RunLive failed: %v", err)
	}
	if counts.Contexts != 6 {
		t.Errorf("Expected 6 live contexts, got %d", counts.Contexts)
	}
	if counts.Threads != 8 {
		t.Errorf("Expected 8 live threads, got %d", counts.Threads)
	}
}
