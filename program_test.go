package forksim

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		program   Program
		wantIndex int  // offending instruction, when wantErr
		wantErr   bool
	}{
		{
			name:    "empty program",
			program: Program{},
		},
		{
			name: "sequential duplicates",
			program: Program{Instructions: []Instruction{
				{Kind: KindDuplicate},
				{Kind: KindDuplicate},
				{Kind: KindDuplicate},
			}},
		},
		{
			name: "nested conditional with thread",
			program: Program{Instructions: []Instruction{
				{Kind: KindDuplicate},
				{Kind: KindIfChild, Body: []Instruction{
					{Kind: KindDuplicate},
					{Kind: KindCreateThread, Thread: "worker"},
					{Kind: KindJoinThread, Thread: "worker"},
				}},
				{Kind: KindDuplicate},
			}},
		},
		{
			name: "conditional without body",
			program: Program{Instructions: []Instruction{
				{Kind: KindDuplicate},
				{Kind: KindIfChild},
			}},
			wantIndex: 1,
			wantErr:   true,
		},
		{
			name: "join before create",
			program: Program{Instructions: []Instruction{
				{Kind: KindJoinThread, Thread: "worker"},
				{Kind: KindCreateThread, Thread: "worker"},
			}},
			wantIndex: 0,
			wantErr:   true,
		},
		{
			name: "join of thread created in closed block",
			program: Program{Instructions: []Instruction{
				{Kind: KindDuplicate},
				{Kind: KindIfChild, Body: []Instruction{
					{Kind: KindCreateThread, Thread: "inner"},
				}},
				{Kind: KindJoinThread, Thread: "inner"},
			}},
			wantIndex: 3,
			wantErr:   true,
		},
		{
			name: "join of outer thread inside block",
			program: Program{Instructions: []Instruction{
				{Kind: KindCreateThread, Thread: "outer"},
				{Kind: KindDuplicate},
				{Kind: KindIfChild, Body: []Instruction{
					{Kind: KindJoinThread, Thread: "outer"},
				}},
			}},
		},
		{
			name: "join without name",
			program: Program{Instructions: []Instruction{
				{Kind: KindJoinThread},
			}},
			wantIndex: 0,
			wantErr:   true,
		},
		{
			name: "emit without label",
			program: Program{Instructions: []Instruction{
				{Kind: KindEmit},
			}},
			wantIndex: 0,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.program.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			var mpe *MalformedProgramError
			if !errors.As(err, &mpe) {
				t.Fatalf("Expected MalformedProgramError, got %T: %v", err, err)
			}
			if mpe.Index != tt.wantIndex {
				t.Errorf("Expected error at instruction %d, got %d (%s)", tt.wantIndex, mpe.Index, mpe.Detail)
			}
		})
	}
}

func TestProgramLen(t *testing.T) {
	prog := Program{Instructions: []Instruction{
		{Kind: KindDuplicate},
		{Kind: KindIfChild, Body: []Instruction{
			{Kind: KindDuplicate},
			{Kind: KindCreateThread},
		}},
		{Kind: KindDuplicate},
	}}
	if got := prog.Len(); got != 5 {
		t.Errorf("Expected preorder length 5, got %d", got)
	}
}
