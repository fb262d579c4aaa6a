package simexec

import (
	"errors"
	"testing"
)

func TestStoreInitialContext(t *testing.T) {
	s := NewContextStore()
	id, err := s.CreateInitial()
	if err != nil {
		t.Fatalf("CreateInitial failed: %v", err)
	}
	if id != 1 {
		t.Errorf("Expected initial context id 1, got %d", id)
	}

	snapshot := s.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("Expected 1 context, got %d", len(snapshot))
	}
	if len(snapshot[0].Threads) != 1 {
		t.Errorf("Expected the calling thread only, got %d threads", len(snapshot[0].Threads))
	}
	if snapshot[0].Threads[0].CreatedAt != -1 {
		t.Errorf("Expected synthetic calling thread, got CreatedAt %d", snapshot[0].Threads[0].CreatedAt)
	}

	if _, err := s.CreateInitial(); err == nil {
		t.Error("Expected second CreateInitial to fail")
	}
}

func TestStoreDuplicateResetsChildThreads(t *testing.T) {
	s := NewContextStore()
	parent, _ := s.CreateInitial()

	// Pile threads onto the parent before duplicating.
	for i := 0; i < 3; i++ {
		if _, err := s.CreateThread(parent, "", i); err != nil {
			t.Fatalf("CreateThread failed: %v", err)
		}
	}

	child, cont, err := s.Duplicate(parent)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if cont != parent {
		t.Errorf("Expected parent continuation to keep id %d, got %d", parent, cont)
	}
	if child == parent {
		t.Error("Expected a fresh child context id")
	}

	snapshot := s.Snapshot()
	byID := map[int]ExecutionContext{}
	for _, ec := range snapshot {
		byID[ec.ID] = ec
	}
	if got := len(byID[parent].Threads); got != 4 {
		t.Errorf("Expected parent to keep 4 threads, got %d", got)
	}
	if got := len(byID[child].Threads); got != 1 {
		t.Errorf("Expected child threads reset to 1, got %d", got)
	}
	if byID[child].ParentID != parent {
		t.Errorf("Expected child parent %d, got %d", parent, byID[child].ParentID)
	}
}

func TestStoreUnknownContext(t *testing.T) {
	s := NewContextStore()
	if _, err := s.CreateInitial(); err != nil {
		t.Fatalf("CreateInitial failed: %v", err)
	}

	var uce *UnknownContextError
	if _, err := s.CreateThread(99, "", 0); !errors.As(err, &uce) {
		t.Errorf("Expected UnknownContextError, got %v", err)
	}
	if _, _, err := s.Duplicate(99); !errors.As(err, &uce) {
		t.Errorf("Expected UnknownContextError, got %v", err)
	}
	if uce != nil && uce.ID != 99 {
		t.Errorf("Expected error to name context 99, got %d", uce.ID)
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := NewContextStore()
	id, _ := s.CreateInitial()
	if _, err := s.CreateThread(id, "w", 0); err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}

	first := s.Snapshot()
	first[0].Threads[0].Name = "mutated"
	first[0].Threads = first[0].Threads[:0]

	second := s.Snapshot()
	if len(second[0].Threads) != 2 {
		t.Errorf("Expected snapshot mutation not to reach the store, got %d threads", len(second[0].Threads))
	}
	if second[0].Threads[0].Name != "" {
		t.Errorf("Expected store record unchanged, got name %q", second[0].Threads[0].Name)
	}
}
