package entity

import "testing"

func TestOrderStatusNext(t *testing.T) {
	tests := []struct {
		current OrderStatus
		want    OrderStatus
		ok      bool
	}{
		{StatusPending, StatusInWarehouse, true},
		{StatusInWarehouse, StatusShipped, true},
		{StatusShipped, "", false},
		{OrderStatus("bogus"), "", false},
	}
	for _, tt := range tests {
		got, ok := tt.current.Next()
		if got != tt.want || ok != tt.ok {
			t.Errorf("Next(%q) = (%q, %v), want (%q, %v)", tt.current, got, ok, tt.want, tt.ok)
		}
		if tt.current.CanAdvance() != tt.ok {
			t.Errorf("CanAdvance(%q) = %v, want %v", tt.current, !tt.ok, tt.ok)
		}
	}
}

func TestOrderStatusPipelineIsStrictlyForward(t *testing.T) {
	var visited []OrderStatus
	s := StatusPending
	for {
		n, ok := s.Next()
		if !ok {
			break
		}
		visited = append(visited, n)
		s = n
	}

	want := []OrderStatus{StatusInWarehouse, StatusShipped}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, want %v", visited, want)
		}
	}

	// Terminal stays terminal on repeated calls.
	for i := 0; i < 3; i++ {
		if _, ok := s.Next(); ok {
			t.Fatal("shipped must have no further transition")
		}
	}
}

func TestOrderStatusCanDelete(t *testing.T) {
	if !StatusPending.CanDelete() {
		t.Error("pending order must be deletable")
	}
	for _, s := range []OrderStatus{StatusInWarehouse, StatusShipped} {
		if s.CanDelete() {
			t.Errorf("%q order must not be deletable", s)
		}
	}
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusInWarehouse, true},
		{StatusPending, StatusShipped, true}, // forward jump allowed
		{StatusPending, StatusPending, true},
		{StatusInWarehouse, StatusPending, false},
		{StatusShipped, StatusInWarehouse, false},
		{StatusShipped, StatusShipped, true},
		{StatusPending, OrderStatus("bogus"), false},
		{OrderStatus("bogus"), StatusPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%q → %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusInWarehouse, StatusShipped} {
		if !s.Valid() {
			t.Errorf("%q must be valid", s)
		}
	}
	if OrderStatus("paid").Valid() {
		t.Error("unknown status must not be valid")
	}
}
