package network

import (
	"errors"
	"strings"
	"testing"

	"github.com/joshharrison/pathloom/internal/schederr"
)

func sampleActivities() []Activity {
	return []Activity{
		{Name: "Start", Duration: -1},
		{Name: "A", Duration: 3},
		{Name: "B", Duration: 2},
		{Name: "C", Duration: 4},
		{Name: "End", Duration: -1},
	}
}

func TestBuild_SimpleNetwork(t *testing.T) {
	edges := []Edge{
		{From: "Start", To: "A"},
		{From: "Start", To: "B"},
		{From: "A", To: "C"},
		{From: "B", To: "C"},
		{From: "C", To: "End"},
	}

	n, err := Build(sampleActivities(), edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n.Start != "Start" || n.End != "End" {
		t.Errorf("expected Start/End, got %q/%q", n.Start, n.End)
	}
	if !n.Complete() {
		t.Error("expected complete network")
	}
	if n.Table.Len() != 5 {
		t.Errorf("expected 5 activities, got %d", n.Table.Len())
	}
	if got := len(n.Table.Interior()); got != 3 {
		t.Errorf("expected 3 interior activities, got %d", got)
	}

	// Successors keep first-seen order
	succ := n.Precedence.Successors("Start")
	if len(succ) != 2 || succ[0] != "A" || succ[1] != "B" {
		t.Errorf("expected Start successors [A B], got %v", succ)
	}
	if pred := n.Precedence.Predecessors("C"); len(pred) != 2 {
		t.Errorf("expected C to have 2 predecessors, got %v", pred)
	}
}

func TestBuild_ExtremesFollowDeclarationOrder(t *testing.T) {
	acts := []Activity{
		{Name: "zeta", Duration: -1},
		{Name: "work", Duration: 1},
		{Name: "alpha", Duration: -1},
	}
	n, err := Build(acts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Start != "zeta" || n.End != "alpha" {
		t.Errorf("expected start=zeta end=alpha, got %q/%q", n.Start, n.End)
	}
}

func TestBuild_DuplicateEdgesCollapse(t *testing.T) {
	edges := []Edge{
		{From: "Start", To: "A"},
		{From: "Start", To: "A"},
		{From: "A", To: "End"},
	}
	n, err := Build(sampleActivities(), edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Precedence.Len() != 2 {
		t.Errorf("expected 2 unique edges, got %d", n.Precedence.Len())
	}
	if !n.Precedence.Contains("Start", "A") {
		t.Error("expected Start -> A to be present")
	}
}

func TestBuild_DuplicateActivity(t *testing.T) {
	acts := append(sampleActivities(), Activity{Name: "A", Duration: 9})
	_, err := Build(acts, nil)
	if !errors.Is(err, schederr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuild_EmptyName(t *testing.T) {
	_, err := Build([]Activity{{Name: "", Duration: 1}}, nil)
	if !errors.Is(err, schederr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuild_ThirdExtreme(t *testing.T) {
	acts := append(sampleActivities(), Activity{Name: "Other", Duration: -1})
	_, err := Build(acts, nil)
	if !errors.Is(err, schederr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuild_UnknownEdgeName(t *testing.T) {
	_, err := Build(sampleActivities(), []Edge{{From: "A", To: "Z"}})
	if !errors.Is(err, schederr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuild_MissingExtremes(t *testing.T) {
	n, err := Build([]Activity{{Name: "Start", Duration: -1}, {Name: "A", Duration: 1}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Complete() {
		t.Error("network with one extreme should not be complete")
	}
	if n.Start != "Start" || n.End != "" {
		t.Errorf("expected start only, got %q/%q", n.Start, n.End)
	}
}

func TestActivity_Weight(t *testing.T) {
	cases := []struct {
		dur  int
		want int
	}{
		{-1, 0},
		{-5, 0},
		{0, 0},
		{7, 7},
	}
	for _, c := range cases {
		if got := (Activity{Name: "x", Duration: c.dur}).Weight(); got != c.want {
			t.Errorf("duration %d: expected weight %d, got %d", c.dur, c.want, got)
		}
	}
}

func TestDetectCycle(t *testing.T) {
	acts := []Activity{
		{Name: "a", Duration: 1},
		{Name: "b", Duration: 1},
		{Name: "c", Duration: 1},
	}
	n, err := Build(acts, []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cycle := n.DetectCycle()
	want := []string{"a", "b", "c", "a"}
	if len(cycle) != len(want) {
		t.Fatalf("expected cycle %v, got %v", want, cycle)
	}
	for i := range want {
		if cycle[i] != want[i] {
			t.Fatalf("expected cycle %v, got %v", want, cycle)
		}
	}
}

func TestDetectCycle_SelfLoop(t *testing.T) {
	n, err := Build([]Activity{{Name: "a", Duration: 1}}, []Edge{{From: "a", To: "a"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cycle := n.DetectCycle()
	if len(cycle) != 2 || cycle[0] != "a" || cycle[1] != "a" {
		t.Errorf("expected [a a], got %v", cycle)
	}
}

func TestDetectCycle_Acyclic(t *testing.T) {
	n, err := Build(sampleActivities(), []Edge{{From: "Start", To: "A"}, {From: "A", To: "End"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycle := n.DetectCycle(); cycle != nil {
		t.Errorf("expected no cycle, got %v", cycle)
	}
}

func TestCycleFrom(t *testing.T) {
	n, err := Build(
		[]Activity{{Name: "S", Duration: -1}, {Name: "E", Duration: -1}, {Name: "X", Duration: 1}, {Name: "P", Duration: 1}, {Name: "Q", Duration: 1}},
		[]Edge{{From: "S", To: "E"}, {From: "E", To: "X"}, {From: "X", To: "E"}, {From: "P", To: "Q"}, {From: "Q", To: "P"}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := n.CycleFrom("E"); strings.Join(got, " ") != "E X E" {
		t.Errorf("expected E X E, got %v", got)
	}
	if got := n.CycleFrom("S"); got == nil {
		t.Error("expected the cycle through E to be reachable from S")
	}
	if got := n.CycleFrom("missing"); got != nil {
		t.Errorf("expected nil for an unknown root, got %v", got)
	}
}
