package analysis

import (
	"context"
	"sync"
	"testing"
)

type traceState struct {
	mu    sync.Mutex
	order []string
}

func (s *traceState) mark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, id)
}

func (s *traceState) indexOf(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.order {
		if v == id {
			return i
		}
	}
	return -1
}

func markNode(id string) func(context.Context, *traceState) {
	return func(_ context.Context, s *traceState) { s.mark(id) }
}

func TestDAGRespectsDependencies(t *testing.T) {
	g := newDAG[traceState]()
	g.add("root", markNode("root"))
	g.add("a", markNode("a"), "root")
	g.add("b", markNode("b"), "root")
	g.add("c", markNode("c"), "a", "b")
	if err := g.validate(); err != nil {
		t.Fatal(err)
	}

	s := &traceState{}
	g.run(context.Background(), s)

	if len(s.order) != 4 {
		t.Fatalf("ran %d nodes, want 4: %v", len(s.order), s.order)
	}
	if s.indexOf("root") != 0 {
		t.Fatalf("root did not run first: %v", s.order)
	}
	if s.indexOf("c") != 3 {
		t.Fatalf("c did not run last: %v", s.order)
	}
}

func TestDAGRunsEveryNodeOnce(t *testing.T) {
	g := newDAG[traceState]()
	for _, id := range []string{"x", "y", "z"} {
		g.add(id, markNode(id))
	}
	s := &traceState{}
	g.run(context.Background(), s)

	seen := map[string]int{}
	for _, id := range s.order {
		seen[id]++
	}
	for _, id := range []string{"x", "y", "z"} {
		if seen[id] != 1 {
			t.Fatalf("node %s ran %d times", id, seen[id])
		}
	}
}

func TestDAGValidateUnknownDep(t *testing.T) {
	g := newDAG[traceState]()
	g.add("a", markNode("a"), "ghost")
	if err := g.validate(); err == nil {
		t.Fatal("expected error for unknown dependency")
	}
}

func TestDAGValidateCycle(t *testing.T) {
	g := newDAG[traceState]()
	g.add("a", markNode("a"), "b")
	g.add("b", markNode("b"), "a")
	if err := g.validate(); err == nil {
		t.Fatal("expected error for cycle")
	}
}

func TestPipelineGraphShape(t *testing.T) {
	g, err := buildGraph(&engine{})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.fns) != 10 {
		t.Fatalf("pipeline has %d nodes, want 10", len(g.fns))
	}

	wantDeps := map[string][]string{
		nodeClaim:       {nodeLoadJournal},
		nodeExpand:      {nodeClaim},
		nodePriorWork:   {nodeReferences},
		nodeTranslation: {nodeParaphrase, nodeExpand},
	}
	for id, deps := range wantDeps {
		got := g.deps[id]
		if len(got) != len(deps) {
			t.Fatalf("deps of %s = %v, want %v", id, got, deps)
		}
		for i := range deps {
			if got[i] != deps[i] {
				t.Fatalf("deps of %s = %v, want %v", id, got, deps)
			}
		}
	}
}
