package analysis

import (
	"context"
	"fmt"
	"sync"
)

// Node ids of the analysis pipeline. The dependency structure is fixed:
// everything fans out after the journal profile loads, expansion waits
// on the claim, prior work waits on references, and translation waits
// on paraphrase and expansion.
const (
	nodeLoadJournal = "load_journal"
	nodeClaim       = "claim"
	nodeParaphrase  = "paraphrase"
	nodeJournalFit  = "journal_fit"
	nodeExpand      = "expand"
	nodeReferences  = "references"
	nodeReviewer    = "reviewer"
	nodeVague       = "vague"
	nodePriorWork   = "prior_work"
	nodeTranslation = "translation"
)

// dag runs a fixed set of nodes concurrently, each starting only after
// its prerequisites finish. Node functions never return errors; failure
// containment happens inside each node.
type dag[S any] struct {
	fns  map[string]func(context.Context, *S)
	deps map[string][]string
}

func newDAG[S any]() *dag[S] {
	return &dag[S]{
		fns:  make(map[string]func(context.Context, *S)),
		deps: make(map[string][]string),
	}
}

// add registers a node with its prerequisite node ids.
func (d *dag[S]) add(id string, fn func(context.Context, *S), deps ...string) {
	d.fns[id] = fn
	d.deps[id] = deps
}

// validate rejects references to unregistered nodes and dependency cycles.
func (d *dag[S]) validate() error {
	for id, deps := range d.deps {
		for _, dep := range deps {
			if _, ok := d.fns[dep]; !ok {
				return fmt.Errorf("dag: node %q depends on unknown node %q", id, dep)
			}
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(d.fns))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("dag: cycle through node %q", id)
		case done:
			return nil
		}
		state[id] = visiting
		for _, dep := range d.deps[id] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for id := range d.fns {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// run executes every node once, respecting dependencies. Independent
// nodes run concurrently; nodes sharing state fields are ordered by
// their declared edges.
func (d *dag[S]) run(ctx context.Context, s *S) {
	finished := make(map[string]chan struct{}, len(d.fns))
	for id := range d.fns {
		finished[id] = make(chan struct{})
	}

	var wg sync.WaitGroup
	for id, fn := range d.fns {
		wg.Add(1)
		go func(id string, fn func(context.Context, *S)) {
			defer wg.Done()
			defer close(finished[id])
			for _, dep := range d.deps[id] {
				<-finished[dep]
			}
			fn(ctx, s)
		}(id, fn)
	}
	wg.Wait()
}

// pipelineState is the shared state the nodes fill in. Each node writes
// its own result slot; cross-node reads are protected by graph edges.
type pipelineState struct {
	text        string
	journalName string

	journal    journalProfile
	hasJournal bool

	result Result
}

// buildGraph wires the engine's node functions into the fixed pipeline.
func buildGraph(e *engine) (*dag[pipelineState], error) {
	g := newDAG[pipelineState]()
	g.add(nodeLoadJournal, e.loadJournal)
	g.add(nodeClaim, e.checkClaim, nodeLoadJournal)
	g.add(nodeParaphrase, e.paraphrase, nodeLoadJournal)
	g.add(nodeJournalFit, e.matchJournal, nodeLoadJournal)
	g.add(nodeReferences, e.findReferences, nodeLoadJournal)
	g.add(nodeReviewer, e.reviewerQuestions, nodeLoadJournal)
	g.add(nodeVague, e.detectVague, nodeLoadJournal)
	g.add(nodeExpand, e.expandClaim, nodeClaim)
	g.add(nodePriorWork, e.analyzePriorWork, nodeReferences)
	g.add(nodeTranslation, e.translate, nodeParaphrase, nodeExpand)
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}
