package network

import (
	"github.com/joshharrison/pathloom/internal/schederr"
)

// ActivityTable maps activity names to durations while keeping declaration
// order, which decides which extremes become Start and End.
type ActivityTable struct {
	order []Activity
	index map[string]int
}

// NewActivityTable indexes activities in the given order. It rejects empty
// names, duplicate names and more than two extremes.
func NewActivityTable(activities []Activity) (*ActivityTable, error) {
	t := &ActivityTable{
		order: make([]Activity, 0, len(activities)),
		index: make(map[string]int, len(activities)),
	}

	extremes := 0
	for _, a := range activities {
		if a.Name == "" {
			return nil, schederr.Configf("activity #%d has an empty name", len(t.order)+1)
		}
		if _, dup := t.index[a.Name]; dup {
			return nil, schederr.Configf("activity %q declared more than once", a.Name)
		}
		if a.IsExtreme() {
			extremes++
			if extremes > 2 {
				return nil, schederr.Configf("activity %q is a third extreme (duration %d); only Start and End may use it", a.Name, Extreme)
			}
		}
		t.index[a.Name] = len(t.order)
		t.order = append(t.order, a)
	}
	return t, nil
}

// Len returns the number of activities, extremes included.
func (t *ActivityTable) Len() int {
	return len(t.order)
}

// Has reports whether name was declared.
func (t *ActivityTable) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Lookup returns the activity declared under name.
func (t *ActivityTable) Lookup(name string) (Activity, bool) {
	i, ok := t.index[name]
	if !ok {
		return Activity{}, false
	}
	return t.order[i], true
}

// Weight returns the path-weight contribution of name, zero if unknown.
func (t *ActivityTable) Weight(name string) int {
	a, ok := t.Lookup(name)
	if !ok {
		return 0
	}
	return a.Weight()
}

// Activities returns every activity in declaration order.
func (t *ActivityTable) Activities() []Activity {
	out := make([]Activity, len(t.order))
	copy(out, t.order)
	return out
}

// Interior returns the non-extreme activities in declaration order.
func (t *ActivityTable) Interior() []Activity {
	var out []Activity
	for _, a := range t.order {
		if !a.IsExtreme() {
			out = append(out, a)
		}
	}
	return out
}

// Extremes returns the first and second extreme in declaration order.
// Missing extremes come back as empty strings.
func (t *ActivityTable) Extremes() (start, end string) {
	for _, a := range t.order {
		if !a.IsExtreme() {
			continue
		}
		if start == "" {
			start = a.Name
			continue
		}
		end = a.Name
		break
	}
	return start, end
}

// PrecedenceSet is a de-duplicated set of edges over a table's names.
// Edge order is first-seen order; successors keep that order too so that
// path enumeration is reproducible.
type PrecedenceSet struct {
	edges  []Edge
	seen   map[Edge]bool
	adj    map[string][]string // activity -> activities it precedes
	revAdj map[string][]string // activity -> activities that precede it
}

// NewPrecedenceSet validates edges against table and collapses duplicates.
func NewPrecedenceSet(table *ActivityTable, edges []Edge) (*PrecedenceSet, error) {
	p := &PrecedenceSet{
		seen:   make(map[Edge]bool),
		adj:    make(map[string][]string),
		revAdj: make(map[string][]string),
	}
	for _, e := range edges {
		if !table.Has(e.From) {
			return nil, schederr.Configf("precedence %s -> %s: %q is not a declared activity", e.From, e.To, e.From)
		}
		if !table.Has(e.To) {
			return nil, schederr.Configf("precedence %s -> %s: %q is not a declared activity", e.From, e.To, e.To)
		}
		p.add(e)
	}
	return p, nil
}

func (p *PrecedenceSet) add(e Edge) {
	if p.seen[e] {
		return
	}
	p.seen[e] = true
	p.edges = append(p.edges, e)
	p.adj[e.From] = append(p.adj[e.From], e.To)
	p.revAdj[e.To] = append(p.revAdj[e.To], e.From)
}

// Len returns the number of unique edges.
func (p *PrecedenceSet) Len() int {
	return len(p.edges)
}

// Contains reports whether the edge from -> to is in the set.
func (p *PrecedenceSet) Contains(from, to string) bool {
	return p.seen[Edge{From: from, To: to}]
}

// Edges returns the unique edges in first-seen order.
func (p *PrecedenceSet) Edges() []Edge {
	out := make([]Edge, len(p.edges))
	copy(out, p.edges)
	return out
}

// Successors returns the activities that name directly precedes.
func (p *PrecedenceSet) Successors(name string) []string {
	return p.adj[name]
}

// Predecessors returns the activities that directly precede name.
func (p *PrecedenceSet) Predecessors(name string) []string {
	return p.revAdj[name]
}

// Build validates a network definition and resolves its extremes.
// Fewer than two extremes is not an error here; the caller decides.
func Build(activities []Activity, edges []Edge) (*Network, error) {
	table, err := NewActivityTable(activities)
	if err != nil {
		return nil, err
	}
	prec, err := NewPrecedenceSet(table, edges)
	if err != nil {
		return nil, err
	}
	start, end := table.Extremes()
	return &Network{
		Table:      table,
		Precedence: prec,
		Start:      start,
		End:        end,
	}, nil
}

// Complete reports whether both Start and End were resolved.
func (n *Network) Complete() bool {
	return n.Start != "" && n.End != ""
}
