package network

// DetectCycle returns a cycle in the precedence set as a closed walk
// (first name repeated at the end), or nil if the set is acyclic.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
// Roots are visited in table declaration order so the witness is stable.
func (n *Network) DetectCycle() []string {
	return n.detectCycle(n.Table.order)
}

// CycleFrom returns a cycle among the activities reachable from root,
// or nil if none closes.
func (n *Network) CycleFrom(root string) []string {
	if !n.Table.Has(root) {
		return nil
	}
	a, _ := n.Table.Lookup(root)
	return n.detectCycle([]Activity{a})
}

func (n *Network) detectCycle(roots []Activity) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range n.Precedence.Successors(node) {
			if color[next] == gray {
				// Walk parents back from node to next, then close the loop.
				cycle := []string{node}
				for cur := node; cur != next; {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return append(cycle, next)
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, a := range roots {
		if color[a.Name] == white {
			if cycle := dfs(a.Name); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
