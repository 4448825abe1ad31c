package graph

// DefaultMaxJoinDepth bounds path search to short, explainable join chains.
const DefaultMaxJoinDepth = 3

// JoinStep is one hop of a join path. FromColumn on FromTable equals
// ToColumn on ToTable.
type JoinStep struct {
	FromTable  string `json:"from_table"`
	ToTable    string `json:"to_table"`
	FromColumn string `json:"from_column"`
	ToColumn   string `json:"to_column"`
}

// FindJoinPath finds a join path between two tables, or nil when none
// exists within maxDepth hops.
//
// Resolution order: a direct edge from -> to wins; then a direct edge
// to -> from, returned in its native orientation; then a forward
// breadth-first search; then a backward search whose steps are reversed
// and column-swapped so the chain still reads from -> to.
func (g *Graph) FindJoinPath(from, to string, maxDepth int) []JoinStep {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxJoinDepth
	}
	if !g.HasTable(from) || !g.HasTable(to) {
		return nil
	}

	if e, ok := g.edge(from, to); ok {
		return []JoinStep{stepFromEdge(e)}
	}
	if e, ok := g.edge(to, from); ok {
		return []JoinStep{stepFromEdge(e)}
	}

	if path := g.shortestPath(from, to, maxDepth); path != nil {
		return g.pathToSteps(path)
	}

	if path := g.shortestPath(to, from, maxDepth); path != nil {
		steps := g.pathToSteps(path)
		reverseSteps(steps)
		return steps
	}

	return nil
}

// shortestPath runs a breadth-first search along edge direction and returns
// the node sequence from start to goal, capped at maxDepth hops.
func (g *Graph) shortestPath(start, goal string, maxDepth int) []string {
	if start == goal {
		return []string{start}
	}

	visited := map[string]bool{start: true}
	parent := make(map[string]string)
	frontier := []string{start}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, current := range frontier {
			for _, neighbor := range g.successors(current) {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				parent[neighbor] = current

				if neighbor == goal {
					return buildPath(parent, start, goal)
				}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return nil
}

// buildPath walks the parent links back from goal to start.
func buildPath(parent map[string]string, start, goal string) []string {
	path := []string{goal}
	for current := goal; current != start; {
		current = parent[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// pathToSteps converts a node sequence into join steps using the edge
// between each consecutive pair.
func (g *Graph) pathToSteps(path []string) []JoinStep {
	steps := make([]JoinStep, 0, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		e, ok := g.edge(path[i], path[i+1])
		if !ok {
			return nil
		}
		steps = append(steps, stepFromEdge(e))
	}
	return steps
}

// reverseSteps flips a backward-search chain into forward reading order:
// step order is reversed and each step's table and column pair swapped.
func reverseSteps(steps []JoinStep) {
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	for i := range steps {
		steps[i].FromTable, steps[i].ToTable = steps[i].ToTable, steps[i].FromTable
		steps[i].FromColumn, steps[i].ToColumn = steps[i].ToColumn, steps[i].FromColumn
	}
}

func stepFromEdge(e *Edge) JoinStep {
	return JoinStep{
		FromTable:  e.From,
		ToTable:    e.To,
		FromColumn: e.FromColumn,
		ToColumn:   e.ToColumn,
	}
}
