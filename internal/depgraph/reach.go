package depgraph

import "sort"

// BlastRadius describes how far a change to one file reaches.
type BlastRadius struct {
	File             string   `json:"file"`
	DirectDependents []string `json:"direct_dependents"`
	Count            int      `json:"count"`
	Pct              float64  `json:"pct"`
}

// ComputeBlastRadius returns the files that import file and the share of the
// codebase they represent.
func ComputeBlastRadius(g *Graph, file string) BlastRadius {
	dependents := append([]string{}, g.Dependents(file)...)
	pct := 0.0
	if len(g.Nodes) > 0 {
		pct = float64(len(dependents)) / float64(len(g.Nodes)) * 100
	}
	return BlastRadius{
		File:             file,
		DirectDependents: dependents,
		Count:            len(dependents),
		Pct:              pct,
	}
}

// TransitiveDependents walks reverse edges breadth-first from file, up to
// maxHops levels (maxHops <= 0 means unbounded), and returns every file that
// directly or indirectly imports it, sorted. file itself is excluded even
// when it sits on a cycle.
func TransitiveDependents(g *Graph, file string, maxHops int) []string {
	type item struct {
		file string
		hops int
	}

	visited := map[string]bool{file: true}
	queue := []item{{file: file, hops: 0}}
	result := []string{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if maxHops > 0 && cur.hops >= maxHops {
			continue
		}
		for _, dep := range g.Dependents(cur.file) {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			result = append(result, dep)
			queue = append(queue, item{file: dep, hops: cur.hops + 1})
		}
	}

	sort.Strings(result)
	return result
}

// FindCycle returns one import cycle as a path whose first and last element
// are the same file, or nil when the graph is acyclic. Nodes are visited in
// sorted order, so the result is deterministic.
func FindCycle(g *Graph) []string {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(g.Nodes))
	var stack []string
	var cycle []string

	var visit func(n string) bool
	visit = func(n string) bool {
		color[n] = gray
		stack = append(stack, n)
		for _, dep := range g.Dependencies(n) {
			switch color[dep] {
			case white:
				if visit(dep) {
					return true
				}
			case gray:
				for i, s := range stack {
					if s == dep {
						cycle = append(append([]string{}, stack[i:]...), dep)
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for _, n := range g.Nodes {
		if color[n] == white && visit(n) {
			return cycle
		}
	}
	return nil
}

// HasCycle reports whether the graph contains any import cycle.
func HasCycle(g *Graph) bool {
	return FindCycle(g) != nil
}
