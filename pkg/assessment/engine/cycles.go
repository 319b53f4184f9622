package engine

import (
	"sort"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

// DetectCircularDependencies runs a depth-first search over the dependency
// graph and reports every cycle found on the way. Edges pointing at ids that
// are not graph keys are ignored. Nodes already fully processed from an
// earlier root are not expanded again, so a cycle reachable only through such
// nodes can go unreported (see DESIGN.md).
func DetectCircularDependencies(graph map[string][]string) types.CycleCheckResult {
	visited := map[string]bool{}
	onStack := map[string]bool{}
	path := []string{}
	cycles := [][]string{}

	var visit func(node string)
	visit = func(node string) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, dep := range graph[node] {
			if _, isNode := graph[dep]; !isNode {
				continue
			}
			if onStack[dep] {
				// cycle: path from the first occurrence of dep back to dep
				start := 0
				for i, id := range path {
					if id == dep {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, path[start:]...), dep)
				cycles = append(cycles, cycle)
				continue
			}
			if !visited[dep] {
				visit(dep)
			}
		}

		onStack[node] = false
		path = path[:len(path)-1]
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	for _, node := range nodes {
		if !visited[node] {
			visit(node)
		}
	}

	return types.CycleCheckResult{
		HasCycle: len(cycles) > 0,
		Cycles:   cycles,
	}
}
