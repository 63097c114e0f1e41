package graph

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
)

// ErrCycleDetected indicates the graph has no topological order.
var ErrCycleDetected = errors.New("cycle detected in dependencies")

// CycleError lists the strongly connected components that form cycles, each
// in extraction order.
type CycleError struct {
	Cycles [][]string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %v", ErrCycleDetected, e.Cycles)
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}

// Sort returns every node such that for each edge (a, b), a comes before b.
// Among nodes that are ready at the same time the one extracted first wins,
// which makes the result the smallest valid order by extraction position.
// A cyclic graph yields a *CycleError and no order.
func Sort(d *DependencyGraph) ([]string, error) {
	order, ok, err := d.kahn()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, d.cycleError()
	}
	return order, nil
}

// HasCycle reports whether d contains at least one cycle.
func HasCycle(d *DependencyGraph) bool {
	_, ok, err := d.kahn()
	return err == nil && !ok
}

func (d *DependencyGraph) kahn() ([]string, bool, error) {
	adjacency, err := d.g.AdjacencyMap()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read adjacency: %w", err)
	}

	indegree := make(map[string]int, len(adjacency))
	for id := range adjacency {
		if _, ok := indegree[id]; !ok {
			indegree[id] = 0
		}
		for next := range adjacency[id] {
			indegree[next]++
		}
	}

	ready := &readyQueue{less: d.less}
	for id, n := range indegree {
		if n == 0 {
			heap.Push(ready, id)
		}
	}

	order := make([]string, 0, len(indegree))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(string)
		order = append(order, id)
		for next := range adjacency[id] {
			indegree[next]--
			if indegree[next] == 0 {
				heap.Push(ready, next)
			}
		}
	}

	return order, len(order) == len(indegree), nil
}

func (d *DependencyGraph) cycleError() error {
	components, err := graph.StronglyConnectedComponents(d.g)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCycleDetected, err)
	}

	var cycles [][]string
	for _, comp := range components {
		if len(comp) < 2 {
			continue
		}
		sort.Slice(comp, func(i, j int) bool { return d.less(comp[i], comp[j]) })
		cycles = append(cycles, comp)
	}
	sort.Slice(cycles, func(i, j int) bool { return d.less(cycles[i][0], cycles[j][0]) })

	return &CycleError{Cycles: cycles}
}

// readyQueue is a min-heap of node identities.
type readyQueue struct {
	ids  []string
	less func(a, b string) bool
}

func (q *readyQueue) Len() int           { return len(q.ids) }
func (q *readyQueue) Less(i, j int) bool { return q.less(q.ids[i], q.ids[j]) }
func (q *readyQueue) Swap(i, j int)      { q.ids[i], q.ids[j] = q.ids[j], q.ids[i] }
func (q *readyQueue) Push(x any)         { q.ids = append(q.ids, x.(string)) }

func (q *readyQueue) Pop() any {
	n := len(q.ids)
	id := q.ids[n-1]
	q.ids = q.ids[:n-1]
	return id
}
