package network

import (
	"container/heap"
	"container/list"
	"errors"
	"math"
	"sort"
)

// ErrNoConvergence is returned when eigenvector centrality's power
// iteration does not settle within the iteration budget.
var ErrNoConvergence = errors.New("eigenvector centrality failed to converge")

// DegreeCentrality returns degree/(N-1) for every node. Graphs with a
// single node score it 1.
func DegreeCentrality(g *Graph) map[string]float64 {
	result := make(map[string]float64, g.NumNodes())
	n := g.NumNodes()
	if n <= 1 {
		for _, id := range g.NodeIDs() {
			result[id] = 1
		}
		return result
	}
	scale := 1.0 / float64(n-1)
	for _, id := range g.NodeIDs() {
		result[id] = float64(g.Degree(id)) * scale
	}
	return result
}

// distItem is a priority queue entry for Dijkstra traversals.
type distItem struct {
	id   string
	dist float64
}

type distQueue []distItem

func (q distQueue) Len() int            { return len(q) }
func (q distQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q distQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x interface{}) { *q = append(*q, x.(distItem)) }
func (q *distQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// BetweennessCentrality computes normalized betweenness with edge
// weights treated as distances (Brandes' algorithm with Dijkstra
// traversal). The result is scaled by 1/((N-1)(N-2)) for N > 2.
func BetweennessCentrality(g *Graph) map[string]float64 {
	ids := g.NodeIDs()
	betweenness := make(map[string]float64, len(ids))
	for _, id := range ids {
		betweenness[id] = 0
	}

	for _, source := range ids {
		// Dijkstra from source, tracking path counts and predecessors.
		var stack []string
		preds := make(map[string][]string)
		sigma := map[string]float64{source: 1}
		dist := make(map[string]float64)
		seen := map[string]float64{source: 0}

		pq := &distQueue{{id: source, dist: 0}}
		heap.Init(pq)

		for pq.Len() > 0 {
			item := heap.Pop(pq).(distItem)
			if _, done := dist[item.id]; done {
				continue
			}
			dist[item.id] = item.dist
			stack = append(stack, item.id)

			for _, next := range g.Neighbors(item.id) {
				if _, done := dist[next]; done {
					continue
				}
				e, _ := g.EdgeBetween(item.id, next)
				alt := item.dist + e.Weight
				old, visited := seen[next]
				switch {
				case !visited || alt < old:
					seen[next] = alt
					heap.Push(pq, distItem{id: next, dist: alt})
					sigma[next] = sigma[item.id]
					preds[next] = []string{item.id}
				case alt == old:
					sigma[next] += sigma[item.id]
					preds[next] = append(preds[next], item.id)
				}
			}
		}

		// Back-propagate dependencies in reverse finish order.
		delta := make(map[string]float64)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	n := len(ids)
	if n > 2 {
		scale := 1.0 / float64((n-1)*(n-2))
		for id := range betweenness {
			betweenness[id] *= scale
		}
	}
	return betweenness
}

// ClosenessCentrality computes hop-count closeness for every node,
// scaled by the reachable share of the graph so values stay comparable
// on disconnected graphs.
func ClosenessCentrality(g *Graph) map[string]float64 {
	n := g.NumNodes()
	result := make(map[string]float64, n)
	for _, id := range g.NodeIDs() {
		total, reached := bfsDistanceSum(g, id)
		if total > 0 && n > 1 {
			closeness := float64(reached-1) / float64(total)
			closeness *= float64(reached-1) / float64(n-1)
			result[id] = closeness
		} else {
			result[id] = 0
		}
	}
	return result
}

// bfsDistanceSum returns the sum of hop distances from source to every
// reachable node and the reachable count (source included).
func bfsDistanceSum(g *Graph, source string) (int, int) {
	distances := map[string]int{source: 0}
	queue := list.New()
	queue.PushBack(source)

	total := 0
	for queue.Len() > 0 {
		current := queue.Remove(queue.Front()).(string)
		for _, next := range g.Neighbors(current) {
			if _, ok := distances[next]; ok {
				continue
			}
			distances[next] = distances[current] + 1
			total += distances[next]
			queue.PushBack(next)
		}
	}
	return total, len(distances)
}

// EigenvectorCentrality computes weighted eigenvector centrality by
// power iteration, normalizing by the Euclidean norm each step. The
// iteration converges when the summed per-node change drops below
// N*tol; hitting maxIter first returns ErrNoConvergence.
func EigenvectorCentrality(g *Graph, maxIter int, tol float64) (map[string]float64, error) {
	ids := g.NodeIDs()
	n := len(ids)
	if n == 0 {
		return map[string]float64{}, nil
	}

	x := make(map[string]float64, n)
	for _, id := range ids {
		x[id] = 1.0 / float64(n)
	}

	for iter := 0; iter < maxIter; iter++ {
		xlast := x
		x = make(map[string]float64, n)
		for id, v := range xlast {
			x[id] = v
		}
		for _, u := range ids {
			for _, v := range g.Neighbors(u) {
				e, _ := g.EdgeBetween(u, v)
				x[v] += xlast[u] * e.Weight
			}
		}

		var sumSquares float64
		for _, v := range x {
			sumSquares += v * v
		}
		norm := math.Sqrt(sumSquares)
		if norm == 0 {
			norm = 1
		}
		var diff float64
		for id := range x {
			x[id] /= norm
			diff += math.Abs(x[id] - xlast[id])
		}
		if diff < float64(n)*tol {
			return x, nil
		}
	}
	return nil, ErrNoConvergence
}

// RankedNode pairs a node with a score for top-N listings.
type RankedNode struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// TopByScore returns the n highest-scoring nodes, ties broken by ID so
// the ranking is stable.
func TopByScore(scores map[string]float64, n int) []RankedNode {
	ranked := make([]RankedNode, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, RankedNode{ID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
