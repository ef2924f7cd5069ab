package network

import (
	"sort"
)

// Community is one detected group of nodes.
type Community struct {
	ID    int      `json:"id"`
	Nodes []string `json:"nodes"`
	Size  int      `json:"size"`
}

// CommunityResult is the outcome of community detection.
type CommunityResult struct {
	Communities   []Community    `json:"communities"`
	NodeCommunity map[string]int `json:"node_community"`
	Modularity    float64        `json:"modularity"`
}

// minGain is the modularity improvement below which building another
// aggregation level is not worth it.
const minGain = 1e-7

// DetectCommunities partitions the graph with the Louvain method:
// greedy local moves until no single move improves modularity, then the
// communities are collapsed into an aggregate graph and the process
// repeats. Weights count, resolution is fixed at 1, and directed graphs
// are coerced to undirected first. Nodes are swept in sorted ID order so
// the partition is reproducible; community IDs are renumbered 0..k-1 by
// first appearance.
func DetectCommunities(g *Graph) *CommunityResult {
	if g.IsDirected() {
		g = g.ToUndirected()
	}

	ids := g.NodeIDs()
	result := &CommunityResult{NodeCommunity: make(map[string]int, len(ids))}
	if len(ids) == 0 {
		return result
	}

	// The algorithm runs on integer indices; index order is sorted ID
	// order, which fixes the sweep order.
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	adj := make([]map[int]float64, len(ids))
	for i := range adj {
		adj[i] = make(map[int]float64)
	}
	for _, u := range ids {
		for _, v := range g.Neighbors(u) {
			e, _ := g.EdgeBetween(u, v)
			adj[index[u]][index[v]] = e.Weight
		}
	}

	assignment := bestPartition(adj)

	for i, id := range ids {
		result.NodeCommunity[id] = assignment[i]
	}
	result.Modularity = partitionModularity(assignment, adj, totalWeight(adj))

	grouped := make(map[int][]string)
	for _, id := range ids {
		com := result.NodeCommunity[id]
		grouped[com] = append(grouped[com], id)
	}
	comIDs := make([]int, 0, len(grouped))
	for com := range grouped {
		comIDs = append(comIDs, com)
	}
	sort.Ints(comIDs)
	for _, com := range comIDs {
		result.Communities = append(result.Communities, Community{
			ID:    com,
			Nodes: grouped[com],
			Size:  len(grouped[com]),
		})
	}
	return result
}

// bestPartition runs the full Louvain dendrogram and composes the
// levels into a node-to-community assignment.
func bestPartition(adj []map[int]float64) []int {
	m := totalWeight(adj)
	if m == 0 {
		// Without edges modularity is undefined; every node keeps its
		// own community.
		trivial := make([]int, len(adj))
		for i := range trivial {
			trivial[i] = i
		}
		return trivial
	}

	levels := make([][]int, 0, 4)
	current := adj

	partition := renumber(louvainOneLevel(current, m))
	levels = append(levels, partition)
	mod := partitionModularity(partition, current, m)
	current = inducedGraph(partition, current)

	for {
		levelWeight := totalWeight(current)
		next := renumber(louvainOneLevel(current, levelWeight))
		nextMod := partitionModularity(next, current, levelWeight)
		if nextMod-mod < minGain {
			break
		}
		levels = append(levels, next)
		mod = nextMod
		current = inducedGraph(next, current)
	}

	assignment := make([]int, len(levels[0]))
	copy(assignment, levels[0])
	for _, level := range levels[1:] {
		for i := range assignment {
			assignment[i] = level[assignment[i]]
		}
	}
	return assignment
}

// louvainOneLevel performs greedy local moves until no node can improve
// modularity by switching to a neighboring community.
func louvainOneLevel(adj []map[int]float64, m float64) []int {
	n := len(adj)
	node2com := make([]int, n)
	for i := range node2com {
		node2com[i] = i
	}

	deg := nodeDegrees(adj)
	loops := make([]float64, n)
	for i := range adj {
		loops[i] = adj[i][i]
	}

	// comDegree tracks the summed weighted degree per community.
	comDegree := make([]float64, n)
	copy(comDegree, deg)

	modified := true
	for modified {
		modified = false
		for node := 0; node < n; node++ {
			com := node2com[node]
			degcTotw := deg[node] / (2 * m)

			// Weight towards each neighboring community, self-loops
			// excluded.
			neighWeights := make(map[int]float64)
			for v, w := range adj[node] {
				if v == node {
					continue
				}
				neighWeights[node2com[v]] += w
			}

			removeCost := -neighWeights[com] + (comDegree[com]-deg[node])*degcTotw
			comDegree[com] -= deg[node]
			node2com[node] = -1

			bestCom := com
			bestGain := 0.0
			for _, candidate := range sortedComs(neighWeights) {
				gain := removeCost + neighWeights[candidate] - comDegree[candidate]*degcTotw
				if gain > bestGain {
					bestGain = gain
					bestCom = candidate
				}
			}

			node2com[node] = bestCom
			comDegree[bestCom] += deg[node]
			if bestCom != com {
				modified = true
			}
		}
	}
	return node2com
}

// inducedGraph collapses communities into single nodes, summing edge
// weights; intra-community edges become self-loops.
func inducedGraph(partition []int, adj []map[int]float64) []map[int]float64 {
	numComs := 0
	for _, com := range partition {
		if com+1 > numComs {
			numComs = com + 1
		}
	}
	ret := make([]map[int]float64, numComs)
	for i := range ret {
		ret[i] = make(map[int]float64)
	}
	for u, nbrs := range adj {
		for v, w := range nbrs {
			if v < u {
				continue
			}
			c1, c2 := partition[u], partition[v]
			ret[c1][c2] += w
			if c1 != c2 {
				ret[c2][c1] += w
			}
		}
	}
	return ret
}

// partitionModularity computes Q for an assignment over a weighted
// adjacency with total edge weight m.
func partitionModularity(partition []int, adj []map[int]float64, m float64) float64 {
	if m == 0 {
		return 0
	}
	internal := make(map[int]float64)
	degree := make(map[int]float64)
	for u, nbrs := range adj {
		com := partition[u]
		for v, w := range nbrs {
			degree[com] += w
			if v == u {
				degree[com] += w
			}
			if partition[v] != com {
				continue
			}
			// Count each internal edge once, self-loops included.
			if v >= u {
				internal[com] += w
			}
		}
	}
	var q float64
	for com, d := range degree {
		share := d / (2 * m)
		q += internal[com]/m - share*share
	}
	return q
}

// totalWeight sums every edge weight once (self-loops included once).
func totalWeight(adj []map[int]float64) float64 {
	var total float64
	for u, nbrs := range adj {
		for v, w := range nbrs {
			if v >= u {
				total += w
			}
		}
	}
	return total
}

// nodeDegrees returns the weighted degree of every node; a self-loop
// contributes twice.
func nodeDegrees(adj []map[int]float64) []float64 {
	deg := make([]float64, len(adj))
	for u, nbrs := range adj {
		for v, w := range nbrs {
			deg[u] += w
			if v == u {
				deg[u] += w
			}
		}
	}
	return deg
}

// renumber maps community labels to 0..k-1 in order of first appearance.
func renumber(node2com []int) []int {
	next := 0
	mapping := make(map[int]int)
	out := make([]int, len(node2com))
	for i, com := range node2com {
		id, ok := mapping[com]
		if !ok {
			id = next
			mapping[com] = id
			next++
		}
		out[i] = id
	}
	return out
}

func sortedComs(weights map[int]float64) []int {
	coms := make([]int, 0, len(weights))
	for com := range weights {
		coms = append(coms, com)
	}
	sort.Ints(coms)
	return coms
}
