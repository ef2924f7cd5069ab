package network

import (
	"sort"
)

// NodeKind distinguishes the two sides of the teaching network.
type NodeKind string

const (
	KindCourse  NodeKind = "course"
	KindFaculty NodeKind = "faculty"
)

// Node is one vertex with its attributes. The struct is flat; the
// course fields stay empty on faculty nodes and vice versa.
type Node struct {
	ID         string   `json:"id"`
	Kind       NodeKind `json:"type,omitempty"`
	Bipartite  int      `json:"bipartite"`
	Code       string   `json:"code,omitempty"`
	Title      string   `json:"title,omitempty"`
	Department string   `json:"dept,omitempty"`
	Name       string   `json:"name,omitempty"`
}

// Edge carries the attributes of one edge. Year and Term record the
// first teaching occurrence only; Courses and SharedFaculty are the
// projection lists of the derived networks.
type Edge struct {
	Weight        float64  `json:"weight"`
	Year          int      `json:"year,omitempty"`
	Term          string   `json:"term,omitempty"`
	Courses       []string `json:"courses,omitempty"`
	SharedFaculty []string `json:"shared_faculty,omitempty"`
}

// Graph is an in-memory weighted graph. Networks are ephemeral, rebuilt
// from the store for every analysis, so nothing here persists. The same
// *Edge is reachable from both endpoints of an undirected edge.
type Graph struct {
	directed  bool
	nodes     map[string]*Node
	adj       map[string]map[string]*Edge
	edgeCount int
}

// NewGraph creates an empty undirected graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		adj:   make(map[string]map[string]*Edge),
	}
}

// NewDirectedGraph creates an empty directed graph.
func NewDirectedGraph() *Graph {
	g := NewGraph()
	g.directed = true
	return g
}

// IsDirected reports whether edges have a direction.
func (g *Graph) IsDirected() bool {
	return g.directed
}

// AddNode inserts a node unless the ID already exists; the first
// insertion's attributes win.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.nodes[n.ID]; ok {
		return
	}
	node := n
	g.nodes[n.ID] = &node
	g.adj[n.ID] = make(map[string]*Edge)
}

// Node returns the node for an ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether the ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeIDs returns every node ID in sorted order. Using a stable order
// everywhere keeps analysis output reproducible across runs.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nodes returns every node, sorted by ID.
func (g *Graph) Nodes() []*Node {
	ids := g.NodeIDs()
	nodes := make([]*Node, len(ids))
	for i, id := range ids {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the edge count; an undirected edge counts once.
func (g *Graph) NumEdges() int {
	return g.edgeCount
}

// EnsureEdge returns the edge from u to v, creating missing endpoints
// and a zero-weight edge on first use. Callers accumulate weight and
// attributes on the returned pointer.
func (g *Graph) EnsureEdge(u, v string) *Edge {
	if !g.HasNode(u) {
		g.AddNode(Node{ID: u})
	}
	if !g.HasNode(v) {
		g.AddNode(Node{ID: v})
	}
	if e, ok := g.adj[u][v]; ok {
		return e
	}
	e := &Edge{}
	g.adj[u][v] = e
	if !g.directed {
		g.adj[v][u] = e
	}
	g.edgeCount++
	return e
}

// EdgeBetween returns the edge from u to v if present.
func (g *Graph) EdgeBetween(u, v string) (*Edge, bool) {
	e, ok := g.adj[u][v]
	return e, ok
}

// HasEdge reports whether u and v are connected.
func (g *Graph) HasEdge(u, v string) bool {
	_, ok := g.adj[u][v]
	return ok
}

// Neighbors returns the adjacent node IDs of id in sorted order. For
// directed graphs these are the out-neighbors.
func (g *Graph) Neighbors(id string) []string {
	adj, ok := g.adj[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(adj))
	for v := range adj {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Degree returns the number of edges at a node.
func (g *Graph) Degree(id string) int {
	return len(g.adj[id])
}

// WeightedDegree sums the weights of all edges at a node.
func (g *Graph) WeightedDegree(id string) float64 {
	var sum float64
	for _, e := range g.adj[id] {
		sum += e.Weight
	}
	return sum
}

// EdgeRef is one edge with its endpoints, for iteration and export.
type EdgeRef struct {
	Source string
	Target string
	Edge   *Edge
}

// Edges returns every edge once, ordered by source then target ID. For
// undirected graphs the lexicographically smaller endpoint is the
// source.
func (g *Graph) Edges() []EdgeRef {
	var edges []EdgeRef
	for _, u := range g.NodeIDs() {
		for _, v := range g.Neighbors(u) {
			if !g.directed && v < u {
				continue
			}
			e, _ := g.EdgeBetween(u, v)
			edges = append(edges, EdgeRef{Source: u, Target: v, Edge: e})
		}
	}
	return edges
}

// Density returns 2E/(N(N-1)) for undirected graphs, E/(N(N-1)) for
// directed ones, and 0 for graphs with fewer than two nodes or no
// edges.
func (g *Graph) Density() float64 {
	n := len(g.nodes)
	m := g.edgeCount
	if n <= 1 || m == 0 {
		return 0
	}
	d := float64(m) / (float64(n) * float64(n-1))
	if !g.directed {
		d *= 2
	}
	return d
}

// ConnectedComponents returns the components as sorted ID slices,
// largest first. Edge direction is ignored.
func (g *Graph) ConnectedComponents() [][]string {
	undirected := g
	if g.directed {
		undirected = g.ToUndirected()
	}

	visited := make(map[string]bool, len(undirected.nodes))
	var components [][]string
	for _, start := range undirected.NodeIDs() {
		if visited[start] {
			continue
		}
		var component []string
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, current)
			for _, next := range undirected.Neighbors(current) {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Strings(component)
		components = append(components, component)
	}

	sort.Slice(components, func(i, j int) bool {
		if len(components[i]) != len(components[j]) {
			return len(components[i]) > len(components[j])
		}
		return components[i][0] < components[j][0]
	})
	return components
}

// IsConnected reports whether every node is reachable from every other.
// Empty and single-node graphs count as connected.
func (g *Graph) IsConnected() bool {
	return len(g.nodes) <= 1 || len(g.ConnectedComponents()) == 1
}

// Subgraph returns the induced subgraph over the given IDs. Edge
// attributes are copied, not shared.
func (g *Graph) Subgraph(ids []string) *Graph {
	sub := NewGraph()
	sub.directed = g.directed
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		if n, ok := g.nodes[id]; ok {
			keep[id] = true
			sub.AddNode(*n)
		}
	}
	for id := range keep {
		for v, e := range g.adj[id] {
			if !keep[v] {
				continue
			}
			if sub.HasEdge(id, v) {
				continue
			}
			copied := *e
			*sub.EnsureEdge(id, v) = copied
		}
	}
	return sub
}

// LargestComponent returns the induced subgraph of the biggest
// connected component.
func (g *Graph) LargestComponent() *Graph {
	components := g.ConnectedComponents()
	if len(components) == 0 {
		return NewGraph()
	}
	return g.Subgraph(components[0])
}

// ToUndirected returns an undirected copy. When both directions of a
// pair carry attributes, the direction visited later wins.
func (g *Graph) ToUndirected() *Graph {
	if !g.directed {
		return g
	}
	u := NewGraph()
	for _, n := range g.Nodes() {
		u.AddNode(*n)
	}
	for _, from := range g.NodeIDs() {
		for _, to := range g.Neighbors(from) {
			e, _ := g.EdgeBetween(from, to)
			copied := *e
			*u.EnsureEdge(from, to) = copied
		}
	}
	return u
}
