package network

import (
	"math"
	"testing"
)

func TestDensity_DegenerateGraphs(t *testing.T) {
	empty := NewGraph()
	if d := empty.Density(); d != 0 {
		t.Errorf("Empty graph density = %f, expected 0", d)
	}

	single := NewGraph()
	single.AddNode(Node{ID: "a"})
	if d := single.Density(); d != 0 {
		t.Errorf("Single-node graph density = %f, expected 0", d)
	}
}

func TestDensity_CompleteTriangle(t *testing.T) {
	g := NewGraph()
	g.EnsureEdge("a", "b")
	g.EnsureEdge("b", "c")
	g.EnsureEdge("a", "c")

	if d := g.Density(); math.Abs(d-1.0) > 1e-9 {
		t.Errorf("Triangle density = %f, expected 1", d)
	}
}

func TestEnsureEdge_SharedAcrossEndpoints(t *testing.T) {
	g := NewGraph()
	e := g.EnsureEdge("a", "b")
	e.Weight = 3

	back, ok := g.EdgeBetween("b", "a")
	if !ok {
		t.Fatal("Undirected edge missing in reverse direction")
	}
	if back.Weight != 3 {
		t.Errorf("Reverse edge weight = %f, expected 3 (same edge)", back.Weight)
	}
	if g.NumEdges() != 1 {
		t.Errorf("Edge count = %d, expected 1", g.NumEdges())
	}

	// Re-ensuring returns the same edge.
	again := g.EnsureEdge("a", "b")
	if again != e {
		t.Error("EnsureEdge created a duplicate edge")
	}
}

func TestAddNode_FirstAttributesWin(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "a", Name: "first"})
	g.AddNode(Node{ID: "a", Name: "second"})

	n, _ := g.Node("a")
	if n.Name != "first" {
		t.Errorf("Node name = %q, expected first insertion to win", n.Name)
	}
	if g.NumNodes() != 1 {
		t.Errorf("Node count = %d, expected 1", g.NumNodes())
	}
}

func TestConnectedComponents(t *testing.T) {
	g := NewGraph()
	g.EnsureEdge("a", "b")
	g.EnsureEdge("b", "c")
	g.EnsureEdge("x", "y")
	g.AddNode(Node{ID: "lonely"})

	components := g.ConnectedComponents()
	if len(components) != 3 {
		t.Fatalf("Expected 3 components, got %d", len(components))
	}
	// Largest first.
	if len(components[0]) != 3 {
		t.Errorf("Largest component size = %d, expected 3", len(components[0]))
	}
	if components[0][0] != "a" {
		t.Errorf("Component not sorted: %v", components[0])
	}

	if g.IsConnected() {
		t.Error("Disconnected graph reported connected")
	}
}

func TestLargestComponent(t *testing.T) {
	g := NewGraph()
	g.EnsureEdge("a", "b").Weight = 2
	g.EnsureEdge("b", "c")
	g.EnsureEdge("x", "y")

	sub := g.LargestComponent()
	if sub.NumNodes() != 3 {
		t.Errorf("Largest component nodes = %d, expected 3", sub.NumNodes())
	}
	if sub.HasNode("x") {
		t.Error("Largest component must not contain the smaller one")
	}
	e, ok := sub.EdgeBetween("a", "b")
	if !ok || e.Weight != 2 {
		t.Error("Edge attributes not carried into the subgraph")
	}

	// The subgraph copies edges; mutating it leaves the original alone.
	e.Weight = 99
	orig, _ := g.EdgeBetween("a", "b")
	if orig.Weight != 2 {
		t.Error("Subgraph mutation leaked into the source graph")
	}
}

func TestWeightedDegree(t *testing.T) {
	g := NewGraph()
	g.EnsureEdge("a", "b").Weight = 2
	g.EnsureEdge("a", "c").Weight = 3.5

	if wd := g.WeightedDegree("a"); math.Abs(wd-5.5) > 1e-9 {
		t.Errorf("WeightedDegree(a) = %f, expected 5.5", wd)
	}
	if d := g.Degree("a"); d != 2 {
		t.Errorf("Degree(a) = %d, expected 2", d)
	}
}

func TestEdges_EachEdgeOnce(t *testing.T) {
	g := NewGraph()
	g.EnsureEdge("b", "a")
	g.EnsureEdge("b", "c")

	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(edges))
	}
	for _, ref := range edges {
		if ref.Source > ref.Target {
			t.Errorf("Edge %s-%s not ordered by endpoint", ref.Source, ref.Target)
		}
	}
}

func TestToUndirected(t *testing.T) {
	g := NewDirectedGraph()
	g.EnsureEdge("a", "b").Weight = 2
	g.EnsureEdge("b", "a").Weight = 4

	u := g.ToUndirected()
	if u.IsDirected() {
		t.Error("ToUndirected returned a directed graph")
	}
	if u.NumEdges() != 1 {
		t.Errorf("Expected 1 undirected edge, got %d", u.NumEdges())
	}
}
