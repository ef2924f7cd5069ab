package network

import (
	"math"
	"testing"
)

// setupStarGraph builds a star with center "hub" and n leaves.
func setupStarGraph(t *testing.T, n int) *Graph {
	t.Helper()
	g := NewGraph()
	for i := 0; i < n; i++ {
		leaf := string(rune('a' + i))
		g.EnsureEdge("hub", leaf).Weight = 1
	}
	return g
}

func TestDegreeCentrality_LinearChain(t *testing.T) {
	g := NewGraph()
	g.EnsureEdge("a", "b").Weight = 1
	g.EnsureEdge("b", "c").Weight = 1

	result := DegreeCentrality(g)
	if math.Abs(result["b"]-1.0) > 1e-9 {
		t.Errorf("Middle node centrality = %f, expected 1.0", result["b"])
	}
	if math.Abs(result["a"]-0.5) > 1e-9 {
		t.Errorf("End node centrality = %f, expected 0.5", result["a"])
	}
}

func TestDegreeCentrality_SingleNode(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: "a"})
	result := DegreeCentrality(g)
	if result["a"] != 1 {
		t.Errorf("Single node centrality = %f, expected 1", result["a"])
	}
}

func TestBetweennessCentrality_Star(t *testing.T) {
	g := setupStarGraph(t, 4)
	result := BetweennessCentrality(g)

	// Every shortest path between leaves runs through the hub: with 4
	// leaves there are 6 leaf pairs, normalized by (n-1)(n-2) = 12 for
	// an undirected graph counted in both directions.
	if math.Abs(result["hub"]-1.0) > 1e-9 {
		t.Errorf("Hub betweenness = %f, expected 1.0", result["hub"])
	}
	if result["a"] != 0 {
		t.Errorf("Leaf betweenness = %f, expected 0", result["a"])
	}
}

func TestBetweennessCentrality_WeightsAreDistances(t *testing.T) {
	// Two routes from a to c: direct with weight 10, via b with total
	// weight 2. The shortest path runs through b, so b scores.
	g := NewGraph()
	g.EnsureEdge("a", "c").Weight = 10
	g.EnsureEdge("a", "b").Weight = 1
	g.EnsureEdge("b", "c").Weight = 1

	result := BetweennessCentrality(g)
	if result["b"] == 0 {
		t.Error("Expected positive betweenness for the cheap-route node")
	}
}

func TestClosenessCentrality_Chain(t *testing.T) {
	g := NewGraph()
	g.EnsureEdge("a", "b").Weight = 1
	g.EnsureEdge("b", "c").Weight = 1

	result := ClosenessCentrality(g)
	// b reaches both others in one hop: closeness 2/2 = 1.
	if math.Abs(result["b"]-1.0) > 1e-9 {
		t.Errorf("Middle closeness = %f, expected 1.0", result["b"])
	}
	// a reaches b at 1 and c at 2: closeness 2/3.
	if math.Abs(result["a"]-2.0/3.0) > 1e-9 {
		t.Errorf("End closeness = %f, expected 2/3", result["a"])
	}
}

func TestClosenessCentrality_IsolatedNode(t *testing.T) {
	g := NewGraph()
	g.EnsureEdge("a", "b").Weight = 1
	g.AddNode(Node{ID: "z"})

	result := ClosenessCentrality(g)
	if result["z"] != 0 {
		t.Errorf("Isolated node closeness = %f, expected 0", result["z"])
	}
}

func TestEigenvectorCentrality_Star(t *testing.T) {
	g := setupStarGraph(t, 3)

	result, err := EigenvectorCentrality(g, 1000, 1e-6)
	if err != nil {
		t.Fatalf("EigenvectorCentrality failed: %v", err)
	}

	if result["hub"] <= result["a"] {
		t.Errorf("Hub (%f) must outscore leaves (%f)", result["hub"], result["a"])
	}
	for _, leaf := range []string{"a", "b", "c"} {
		if math.Abs(result[leaf]-result["a"]) > 1e-6 {
			t.Errorf("Leaves must score equally, got %f vs %f", result[leaf], result["a"])
		}
	}
}

func TestEigenvectorCentrality_NoConvergence(t *testing.T) {
	g := NewGraph()
	g.EnsureEdge("a", "b").Weight = 1

	// One iteration cannot settle a bipartite pair.
	_, err := EigenvectorCentrality(g, 1, 0)
	if err == nil {
		t.Error("Expected ErrNoConvergence with an exhausted iteration budget")
	}
}

func TestEigenvectorCentrality_EmptyGraph(t *testing.T) {
	result, err := EigenvectorCentrality(NewGraph(), 100, 1e-6)
	if err != nil {
		t.Fatalf("EigenvectorCentrality failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Expected empty result, got %d entries", len(result))
	}
}

func TestTopByScore(t *testing.T) {
	scores := map[string]float64{"a": 0.5, "b": 0.9, "c": 0.5, "d": 0.1}
	top := TopByScore(scores, 3)

	if len(top) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(top))
	}
	if top[0].ID != "b" {
		t.Errorf("Top entry = %s, expected b", top[0].ID)
	}
	// Equal scores break ties by ID.
	if top[1].ID != "a" || top[2].ID != "c" {
		t.Errorf("Tie break wrong: %v", top)
	}
}
