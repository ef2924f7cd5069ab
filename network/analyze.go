package network

import (
	"errors"
	"sort"

	"go.uber.org/zap"
)

// defaultBetweennessMaxNodes caps the graph size for betweenness
// centrality, which is too expensive on large networks.
const defaultBetweennessMaxNodes = 1000

// Analyzer computes the structural measures of a built network. Every
// measure with a precondition degrades gracefully: betweenness is
// skipped on large graphs, closeness falls back to the largest
// component, eigenvector centrality is omitted when the power iteration
// does not converge. None of these conditions is an error to callers.
type Analyzer struct {
	Logger *zap.Logger

	// BetweennessMaxNodes is the node count above which betweenness
	// centrality is skipped.
	BetweennessMaxNodes int
}

// NewAnalyzer creates an Analyzer with the default betweenness cutoff.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return &Analyzer{Logger: logger, BetweennessMaxNodes: defaultBetweennessMaxNodes}
}

// CentralityResult collects the centrality maps. A nil map means the
// measure was skipped or omitted for this graph.
type CentralityResult struct {
	Degree      map[string]float64 `json:"degree"`
	Betweenness map[string]float64 `json:"betweenness,omitempty"`
	Closeness   map[string]float64 `json:"closeness,omitempty"`
	Eigenvector map[string]float64 `json:"eigenvector,omitempty"`
}

// Centrality computes degree centrality always and the remaining
// measures when their preconditions hold.
func (a *Analyzer) Centrality(g *Graph) *CentralityResult {
	result := &CentralityResult{Degree: DegreeCentrality(g)}

	if g.NumNodes() < a.BetweennessMaxNodes {
		result.Betweenness = BetweennessCentrality(g)
	} else {
		a.Logger.Info("Skipping betweenness centrality on large graph",
			zap.Int("nodes", g.NumNodes()),
			zap.Int("max_nodes", a.BetweennessMaxNodes))
	}

	if g.IsConnected() {
		result.Closeness = ClosenessCentrality(g)
	} else {
		// Closeness is only meaningful within one component; nodes
		// outside the largest component are absent from the map.
		largest := g.LargestComponent()
		a.Logger.Info("Graph disconnected, computing closeness on largest component",
			zap.Int("component_nodes", largest.NumNodes()),
			zap.Int("total_nodes", g.NumNodes()))
		result.Closeness = ClosenessCentrality(largest)
	}

	eigen, err := EigenvectorCentrality(g, 1000, 1e-6)
	if err != nil {
		if errors.Is(err, ErrNoConvergence) {
			a.Logger.Warn("Eigenvector centrality did not converge, omitting measure")
		}
	} else {
		result.Eigenvector = eigen
	}

	return result
}

// Analysis is the structural summary of one network.
type Analysis struct {
	Nodes      int               `json:"nodes"`
	Edges      int               `json:"edges"`
	Density    float64           `json:"density"`
	AvgDegree  float64           `json:"avg_degree"`
	Centrality *CentralityResult `json:"centrality"`
}

// Analyze summarizes a network: size, density, average degree and the
// centrality measures.
func (a *Analyzer) Analyze(g *Graph) *Analysis {
	analysis := &Analysis{
		Nodes:   g.NumNodes(),
		Edges:   g.NumEdges(),
		Density: g.Density(),
	}
	if n := g.NumNodes(); n > 0 {
		var degreeSum int
		for _, id := range g.NodeIDs() {
			degreeSum += g.Degree(id)
		}
		analysis.AvgDegree = float64(degreeSum) / float64(n)
	}
	analysis.Centrality = a.Centrality(g)
	return analysis
}

// InterdisciplinaryFaculty is one instructor teaching across multiple
// departments.
type InterdisciplinaryFaculty struct {
	Faculty        string   `json:"faculty"`
	Departments    []string `json:"departments"`
	NumDepartments int      `json:"num_departments"`
	NumCourses     int      `json:"num_courses"`
}

// Interdisciplinary finds faculty nodes of a bipartite network whose
// course neighbors span more than one department, sorted by department
// count descending with name as the tie break so identical input always
// yields the same order.
func (a *Analyzer) Interdisciplinary(g *Graph) []InterdisciplinaryFaculty {
	var result []InterdisciplinaryFaculty
	for _, n := range g.Nodes() {
		if n.Kind != KindFaculty {
			continue
		}
		courses := g.Neighbors(n.ID)
		depts := make(map[string]bool)
		for _, c := range courses {
			course, ok := g.Node(c)
			if !ok || course.Department == "" {
				continue
			}
			depts[course.Department] = true
		}
		if len(depts) <= 1 {
			continue
		}

		names := make([]string, 0, len(depts))
		for d := range depts {
			names = append(names, d)
		}
		sort.Strings(names)
		result = append(result, InterdisciplinaryFaculty{
			Faculty:        n.Name,
			Departments:    names,
			NumDepartments: len(names),
			NumCourses:     len(courses),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].NumDepartments != result[j].NumDepartments {
			return result[i].NumDepartments > result[j].NumDepartments
		}
		return result[i].Faculty < result[j].Faculty
	})

	a.Logger.Info("Interdisciplinary teaching identified",
		zap.Int("faculty", len(result)))
	return result
}
