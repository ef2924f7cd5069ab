package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"enroll-net/network"
	"enroll-net/storage"
)

// ReportService renders the plain-text analysis report combining the
// archive statistics, the full bipartite network and the
// interdisciplinary teaching ranking.
type ReportService struct {
	Store    *storage.Store
	Builder  *network.Builder
	Analyzer *network.Analyzer
	Logger   *zap.Logger
}

// NewReportService creates a ReportService.
func NewReportService(store *storage.Store, builder *network.Builder, analyzer *network.Analyzer, logger *zap.Logger) *ReportService {
	return &ReportService{Store: store, Builder: builder, Analyzer: analyzer, Logger: logger}
}

const reportRule = 80

// Generate builds the report text over the full archive.
func (r *ReportService) Generate() (string, error) {
	r.Logger.Info("Generating analysis report")

	stats, err := r.Store.Statistics()
	if err != nil {
		return "", fmt.Errorf("report statistics: %w", err)
	}

	g, err := r.Builder.BuildBipartite(nil, nil)
	if err != nil {
		return "", fmt.Errorf("report network: %w", err)
	}

	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add(strings.Repeat("=", reportRule))
	add("COURSE AND FACULTY NETWORK ANALYSIS REPORT")
	add(strings.Repeat("=", reportRule))
	add("")

	add("DATABASE STATISTICS")
	add(strings.Repeat("-", reportRule))
	add("Total Departments: %d", stats.Departments)
	add("Total Faculty: %d", stats.Faculty)
	add("Total Courses: %d", stats.Courses)
	add("Total Course Offerings: %d", stats.Offerings)
	add("Total Teaching Assignments: %d", stats.Assignments)
	add("Year Range: %d - %d", stats.FirstYear, stats.LastYear)
	add("")

	add("FULL NETWORK STATISTICS")
	add(strings.Repeat("-", reportRule))
	add("Total Nodes: %d", g.NumNodes())
	add("Total Edges: %d", g.NumEdges())
	add("Network Density: %.4f", g.Density())
	var degreeSum int
	for _, id := range g.NodeIDs() {
		degreeSum += g.Degree(id)
	}
	avgDegree := 0.0
	if g.NumNodes() > 0 {
		avgDegree = float64(degreeSum) / float64(g.NumNodes())
	}
	add("Average Degree: %.2f", avgDegree)
	add("")

	interdisciplinary := r.Analyzer.Interdisciplinary(g)
	add("INTERDISCIPLINARY TEACHING")
	add(strings.Repeat("-", reportRule))
	add("Faculty teaching in multiple departments: %d", len(interdisciplinary))
	add("")
	add("Top 10 most interdisciplinary faculty:")
	top := interdisciplinary
	if len(top) > 10 {
		top = top[:10]
	}
	for i, fac := range top {
		add("%d. %s: %d departments, %d courses", i+1, fac.Faculty, fac.NumDepartments, fac.NumCourses)
		add("   Departments: %s", strings.Join(fac.Departments, ", "))
	}
	add("")

	return strings.Join(lines, "\n"), nil
}

// Write generates the report and saves it under dir, returning the
// file path.
func (r *ReportService) Write(dir string) (string, error) {
	text, err := r.Generate()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, "network_analysis_report.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	r.Logger.Info("Report saved", zap.String("path", path))
	return path, nil
}
