package network

import (
	"fmt"

	"go.uber.org/zap"

	"enroll-net/storage"
)

// JoinSource supplies the course/faculty teaching rows the builders
// consume. *storage.Store satisfies it; tests plug in fixtures.
type JoinSource interface {
	CourseFacultyJoin(startYear, endYear *int) ([]storage.TeachingRow, error)
}

// Builder derives the teaching networks from the relational store. The
// graphs are rebuilt from scratch on every call; nothing is cached
// between requests.
type Builder struct {
	Source JoinSource
	Logger *zap.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(source JoinSource, logger *zap.Logger) *Builder {
	return &Builder{Source: source, Logger: logger}
}

// CourseNodeID returns the graph node ID of a course code.
func CourseNodeID(fullCode string) string {
	return "course_" + fullCode
}

// FacultyNodeID returns the graph node ID of an instructor name.
func FacultyNodeID(name string) string {
	return "faculty_" + name
}

// BuildBipartite constructs the course/faculty bipartite network for an
// optional inclusive year window. Edge weight counts how often the
// faculty member taught the course; the year and term of the first
// occurrence are kept as edge attributes and never updated. Offerings
// without an instructor still contribute their course node.
func (b *Builder) BuildBipartite(startYear, endYear *int) (*Graph, error) {
	rows, err := b.Source.CourseFacultyJoin(startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("build bipartite network: %w", err)
	}

	g := NewGraph()
	for _, row := range rows {
		courseID := CourseNodeID(row.FullCode)
		g.AddNode(Node{
			ID:         courseID,
			Kind:       KindCourse,
			Bipartite:  0,
			Code:       row.FullCode,
			Title:      row.Title,
			Department: row.Department,
		})

		if row.FacultyName == "" {
			continue
		}
		facultyID := FacultyNodeID(row.FacultyName)
		g.AddNode(Node{
			ID:        facultyID,
			Kind:      KindFaculty,
			Bipartite: 1,
			Name:      row.FacultyName,
		})

		existing := g.HasEdge(courseID, facultyID)
		e := g.EnsureEdge(courseID, facultyID)
		e.Weight++
		if !existing {
			e.Year = row.Year
			e.Term = row.Term
		}
	}

	b.Logger.Info("Bipartite network built",
		zap.Int("nodes", g.NumNodes()),
		zap.Int("edges", g.NumEdges()))
	return g, nil
}

// BuildFacultyCollaboration projects the bipartite network onto its
// faculty partition: two instructors are connected when they taught the
// same course, the weight counts shared courses and the Courses edge
// attribute lists them. The pairwise loop is quadratic in the number of
// instructors per course, which stays small in practice.
func (b *Builder) BuildFacultyCollaboration(startYear, endYear *int) (*Graph, error) {
	bipartite, err := b.BuildBipartite(startYear, endYear)
	if err != nil {
		return nil, err
	}

	g := NewGraph()
	for _, n := range bipartite.Nodes() {
		if n.Kind == KindFaculty {
			g.AddNode(*n)
		}
	}

	for _, n := range bipartite.Nodes() {
		if n.Kind != KindCourse {
			continue
		}
		teaching := bipartite.Neighbors(n.ID)
		for i, f1 := range teaching {
			for _, f2 := range teaching[i+1:] {
				e := g.EnsureEdge(f1, f2)
				e.Weight++
				e.Courses = append(e.Courses, n.ID)
			}
		}
	}

	b.Logger.Info("Faculty collaboration network built",
		zap.Int("nodes", g.NumNodes()),
		zap.Int("edges", g.NumEdges()))
	return g, nil
}

// BuildCourseNetwork projects the bipartite network onto its course
// partition: two courses are connected when an instructor taught both,
// with the shared instructors listed on the edge.
func (b *Builder) BuildCourseNetwork(startYear, endYear *int) (*Graph, error) {
	bipartite, err := b.BuildBipartite(startYear, endYear)
	if err != nil {
		return nil, err
	}

	g := NewGraph()
	for _, n := range bipartite.Nodes() {
		if n.Kind == KindCourse {
			g.AddNode(*n)
		}
	}

	for _, n := range bipartite.Nodes() {
		if n.Kind != KindFaculty {
			continue
		}
		taught := bipartite.Neighbors(n.ID)
		for i, c1 := range taught {
			for _, c2 := range taught[i+1:] {
				e := g.EnsureEdge(c1, c2)
				e.Weight++
				e.SharedFaculty = append(e.SharedFaculty, n.ID)
			}
		}
	}

	b.Logger.Info("Course network built",
		zap.Int("nodes", g.NumNodes()),
		zap.Int("edges", g.NumEdges()))
	return g, nil
}
