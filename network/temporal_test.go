package network

import (
	"testing"

	"enroll-net/storage"
)

func TestPeriods(t *testing.T) {
	periods := Periods(1995, 2008, 5)
	expected := []Period{
		{Start: 1995, End: 1999},
		{Start: 2000, End: 2004},
		{Start: 2005, End: 2008}, // clipped
	}
	if len(periods) != len(expected) {
		t.Fatalf("Expected %d periods, got %d: %v", len(expected), len(periods), periods)
	}
	for i, p := range periods {
		if p != expected[i] {
			t.Errorf("Period %d = %v, expected %v", i, p, expected[i])
		}
	}
}

func TestPeriods_SingleYear(t *testing.T) {
	periods := Periods(2020, 2020, 5)
	if len(periods) != 1 || periods[0] != (Period{Start: 2020, End: 2020}) {
		t.Errorf("Periods(2020, 2020) = %v", periods)
	}
}

func TestTemporalEvolution_WindowStats(t *testing.T) {
	builder := testBuilder([]storage.TeachingRow{
		{FullCode: "CS 101", Department: "CS", FacultyName: "Smith", Term: "fall", Year: 1996},
		{FullCode: "CS 102", Department: "CS", FacultyName: "Smith", Term: "fall", Year: 2001},
		{FullCode: "MATH 201", Department: "MATH", FacultyName: "Jones", Term: "fall", Year: 2002},
	})

	stats, err := builder.TemporalEvolution(Periods(1995, 2004, 5))
	if err != nil {
		t.Fatalf("TemporalEvolution failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 windows, got %d", len(stats))
	}

	first := stats[0]
	if first.Period != "1995-1999" {
		t.Errorf("First period = %s", first.Period)
	}
	if first.CourseCount != 1 || first.FacultyCount != 1 {
		t.Errorf("First window counts: courses=%d faculty=%d", first.CourseCount, first.FacultyCount)
	}

	second := stats[1]
	if second.CourseCount != 2 || second.FacultyCount != 2 {
		t.Errorf("Second window counts: courses=%d faculty=%d", second.CourseCount, second.FacultyCount)
	}
}

// TestTemporalEvolution_FacultySuperadditivity: instructors recur
// across windows, so summed per-window faculty counts are at least the
// distinct count over the union window, never less.
func TestTemporalEvolution_FacultySuperadditivity(t *testing.T) {
	rows := []storage.TeachingRow{
		{FullCode: "CS 101", Department: "CS", FacultyName: "Smith", Term: "fall", Year: 1996},
		{FullCode: "CS 101", Department: "CS", FacultyName: "Smith", Term: "fall", Year: 2001},
		{FullCode: "CS 102", Department: "CS", FacultyName: "Jones", Term: "fall", Year: 1997},
		{FullCode: "MATH 201", Department: "MATH", FacultyName: "Lee", Term: "fall", Year: 2003},
	}
	builder := testBuilder(rows)

	stats, err := builder.TemporalEvolution(Periods(1995, 2004, 5))
	if err != nil {
		t.Fatalf("TemporalEvolution failed: %v", err)
	}

	var windowSum int
	for _, s := range stats {
		windowSum += s.FacultyCount
	}

	union, err := builder.BuildBipartite(nil, nil)
	if err != nil {
		t.Fatalf("BuildBipartite failed: %v", err)
	}
	var distinct int
	for _, n := range union.Nodes() {
		if n.Kind == KindFaculty {
			distinct++
		}
	}

	if windowSum < distinct {
		t.Errorf("Window faculty sum %d < distinct union count %d", windowSum, distinct)
	}
}

func TestTemporalEvolution_EmptyWindow(t *testing.T) {
	builder := testBuilder(nil)
	stats, err := builder.TemporalEvolution([]Period{{Start: 2000, End: 2004}})
	if err != nil {
		t.Fatalf("TemporalEvolution failed: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("Expected 1 window, got %d", len(stats))
	}
	if stats[0].Nodes != 0 || stats[0].Density != 0 || stats[0].AvgDegree != 0 {
		t.Errorf("Empty window stats not zero: %+v", stats[0])
	}
}
