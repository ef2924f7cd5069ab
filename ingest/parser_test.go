package ingest

import (
	"errors"
	"testing"
)

func testColumnMap() ColumnMap {
	return ColumnMap{
		FieldDepartment:   0,
		FieldCourseNumber: 1,
		FieldSection:      2,
		FieldTitle:        3,
		FieldInstructor:   4,
		FieldEnrollment:   5,
		FieldCapacity:     6,
	}
}

func TestParseRow_Basic(t *testing.T) {
	fields := []string{"CS", "101", "A", `"Intro to CS"`, "Smith, John", "42", "50"}
	rec, err := ParseRow(fields, testColumnMap(), FileContext{Term: "fall", Year: 2019})
	if err != nil {
		t.Fatalf("ParseRow failed: %v", err)
	}

	if rec.Department != "CS" {
		t.Errorf("Department = %q", rec.Department)
	}
	if rec.CourseNumber != "101" {
		t.Errorf("CourseNumber = %q", rec.CourseNumber)
	}
	if rec.Title != "Intro to CS" {
		t.Errorf("Quotes not stripped from title: %q", rec.Title)
	}
	if rec.Enrollment == nil || *rec.Enrollment != 42 {
		t.Errorf("Enrollment = %v", rec.Enrollment)
	}
	if rec.Capacity == nil || *rec.Capacity != 50 {
		t.Errorf("Capacity = %v", rec.Capacity)
	}
	if rec.Term != "fall" || rec.Year != 2019 {
		t.Errorf("File context not applied: term=%q year=%d", rec.Term, rec.Year)
	}
}

func TestParseRow_ShortRowDropped(t *testing.T) {
	fields := []string{"CS", "101", "A"}
	_, err := ParseRow(fields, testColumnMap(), FileContext{Term: "fall", Year: 2019})
	if !errors.Is(err, ErrShortRow) {
		t.Errorf("Expected ErrShortRow, got %v", err)
	}
}

func TestParseRow_MissingIdentityDropped(t *testing.T) {
	fields := []string{"", "101", "A", "Title", "Smith", "1", "2"}
	_, err := ParseRow(fields, testColumnMap(), FileContext{Term: "fall", Year: 2019})
	if !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("Expected ErrMissingIdentity for empty department, got %v", err)
	}

	fields = []string{"CS", "  ", "A", "Title", "Smith", "1", "2"}
	_, err = ParseRow(fields, testColumnMap(), FileContext{Term: "fall", Year: 2019})
	if !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("Expected ErrMissingIdentity for blank course number, got %v", err)
	}
}

func TestParseRow_NumericCleaning(t *testing.T) {
	cases := []struct {
		raw  string
		want *int
	}{
		{"45", intPtr(45)},
		{" 45 ", intPtr(45)},
		{"45*", intPtr(45)},
		{"45 seats", intPtr(45)},
		{"", nil},
		{"n/a", nil},
		{"--", nil},
	}
	for _, tc := range cases {
		fields := []string{"CS", "101", "A", "T", "I", tc.raw, "0"}
		rec, err := ParseRow(fields, testColumnMap(), FileContext{Term: "fall", Year: 2019})
		if err != nil {
			t.Fatalf("ParseRow(%q) failed: %v", tc.raw, err)
		}
		switch {
		case tc.want == nil && rec.Enrollment != nil:
			t.Errorf("Enrollment(%q) = %d, expected nil", tc.raw, *rec.Enrollment)
		case tc.want != nil && rec.Enrollment == nil:
			t.Errorf("Enrollment(%q) = nil, expected %d", tc.raw, *tc.want)
		case tc.want != nil && *rec.Enrollment != *tc.want:
			t.Errorf("Enrollment(%q) = %d, expected %d", tc.raw, *rec.Enrollment, *tc.want)
		}
	}
}

func TestParseRow_UnmappedFieldsStayEmpty(t *testing.T) {
	fields := []string{"CS", "101", "A", "T", "I", "1", "2"}
	rec, err := ParseRow(fields, testColumnMap(), FileContext{Term: "fall", Year: 2019})
	if err != nil {
		t.Fatalf("ParseRow failed: %v", err)
	}
	if rec.NetID != "" || rec.Email != "" || rec.PartOfTerm != "" {
		t.Error("Unmapped extended fields must stay empty")
	}
	if rec.TrueMax != nil || rec.Waitlist != nil {
		t.Error("Unmapped numeric fields must stay nil")
	}
}

func intPtr(n int) *int {
	return &n
}
