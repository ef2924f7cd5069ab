package ingest

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestContextFromFilename(t *testing.T) {
	cases := []struct {
		name string
		term string
		year int
		ok   bool
	}{
		{"fall_2019.csv", "fall", 2019, true},
		{"Spring-2004_sections.txt", "spring", 2004, true},
		{"summer2010.csv", "summer", 2010, true},
		{"winter 1998 export.txt", "winter", 1998, true},
		{"enrollment.csv", "", 0, false},
		{"fall_only.csv", "", 0, false},
	}
	for _, tc := range cases {
		ctx, ok := ContextFromFilename(tc.name)
		if ok != tc.ok {
			t.Errorf("ContextFromFilename(%q) ok = %v, expected %v", tc.name, ok, tc.ok)
			continue
		}
		if ok && (ctx.Term != tc.term || ctx.Year != tc.year) {
			t.Errorf("ContextFromFilename(%q) = %s %d, expected %s %d",
				tc.name, ctx.Term, ctx.Year, tc.term, tc.year)
		}
	}
}

func TestParse_CommaDelimited(t *testing.T) {
	src := strings.Join([]string{
		"Dept,#,Sec,Title,Instructor,Enrollment,Cap",
		"CS,101,A,Intro,\"Smith, John\",30,40",
		"MATH,201,B,Calculus,Jones,25,35",
	}, "\n")

	reader := NewReader(zap.NewNop())
	result, err := reader.Parse(strings.NewReader(src), "fall_2019.csv", FileContext{Term: "fall", Year: 2019})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if result.Format != FormatOld {
		t.Errorf("Expected old format, got %s", result.Format)
	}
	if len(result.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(result.Records))
	}
	if result.Records[0].Instructor != "Smith, John" {
		t.Errorf("Quoted instructor mangled: %q", result.Records[0].Instructor)
	}
	if result.Records[1].Department != "MATH" {
		t.Errorf("Second record department = %q", result.Records[1].Department)
	}
}

func TestParse_TabDelimited(t *testing.T) {
	src := "Dept\t#\tTitle\n" +
		"CS\t101\tIntro\n"

	reader := NewReader(zap.NewNop())
	result, err := reader.Parse(strings.NewReader(src), "spring_2001.txt", FileContext{Term: "spring", Year: 2001})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Records))
	}
	if result.Records[0].CourseNumber != "101" {
		t.Errorf("CourseNumber = %q", result.Records[0].CourseNumber)
	}
}

func TestParse_MalformedRowsDroppedNotFatal(t *testing.T) {
	src := strings.Join([]string{
		"Dept,#,Sec,Title,Instructor,Enrollment,Cap",
		"CS,101,A,Intro,Smith,30,40",
		",,,Orphan,Smith,30,40", // missing identity, dropped
		"CS,102",                // short row, dropped
		",,,,,,",                // fully blank, silently skipped
		"CS,103,B,Algo,Jones,20,30",
	}, "\n")

	reader := NewReader(zap.NewNop())
	result, err := reader.Parse(strings.NewReader(src), "fall_2019.csv", FileContext{Term: "fall", Year: 2019})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Records) != 2 {
		t.Errorf("Expected 2 good records, got %d", len(result.Records))
	}
	if result.Dropped != 2 {
		t.Errorf("Expected 2 dropped rows, got %d", result.Dropped)
	}
}

func TestParse_UnusableHeaderRejected(t *testing.T) {
	src := "Title,Instructor\nIntro,Smith\n"
	reader := NewReader(zap.NewNop())
	_, err := reader.Parse(strings.NewReader(src), "fall_2019.csv", FileContext{Term: "fall", Year: 2019})
	if err == nil {
		t.Error("Expected error for header without course identity columns")
	}
}
