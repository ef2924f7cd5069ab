package ingest

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDetectFormat_NewEra(t *testing.T) {
	header := []string{
		"Subj", "#", "Title", "Comp Numb", "Sec", "Ptrm", "Attr", "Coll Code",
		"Max Enrollment", "True Max", "Current Enrollment", "Instructor",
		"NetId", "Email", "GP Ind", "Fees", "XListings", "Wait",
		"c19", "c20", "c21", "c22", "c23", "c24",
	}
	format, known := DetectFormat(header)
	if format != FormatNew {
		t.Errorf("Expected new format, got %s", format)
	}
	if !known {
		t.Error("Expected header to be recognized")
	}
}

func TestDetectFormat_NewEraNeedsWidth(t *testing.T) {
	// ptrm and coll code present but fewer than 24 columns: the netid
	// rule takes over.
	header := []string{"Subj", "#", "Ptrm", "Coll Code", "NetId"}
	format, known := DetectFormat(header)
	if format != FormatMiddle {
		t.Errorf("Expected middle format for narrow header, got %s", format)
	}
	if !known {
		t.Error("Expected header to be recognized")
	}
}

func TestDetectFormat_MiddleEra(t *testing.T) {
	for _, header := range [][]string{
		{"Subj", "#", "Title", "NetId", "Instructor"},
		{"Subj", "#", "Title", "Email", "Instructor"},
	} {
		format, known := DetectFormat(header)
		if format != FormatMiddle {
			t.Errorf("Expected middle format for %v, got %s", header, format)
		}
		if !known {
			t.Errorf("Expected header %v to be recognized", header)
		}
	}
}

func TestDetectFormat_OldEra(t *testing.T) {
	header := []string{"Dept", "#", "Title", "Instructor", "Enrollment"}
	format, known := DetectFormat(header)
	if format != FormatOld {
		t.Errorf("Expected old format, got %s", format)
	}
	if !known {
		t.Error("Expected header to be recognized")
	}
}

func TestDetectFormat_UnknownDefaultsToMiddle(t *testing.T) {
	header := []string{"Alpha", "Beta", "Gamma"}
	format, known := DetectFormat(header)
	if format != FormatMiddle {
		t.Errorf("Expected middle fallback, got %s", format)
	}
	if known {
		t.Error("Expected unknown header to report ok=false")
	}
}

func TestDetectFormat_CaseInsensitive(t *testing.T) {
	header := []string{"DEPT", "#", "TITLE"}
	format, _ := DetectFormat(header)
	if format != FormatOld {
		t.Errorf("Expected old format for uppercased header, got %s", format)
	}
}

// TestDetectFormat_NewEraProperty verifies that any header carrying a
// ptrm column, a coll code column and at least 24 columns in total is
// classified as the new era, whatever else it contains.
func TestDetectFormat_NewEraProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("ptrm + coll code + width implies new era", prop.ForAll(
		func(filler []string, ptrmPos uint8) bool {
			header := []string{"Ptrm", "Coll Code"}
			header = append(header, filler...)
			for len(header) < 24 {
				header = append(header, "padding")
			}
			// Rotate so ptrm does not always sit first.
			offset := int(ptrmPos) % len(header)
			rotated := append(append([]string{}, header[offset:]...), header[:offset]...)

			format, known := DetectFormat(rotated)
			return format == FormatNew && known
		},
		gen.SliceOf(gen.AlphaString()),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
