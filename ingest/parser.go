package ingest

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"enroll-net/models"
)

// FileContext carries the term and year a source file covers. The files
// themselves have no reliable term column, so both always come from the
// file name.
type FileContext struct {
	Term string
	Year int
}

var (
	// ErrShortRow marks a row with fewer cells than the mapping needs.
	ErrShortRow = errors.New("row shorter than mapped columns")
	// ErrMissingIdentity marks a row without department or course number.
	ErrMissingIdentity = errors.New("row missing department or course number")
)

// ParseRow turns one raw row into a canonical record. Rows that cannot
// identify a course are rejected; everything else is cleaned best-effort
// and unparseable numbers become nil rather than errors.
func ParseRow(fields []string, cm ColumnMap, ctx FileContext) (*models.Record, error) {
	for _, idx := range cm {
		if idx >= len(fields) {
			return nil, ErrShortRow
		}
	}

	rec := &models.Record{
		Department:   cleanString(cell(fields, cm, FieldDepartment)),
		CourseNumber: cleanString(cell(fields, cm, FieldCourseNumber)),
		Section:      cleanString(cell(fields, cm, FieldSection)),
		Title:        cleanString(cell(fields, cm, FieldTitle)),
		Instructor:   cleanString(cell(fields, cm, FieldInstructor)),
		Enrollment:   parseCount(cell(fields, cm, FieldEnrollment)),
		Capacity:     parseCount(cell(fields, cm, FieldCapacity)),
		CRN:          cleanString(cell(fields, cm, FieldCRN)),
		Term:         ctx.Term,
		Year:         ctx.Year,

		NetID:      cleanString(cell(fields, cm, FieldNetID)),
		Email:      cleanString(cell(fields, cm, FieldEmail)),
		PartOfTerm: cleanString(cell(fields, cm, FieldPartOfTerm)),
		Attributes: cleanString(cell(fields, cm, FieldAttributes)),
		CollCode:   cleanString(cell(fields, cm, FieldCollCode)),
		TrueMax:    parseCount(cell(fields, cm, FieldTrueMax)),
		GPInd:      cleanString(cell(fields, cm, FieldGPInd)),
		Fees:       cleanString(cell(fields, cm, FieldFees)),
		XListings:  cleanString(cell(fields, cm, FieldXListings)),
		Waitlist:   parseCount(cell(fields, cm, FieldWaitlist)),
	}

	if rec.Department == "" || rec.CourseNumber == "" {
		return nil, ErrMissingIdentity
	}
	return rec, nil
}

// cell returns the raw value of a mapped field, or "" when the field has
// no column in this file.
func cell(fields []string, cm ColumnMap, f Field) string {
	idx, ok := cm[f]
	if !ok {
		return ""
	}
	return fields[idx]
}

// cleanString trims whitespace and surrounding double quotes. Older
// exports quote inconsistently, so the trim runs on both sides of the
// quote strip.
func cleanString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}

// parseCount extracts an integer from a cell that may carry stray
// characters ("45*", " 45 seats"). Every non-digit rune is stripped
// first; a cell without digits yields nil.
func parseCount(s string) *int {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return nil
	}
	return &n
}
