package ingest

import (
	"strings"
)

// Field is a canonical record field a source column can be mapped to.
type Field string

const (
	FieldDepartment   Field = "department"
	FieldCourseNumber Field = "course_number"
	FieldSection      Field = "section"
	FieldTitle        Field = "title"
	FieldInstructor   Field = "instructor"
	FieldEnrollment   Field = "enrollment"
	FieldCapacity     Field = "capacity"
	FieldCRN          Field = "crn"
	FieldNetID        Field = "netid"
	FieldEmail        Field = "email"
	FieldPartOfTerm   Field = "ptrm"
	FieldAttributes   Field = "attr"
	FieldCollCode     Field = "coll_code"
	FieldTrueMax      Field = "true_max"
	FieldGPInd        Field = "gp_ind"
	FieldFees         Field = "fees"
	FieldXListings    Field = "xlistings"
	FieldWaitlist     Field = "waitlist"
)

// ColumnMap assigns canonical fields to column indices in a source file.
type ColumnMap map[Field]int

// columnRule matches a normalized header cell by exact name or substring.
// Rules gated to specific eras are skipped for other formats, so a netid
// column in an old-era file stays unmapped.
type columnRule struct {
	field   Field
	exact   []string
	substr  []string
	formats []Format // nil means every era
}

// Rule order matters: "comp numb" must claim its column before the course
// number rules see it, and "true max" before the capacity rules.
var columnRules = []columnRule{
	{field: FieldCRN, exact: []string{"crn"}, substr: []string{"comp numb"}},
	{field: FieldTrueMax, substr: []string{"true max"}, formats: []Format{FormatNew}},
	{field: FieldCapacity, exact: []string{"cap"}, substr: []string{"max enrollment", "maxenr", "capacity"}},
	{field: FieldEnrollment, exact: []string{"enrollment", "enrolled", "enr"}, substr: []string{"current enrollment", "curenr"}},
	{field: FieldDepartment, substr: []string{"subj", "dept"}},
	{field: FieldCourseNumber, exact: []string{"#", "no.", "num"}, substr: []string{"course num"}},
	{field: FieldSection, exact: []string{"sec"}, substr: []string{"section"}},
	{field: FieldTitle, substr: []string{"title"}},
	{field: FieldInstructor, substr: []string{"instr", "faculty", "teacher"}},
	{field: FieldNetID, substr: []string{"netid"}, formats: []Format{FormatMiddle, FormatNew}},
	{field: FieldEmail, substr: []string{"email"}, formats: []Format{FormatMiddle, FormatNew}},
	{field: FieldPartOfTerm, exact: []string{"ptrm"}, formats: []Format{FormatNew}},
	{field: FieldAttributes, exact: []string{"attr"}, formats: []Format{FormatNew}},
	{field: FieldCollCode, substr: []string{"coll code"}, formats: []Format{FormatNew}},
	{field: FieldGPInd, substr: []string{"gp ind"}, formats: []Format{FormatNew}},
	{field: FieldFees, substr: []string{"fees"}, formats: []Format{FormatNew}},
	{field: FieldXListings, substr: []string{"xlist"}, formats: []Format{FormatNew}},
	{field: FieldWaitlist, substr: []string{"wait"}},
}

func (r columnRule) appliesTo(format Format) bool {
	if len(r.formats) == 0 {
		return true
	}
	for _, f := range r.formats {
		if f == format {
			return true
		}
	}
	return false
}

func (r columnRule) matches(col string) bool {
	for _, e := range r.exact {
		if col == e {
			return true
		}
	}
	for _, s := range r.substr {
		if strings.Contains(col, s) {
			return true
		}
	}
	return false
}

// MapColumns builds the field mapping for a header in a single
// left-to-right pass. The first rule matching a column claims it; when
// two columns claim the same field the later column wins because the map
// entry is simply overwritten. Unmatched columns are ignored.
func MapColumns(header []string, format Format) ColumnMap {
	cm := make(ColumnMap)
	for i, h := range header {
		col := strings.ToLower(strings.TrimSpace(h))
		if col == "" {
			continue
		}
		for _, rule := range columnRules {
			if !rule.appliesTo(format) {
				continue
			}
			if rule.matches(col) {
				cm[rule.field] = i
				break
			}
		}
	}
	return cm
}

// Usable reports whether the mapping can yield loadable records. Without
// a department and a course number column every row would be dropped, so
// the whole file is rejected up front.
func (cm ColumnMap) Usable() bool {
	_, hasDept := cm[FieldDepartment]
	_, hasNumber := cm[FieldCourseNumber]
	return hasDept && hasNumber
}
