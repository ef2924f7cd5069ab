package ingest

import (
	"strings"
)

// Format identifies the schema era of a source file. The registrar
// changed the export layout twice over the archive's thirty years, so
// every file is classified before its columns are mapped.
type Format string

const (
	FormatOld    Format = "old"
	FormatMiddle Format = "middle"
	FormatNew    Format = "new"
)

// DetectFormat classifies a header row. The rules are checked in
// precedence order; when none applies the middle era is assumed and ok
// is false so the caller can log a warning. Detection never fails hard,
// an unknown layout just degrades to the most permissive mapping.
func DetectFormat(header []string) (Format, bool) {
	var hasPtrm, hasCollCode, hasNetID, hasContact, hasDept bool
	for _, h := range header {
		col := strings.ToLower(strings.TrimSpace(h))
		if col == "ptrm" {
			hasPtrm = true
		}
		if strings.Contains(col, "coll code") {
			hasCollCode = true
		}
		if strings.Contains(col, "netid") {
			hasNetID = true
		}
		if strings.Contains(col, "netid") || strings.Contains(col, "email") {
			hasContact = true
		}
		if strings.Contains(col, "dept") {
			hasDept = true
		}
	}

	switch {
	case hasPtrm && hasCollCode && len(header) >= 24:
		return FormatNew, true
	case hasContact:
		return FormatMiddle, true
	case hasDept && !hasNetID:
		return FormatOld, true
	}
	return FormatMiddle, false
}
