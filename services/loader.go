package services

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"enroll-net/models"
	"enroll-net/storage"
)

// LoadService resolves parsed records into the relational entities:
// department, course, offering, faculty and teaching assignment. Every
// per-record failure is logged and counted; a batch never aborts.
type LoadService struct {
	Store  *storage.Store
	Logger *zap.Logger
}

// NewLoadService creates a LoadService.
func NewLoadService(store *storage.Store, logger *zap.Logger) *LoadService {
	return &LoadService{Store: store, Logger: logger}
}

// LoadStats counts the outcome of one batch.
type LoadStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Add merges another batch into the stats.
func (s *LoadStats) Add(other LoadStats) {
	s.Total += other.Total
	s.Successful += other.Successful
	s.Failed += other.Failed
}

// instructorDelimiters in the order they are probed. Only the first
// delimiter present in the raw string is applied, so "Smith, J. & Jones"
// splits on the comma and the ampersand survives inside a part. That
// mirrors how the archive has always been read; changing it would merge
// or split historical faculty identities.
var instructorDelimiters = []string{",", ";", "/", " and ", " & "}

// SplitInstructors breaks a raw instructor cell into individual names.
// An empty cell yields a single empty name so the offering still gets
// a TBA assignment after normalization.
func SplitInstructors(raw string) []string {
	if raw == "" {
		return []string{""}
	}
	for _, delim := range instructorDelimiters {
		if strings.Contains(raw, delim) {
			parts := strings.Split(raw, delim)
			names := make([]string, len(parts))
			for i, p := range parts {
				names[i] = strings.TrimSpace(p)
			}
			return names
		}
	}
	return []string{strings.TrimSpace(raw)}
}

// NormalizeName canonicalizes an instructor name: placeholder values
// collapse to "TBA", unicode is NFKC-folded, whitespace is collapsed and
// the result is title-cased. The lowercase form of this string is the
// faculty identity key.
func NormalizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "", "tba", "staff", "tbd":
		return "TBA"
	}
	folded := norm.NFKC.String(trimmed)
	collapsed := strings.Join(strings.Fields(folded), " ")
	return titleCase(collapsed)
}

// titleCase uppercases every letter that follows a non-letter and
// lowercases the rest, so "o'brien, sean" becomes "O'Brien, Sean".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

// LoadRecords resolves and stores a batch of records. Progress is logged
// every 100 records; the returned stats always add up to the batch size.
func (l *LoadService) LoadRecords(records []models.Record) LoadStats {
	stats := LoadStats{Total: len(records)}
	for i := range records {
		if err := l.loadRecord(&records[i]); err != nil {
			stats.Failed++
			l.Logger.Warn("Failed to load record",
				zap.Int("index", i),
				zap.String("course", records[i].Department+" "+records[i].CourseNumber),
				zap.Error(err))
			continue
		}
		stats.Successful++
		if (i+1)%100 == 0 {
			l.Logger.Info("Loading progress",
				zap.Int("processed", i+1),
				zap.Int("total", stats.Total))
		}
	}
	l.Logger.Info("Loading complete",
		zap.Int("total", stats.Total),
		zap.Int("successful", stats.Successful),
		zap.Int("failed", stats.Failed))
	return stats
}

func (l *LoadService) loadRecord(rec *models.Record) error {
	deptCode := strings.ToUpper(strings.TrimSpace(rec.Department))
	number := strings.TrimSpace(rec.CourseNumber)
	if deptCode == "" || number == "" || rec.Term == "" || rec.Year == 0 {
		return fmt.Errorf("incomplete record: dept=%q number=%q term=%q year=%d",
			rec.Department, rec.CourseNumber, rec.Term, rec.Year)
	}

	dept, err := l.Store.UpsertDepartment(deptCode, "")
	if err != nil {
		return err
	}

	fullCode := deptCode + " " + number
	course, err := l.Store.UpsertCourse(dept.ID, number, rec.Title, fullCode)
	if err != nil {
		return err
	}

	section := rec.Section
	if section == "" {
		section = "01"
	}
	offering := &models.CourseOffering{
		CourseID:   course.ID,
		Term:       rec.Term,
		Year:       rec.Year,
		Section:    section,
		CRN:        rec.CRN,
		Enrollment: rec.Enrollment,
		Capacity:   rec.Capacity,
		Waitlist:   rec.Waitlist,
	}
	offering, err = l.Store.UpsertOffering(offering)
	if err != nil {
		return err
	}

	for i, name := range SplitInstructors(rec.Instructor) {
		display := NormalizeName(name)
		fac, err := l.Store.UpsertFaculty(display, strings.ToLower(display))
		if err != nil {
			return err
		}
		if _, err := l.Store.UpsertAssignment(offering.ID, fac.ID, i == 0); err != nil {
			return err
		}
	}
	return nil
}
