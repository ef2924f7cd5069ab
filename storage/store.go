package storage

import (
	"database/sql"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"enroll-net/config"
	"enroll-net/models"
)

// Store wraps the relational database behind the loader, the network
// builders and the query API. All upserts are idempotent, loading the
// same archive twice leaves the row counts unchanged.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to the configured database and migrates the schema.
// sqlite is the default driver; postgres is selected via DB_DRIVER.
// Callers treat an error here as fatal.
func Open(cfg *config.Config, log *zap.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Department{},
		&models.Course{},
		&models.Faculty{},
		&models.CourseOffering{},
		&models.TeachingAssignment{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	log.Info("Database ready", zap.String("driver", cfg.DBDriver))
	return &Store{db: db, logger: log}, nil
}

// DB exposes the underlying handle for simple ad-hoc queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// UpsertDepartment inserts a department or returns the existing one.
// The first load of a code wins; later names do not overwrite.
func (s *Store) UpsertDepartment(code, name string) (*models.Department, error) {
	dept := models.Department{Code: code, Name: name}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&dept)
	if res.Error != nil {
		return nil, fmt.Errorf("upsert department %s: %w", code, res.Error)
	}
	if dept.ID == 0 {
		if err := s.db.Where("code = ?", code).First(&dept).Error; err != nil {
			return nil, fmt.Errorf("read department %s: %w", code, err)
		}
	}
	return &dept, nil
}

// UpsertCourse inserts a course or returns the existing one, keyed by
// its full code.
func (s *Store) UpsertCourse(departmentID uint, number, title, fullCode string) (*models.Course, error) {
	course := models.Course{
		DepartmentID: departmentID,
		CourseNumber: number,
		Title:        title,
		FullCode:     fullCode,
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "full_code"}},
		DoNothing: true,
	}).Create(&course)
	if res.Error != nil {
		return nil, fmt.Errorf("upsert course %s: %w", fullCode, res.Error)
	}
	if course.ID == 0 {
		if err := s.db.Where("full_code = ?", fullCode).First(&course).Error; err != nil {
			return nil, fmt.Errorf("read course %s: %w", fullCode, err)
		}
	}
	return &course, nil
}

// UpsertFaculty inserts an instructor or returns the existing one, keyed
// by the normalized name.
func (s *Store) UpsertFaculty(name, normalized string) (*models.Faculty, error) {
	fac := models.Faculty{Name: name, NormalizedName: normalized}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "normalized_name"}},
		DoNothing: true,
	}).Create(&fac)
	if res.Error != nil {
		return nil, fmt.Errorf("upsert faculty %s: %w", name, res.Error)
	}
	if fac.ID == 0 {
		if err := s.db.Where("normalized_name = ?", normalized).First(&fac).Error; err != nil {
			return nil, fmt.Errorf("read faculty %s: %w", name, err)
		}
	}
	return &fac, nil
}

// UpsertOffering inserts one section of a course in a term. When the
// offering already exists its enrollment figures are refreshed, the
// archive's later exports carry corrected counts.
func (s *Store) UpsertOffering(o *models.CourseOffering) (*models.CourseOffering, error) {
	res := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "course_id"}, {Name: "term"}, {Name: "year"}, {Name: "section"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"crn", "enrollment", "capacity", "waitlist", "updated_at"}),
	}).Create(o)
	if res.Error != nil {
		return nil, fmt.Errorf("upsert offering %s %d sec %s: %w", o.Term, o.Year, o.Section, res.Error)
	}
	if o.ID == 0 {
		var existing models.CourseOffering
		err := s.db.Where("course_id = ? AND term = ? AND year = ? AND section = ?",
			o.CourseID, o.Term, o.Year, o.Section).First(&existing).Error
		if err != nil {
			return nil, fmt.Errorf("read offering %s %d sec %s: %w", o.Term, o.Year, o.Section, err)
		}
		*o = existing
	}
	return o, nil
}

// UpsertAssignment links a faculty member to an offering exactly once.
func (s *Store) UpsertAssignment(offeringID, facultyID uint, isPrimary bool) (*models.TeachingAssignment, error) {
	ta := models.TeachingAssignment{OfferingID: offeringID, FacultyID: facultyID, IsPrimary: isPrimary}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "offering_id"}, {Name: "faculty_id"}},
		DoNothing: true,
	}).Create(&ta)
	if res.Error != nil {
		return nil, fmt.Errorf("upsert assignment: %w", res.Error)
	}
	if ta.ID == 0 {
		err := s.db.Where("offering_id = ? AND faculty_id = ?", offeringID, facultyID).First(&ta).Error
		if err != nil {
			return nil, fmt.Errorf("read assignment: %w", err)
		}
	}
	return &ta, nil
}

// TeachingRow is one row of the offering/course/faculty join feeding the
// network builders. FacultyName is empty for offerings without an
// assignment (the join keeps them so course nodes still appear).
type TeachingRow struct {
	FullCode    string `json:"full_code"`
	Title       string `json:"title"`
	Department  string `json:"department"`
	FacultyName string `json:"faculty_name"`
	Term        string `json:"term"`
	Year        int    `json:"year"`
	Enrollment  *int   `json:"enrollment,omitempty"`
}

// CourseFacultyJoin returns every offering joined with its course,
// department and instructors, optionally bounded by an inclusive year
// range. Ordering by year, term and code keeps first-seen edge
// attributes stable across runs.
func (s *Store) CourseFacultyJoin(startYear, endYear *int) ([]TeachingRow, error) {
	q := s.db.Table("course_offerings AS o").
		Select("c.full_code, c.title, d.code AS department, f.name AS faculty_name, o.term, o.year, o.enrollment").
		Joins("JOIN courses c ON c.id = o.course_id").
		Joins("JOIN departments d ON d.id = c.department_id").
		Joins("LEFT JOIN teaching_assignments ta ON ta.offering_id = o.id").
		Joins("LEFT JOIN faculty f ON f.id = ta.faculty_id")
	if startYear != nil {
		q = q.Where("o.year >= ?", *startYear)
	}
	if endYear != nil {
		q = q.Where("o.year <= ?", *endYear)
	}

	var rows []TeachingRow
	if err := q.Order("o.year, o.term, c.full_code").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("course faculty join: %w", err)
	}
	return rows, nil
}

// Stats summarizes the loaded archive.
type Stats struct {
	Departments int64 `json:"departments"`
	Courses     int64 `json:"courses"`
	Faculty     int64 `json:"faculty"`
	Offerings   int64 `json:"offerings"`
	Assignments int64 `json:"assignments"`
	FirstYear   int   `json:"first_year"`
	LastYear    int   `json:"last_year"`
}

// Statistics counts every entity and the covered year range. An empty
// store reports a zero year range.
func (s *Store) Statistics() (*Stats, error) {
	var st Stats
	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.Department{}, &st.Departments},
		{&models.Course{}, &st.Courses},
		{&models.Faculty{}, &st.Faculty},
		{&models.CourseOffering{}, &st.Offerings},
		{&models.TeachingAssignment{}, &st.Assignments},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	var first, last sql.NullInt64
	row := s.db.Model(&models.CourseOffering{}).
		Select("MIN(year), MAX(year)").Row()
	if err := row.Scan(&first, &last); err != nil {
		return nil, fmt.Errorf("year range: %w", err)
	}
	if first.Valid {
		st.FirstYear = int(first.Int64)
		st.LastYear = int(last.Int64)
	}
	return &st, nil
}

// ListDepartments returns all departments ordered by code.
func (s *Store) ListDepartments() ([]models.Department, error) {
	var depts []models.Department
	if err := s.db.Order("code").Find(&depts).Error; err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return depts, nil
}

// DepartmentStats summarizes one department's footprint in the archive.
type DepartmentStats struct {
	Code      string `json:"code"`
	Courses   int64  `json:"courses"`
	Offerings int64  `json:"offerings"`
	Faculty   int64  `json:"faculty"`
	FirstYear int    `json:"first_year"`
	LastYear  int    `json:"last_year"`
}

// DepartmentStatistics reports course, offering and instructor counts
// for a department code.
func (s *Store) DepartmentStatistics(code string) (*DepartmentStats, error) {
	var dept models.Department
	if err := s.db.Where("code = ?", code).First(&dept).Error; err != nil {
		return nil, err
	}

	st := DepartmentStats{Code: dept.Code}
	if err := s.db.Model(&models.Course{}).
		Where("department_id = ?", dept.ID).
		Count(&st.Courses).Error; err != nil {
		return nil, fmt.Errorf("department courses: %w", err)
	}
	if err := s.db.Table("course_offerings AS o").
		Joins("JOIN courses c ON c.id = o.course_id").
		Where("c.department_id = ?", dept.ID).
		Count(&st.Offerings).Error; err != nil {
		return nil, fmt.Errorf("department offerings: %w", err)
	}
	if err := s.db.Table("teaching_assignments AS ta").
		Joins("JOIN course_offerings o ON o.id = ta.offering_id").
		Joins("JOIN courses c ON c.id = o.course_id").
		Where("c.department_id = ?", dept.ID).
		Distinct("ta.faculty_id").
		Count(&st.Faculty).Error; err != nil {
		return nil, fmt.Errorf("department faculty: %w", err)
	}

	var first, last sql.NullInt64
	row := s.db.Table("course_offerings AS o").
		Joins("JOIN courses c ON c.id = o.course_id").
		Where("c.department_id = ?", dept.ID).
		Select("MIN(o.year), MAX(o.year)").Row()
	if err := row.Scan(&first, &last); err != nil {
		return nil, fmt.Errorf("department year range: %w", err)
	}
	if first.Valid {
		st.FirstYear = int(first.Int64)
		st.LastYear = int(last.Int64)
	}
	return &st, nil
}

// FacultySummary is a search hit with the person's teaching footprint.
type FacultySummary struct {
	Name        string   `json:"name"`
	CourseCount int      `json:"course_count"`
	Departments []string `json:"departments"`
}

// SearchFaculty finds instructors whose name matches the pattern
// (case-insensitive substring) and aggregates their distinct courses and
// departments.
func (s *Store) SearchFaculty(pattern string) ([]FacultySummary, error) {
	type hit struct {
		Name       string
		FullCode   string
		Department string
	}
	var hits []hit
	err := s.db.Table("faculty AS f").
		Select("f.name, c.full_code, d.code AS department").
		Joins("JOIN teaching_assignments ta ON ta.faculty_id = f.id").
		Joins("JOIN course_offerings o ON o.id = ta.offering_id").
		Joins("JOIN courses c ON c.id = o.course_id").
		Joins("JOIN departments d ON d.id = c.department_id").
		Where("lower(f.name) LIKE lower(?)", "%"+pattern+"%").
		Scan(&hits).Error
	if err != nil {
		return nil, fmt.Errorf("search faculty: %w", err)
	}

	courses := make(map[string]map[string]bool)
	depts := make(map[string]map[string]bool)
	for _, h := range hits {
		if courses[h.Name] == nil {
			courses[h.Name] = make(map[string]bool)
			depts[h.Name] = make(map[string]bool)
		}
		courses[h.Name][h.FullCode] = true
		depts[h.Name][h.Department] = true
	}

	var out []FacultySummary
	for name, cs := range courses {
		var ds []string
		for d := range depts[name] {
			ds = append(ds, d)
		}
		sort.Strings(ds)
		out = append(out, FacultySummary{Name: name, CourseCount: len(cs), Departments: ds})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CourseCount != out[j].CourseCount {
			return out[i].CourseCount > out[j].CourseCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// FacultyCourses returns the full teaching history of one instructor.
func (s *Store) FacultyCourses(name string) ([]TeachingRow, error) {
	var rows []TeachingRow
	err := s.db.Table("faculty AS f").
		Select("c.full_code, c.title, d.code AS department, f.name AS faculty_name, o.term, o.year, o.enrollment").
		Joins("JOIN teaching_assignments ta ON ta.faculty_id = f.id").
		Joins("JOIN course_offerings o ON o.id = ta.offering_id").
		Joins("JOIN courses c ON c.id = o.course_id").
		Joins("JOIN departments d ON d.id = c.department_id").
		Where("lower(f.name) = lower(?)", name).
		Order("o.year, o.term, c.full_code").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("faculty courses: %w", err)
	}
	return rows, nil
}

// CourseSummary is a course search hit.
type CourseSummary struct {
	FullCode   string `json:"full_code"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Offerings  int64  `json:"offerings"`
}

// SearchCourses finds courses by code or title substring.
func (s *Store) SearchCourses(pattern string) ([]CourseSummary, error) {
	var out []CourseSummary
	err := s.db.Table("courses AS c").
		Select("c.full_code, c.title, d.code AS department, COUNT(o.id) AS offerings").
		Joins("JOIN departments d ON d.id = c.department_id").
		Joins("LEFT JOIN course_offerings o ON o.course_id = c.id").
		Where("lower(c.full_code) LIKE lower(?) OR lower(c.title) LIKE lower(?)",
			"%"+pattern+"%", "%"+pattern+"%").
		Group("c.id, c.full_code, c.title, d.code").
		Order("c.full_code").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return out, nil
}

// InstructorRow is one teaching stint of a course.
type InstructorRow struct {
	Name      string `json:"name"`
	Term      string `json:"term"`
	Year      int    `json:"year"`
	IsPrimary bool   `json:"is_primary"`
}

// CourseInstructors lists everyone who taught a course, in
// chronological order.
func (s *Store) CourseInstructors(fullCode string) ([]InstructorRow, error) {
	var rows []InstructorRow
	err := s.db.Table("courses AS c").
		Select("f.name, o.term, o.year, ta.is_primary").
		Joins("JOIN course_offerings o ON o.course_id = c.id").
		Joins("JOIN teaching_assignments ta ON ta.offering_id = o.id").
		Joins("JOIN faculty f ON f.id = ta.faculty_id").
		Where("c.full_code = ?", fullCode).
		Order("o.year, o.term, f.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("course instructors: %w", err)
	}
	return rows, nil
}
