package models

// Course is a catalog entry within a department. FullCode is the
// department code and course number joined by a space ("CS 101") and is
// the stable identity used for lookups and graph node IDs.
type Course struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	DepartmentID uint   `json:"department_id" gorm:"index;not null"`
	CourseNumber string `json:"course_number" gorm:"not null"`
	Title        string `json:"title,omitempty"`
	FullCode     string `json:"full_code" gorm:"uniqueIndex;not null"`
}

// TableName gives GORM the explicit table name.
func (Course) TableName() string {
	return "courses"
}
