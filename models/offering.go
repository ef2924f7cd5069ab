package models

import (
	"time"
)

// CourseOffering is one section of a course in a specific term and year.
// The identity is (course, term, year, section); enrollment figures are
// refreshed when the same offering is loaded again.
type CourseOffering struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CourseID uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_offering_identity"`
	Term     string `json:"term" gorm:"not null;uniqueIndex:idx_offering_identity"`
	Year     int    `json:"year" gorm:"not null;index;uniqueIndex:idx_offering_identity"`
	Section  string `json:"section" gorm:"not null;default:'01';uniqueIndex:idx_offering_identity"`

	CRN        string `json:"crn,omitempty"`
	Enrollment *int   `json:"enrollment,omitempty"`
	Capacity   *int   `json:"capacity,omitempty"`
	Waitlist   *int   `json:"waitlist,omitempty"`
}

// TableName gives GORM the explicit table name.
func (CourseOffering) TableName() string {
	return "course_offerings"
}
