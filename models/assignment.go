package models

// TeachingAssignment links a faculty member to a course offering.
// IsPrimary marks the first instructor listed for the offering.
type TeachingAssignment struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	OfferingID uint `json:"offering_id" gorm:"not null;uniqueIndex:idx_assignment_identity"`
	FacultyID  uint `json:"faculty_id" gorm:"not null;index;uniqueIndex:idx_assignment_identity"`
	IsPrimary  bool `json:"is_primary"`
}

// TableName gives GORM the explicit table name.
func (TeachingAssignment) TableName() string {
	return "teaching_assignments"
}
