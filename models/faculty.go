package models

// Faculty is an instructor. Name is the cleaned display form,
// NormalizedName its lowercased folding used as the identity key, so
// "SMITH, JOHN" and "Smith, John" resolve to one person.
type Faculty struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"not null"`
	NormalizedName string `json:"normalized_name" gorm:"uniqueIndex;not null"`
}

// TableName gives GORM the explicit table name.
func (Faculty) TableName() string {
	return "faculty"
}
