package models

// Department is an academic unit identified by its subject code.
type Department struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"uniqueIndex;not null"` // e.g. "CS", always uppercase
	Name string `json:"name,omitempty"`
}

// TableName gives GORM the explicit table name.
func (Department) TableName() string {
	return "departments"
}
