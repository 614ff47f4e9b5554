package domain

// RVP is a regional vice president allowed to approve CARE submissions.
type RVP struct {
	Email  string `json:"email" gorm:"primaryKey"`
	Name   string `json:"name"`
	Region string `json:"region" gorm:"index"`
}

func (RVP) TableName() string { return "rvps" }
