package domain

// Hierarchy maps a branch to its region, parent branch and branch code.
type Hierarchy struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	Region       string `json:"region" gorm:"index"`
	Branch       string `json:"branch" gorm:"index"`
	ParentBranch string `json:"parent_branch" gorm:"index"`
	BranchCode   string `json:"branch_code"`
}

func (Hierarchy) TableName() string { return "hierarchy" }

// Route assigns a service route to its supervisor.
type Route struct {
	Route      string `json:"route" gorm:"primaryKey"`
	Supervisor string `json:"supervisor"`
}

func (Route) TableName() string { return "routes" }
