package model

// Role represents user roles in the system
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // FARMER, EMPLOYEE
	Name        string `gorm:"type:varchar(100)" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Role codes as constants
const (
	RoleFarmer   = "FARMER"
	RoleEmployee = "EMPLOYEE"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleFarmer,
		Name:        "Farmer",
		Description: "Lists and manages own products on the marketplace",
	},
	{
		Code:        RoleEmployee,
		Name:        "Employee",
		Description: "Onboards farmer accounts and browses the full catalog",
	},
}
