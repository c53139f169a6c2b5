package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccountStatus tracks the farmer onboarding lifecycle.
// Employee accounts are created Active directly.
type AccountStatus string

const (
	StatusPending AccountStatus = "PENDING"
	StatusActive  AccountStatus = "ACTIVE"
)

// User represents a farmer or employee account
type User struct {
	BaseModel
	Email       string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password    string        `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FirstName   string        `gorm:"type:varchar(100);not null" json:"first_name" validate:"required"`
	LastName    string        `gorm:"type:varchar(100);not null" json:"last_name" validate:"required"`
	PhoneNumber string        `gorm:"type:varchar(20)" json:"phone_number"`
	Status      AccountStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	RoleID      *uint         `gorm:"index" json:"role_id"`
	Role        *Role         `gorm:"foreignKey:RoleID" json:"role,omitempty"`

	// Employee who onboarded this account. Nil means self-registered.
	RegisteredByID   *string   `gorm:"type:varchar(255);index" json:"registered_by_id,omitempty"`
	RegistrationDate time.Time `gorm:"not null" json:"registration_date"`
}

// FullName renders the display name used by catalog search
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// RoleCode returns the role code or empty string when no role was granted
func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID               uuid.UUID     `json:"id"`
	Email            string        `json:"email"`
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	PhoneNumber      string        `json:"phone_number"`
	Status           AccountStatus `json:"status"`
	Role             *Role         `json:"role,omitempty"`
	RegisteredByID   *string       `json:"registered_by_id,omitempty"`
	RegistrationDate time.Time     `json:"registration_date"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		PhoneNumber:      u.PhoneNumber,
		Status:           u.Status,
		Role:             u.Role,
		RegisteredByID:   u.RegisteredByID,
		RegistrationDate: u.RegistrationDate,
	}
}
