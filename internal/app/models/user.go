package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID               int64     `json:"id" db:"id" example:"1"`
	Email            string    `json:"email" db:"email" example:"volunteer@example.org"`
	Password         string    `json:"-" db:"password_hash"`
	FirstName        string    `json:"firstName" db:"first_name" example:"Ada"`
	LastName         string    `json:"lastName" db:"last_name" example:"Lovelace"`
	RoleType         RoleType  `json:"roleType" db:"role_type" example:"VOLUNTEER"`
	OrganizationName *string   `json:"organizationName,omitempty" db:"organization_name" example:"Green City NGO"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}
