package dto

import "github.com/yigit/eventhub/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"organizer@example.org"`
	Password string `json:"password" binding:"required" example:"Secret123!"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email            string          `json:"email" binding:"required,email" example:"volunteer@example.org"`
	Password         string          `json:"password" binding:"required,min=8" example:"Secret123!"`
	FirstName        string          `json:"firstName" binding:"required,max=100" example:"Ada"`
	LastName         string          `json:"lastName" binding:"required,max=100" example:"Lovelace"`
	RoleType         models.RoleType `json:"roleType" binding:"required,oneof=VOLUNTEER ORGANIZER" example:"VOLUNTEER"`
	OrganizationName *string         `json:"organizationName,omitempty" binding:"omitempty,max=200" example:"Green City NGO"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"86400"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  *models.User  `json:"user"`
	Token TokenResponse `json:"token"`
}
