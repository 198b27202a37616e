package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleMerchant UserRole = "MERCHANT"
)

// User represents an authenticated account. BusinessName, FirstName and LastName
// are captured at signup and pre-fill the onboarding wizard.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	BusinessName string    `json:"businessName,omitempty"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterInput represents input for email/password signup
type RegisterInput struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	BusinessName string `json:"businessName" binding:"required,min=2,max=255"`
	FirstName    string `json:"firstName" binding:"required,max=100"`
	LastName     string `json:"lastName" binding:"required,max=100"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	UseSession bool   `json:"useSession"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	User         *User  `json:"user"`
}

// SessionContext is what every authenticated screen needs: the user, and the
// merchant profile and subscription when they exist.
type SessionContext struct {
	User         *User            `json:"user"`
	Profile      *MerchantProfile `json:"profile"`
	Subscription *Subscription    `json:"subscription"`
	Onboarded    bool             `json:"onboarded"`
}
