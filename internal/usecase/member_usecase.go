// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"membership/internal/domain/entity"
)

// --- Input DTOs ---

// LoginInput defines the data required for a member to log in.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Output DTOs ---

// RegisteredMember is the sanitized record returned after sign-up.
type RegisteredMember struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	County    string `json:"county"`
}

// MemberProfile is the sanitized record returned after a successful login.
type MemberProfile struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	County    string  `json:"county"`
	Role      *string `json:"role"`
}

// MemberView is one row of the admin listing. It never carries the password hash.
type MemberView struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IDNumber  string    `json:"id_number"`
	County    string    `json:"county"`
	Role      *string   `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterOutput returns the newly created member's basic information.
type RegisterOutput struct {
	User *RegisteredMember
}

// LoginOutput returns the authenticated member's profile.
type LoginOutput struct {
	User *MemberProfile
}

// RegistrationUsecase signs up new members.
type RegistrationUsecase interface {
	// Register validates a raw JSON payload, hashes the password and stores the member.
	// Errors are domain AppErrors: validation (400), already registered (409) or internal (500).
	Register(ctx context.Context, payload map[string]any) (*RegisterOutput, error)
}

// AuthenticationUsecase verifies member credentials.
type AuthenticationUsecase interface {
	// Login never reveals whether the email exists: unknown email and wrong password
	// produce the same error.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
}

// DirectoryUsecase serves the admin listing.
type DirectoryUsecase interface {
	// List returns every member, newest first.
	List(ctx context.Context) ([]*MemberView, error)
}

// NewRegisteredMember maps a member to its sign-up response.
func NewRegisteredMember(m *entity.Member) *RegisteredMember {
	return &RegisteredMember{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		County:    m.County,
	}
}

// NewMemberProfile maps a member to its login response.
func NewMemberProfile(m *entity.Member) *MemberProfile {
	return &MemberProfile{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		County:    m.County,
		Role:      rolePtr(m.Role),
	}
}

// NewMemberView maps a member to an admin listing row.
func NewMemberView(m *entity.Member) *MemberView {
	return &MemberView{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		IDNumber:  m.IDNumber,
		County:    m.County,
		Role:      rolePtr(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

// rolePtr renders an unset role as JSON null.
func rolePtr(role entity.Role) *string {
	if role == "" {
		return nil
	}
	s := role.String()

	return &s
}
