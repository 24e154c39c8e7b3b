// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// Member is a persisted registration. Email, Phone and IDNumber are natural keys,
// each unique across all members.
type Member struct {
	ID        int64     // Store-assigned identity, immutable once created.
	FirstName string    // Given name as submitted at registration.
	LastName  string    // Family name as submitted at registration.
	Email     string    // Login identifier.
	Phone     string    // Contact number.
	IDNumber  string    // National identity number.
	County    string    // County of residence.
	Role      Role      // Store-defaulted classification label; never set by clients.
	CreatedAt time.Time // Store-assigned at insert time, never mutated.

	// PasswordHash is the bcrypt hash of the member's secret. Nil means the
	// record exists but was never provisioned for login.
	PasswordHash *string
}

// CanLogin reports whether the member has a usable credential.
func (m *Member) CanLogin() bool {
	return m.PasswordHash != nil && *m.PasswordHash != ""
}

// RegistrationSubmission is a validated sign-up request. It only lives for the
// duration of one registration; Password is replaced by its hash before persistence.
type RegistrationSubmission struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=10"`
	IDNumber  string `json:"idNumber" validate:"required,min=5"`
	County    string `json:"county" validate:"required,min=2"`
	Password  string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// ToMember builds the record to persist, carrying the already computed hash.
func (s *RegistrationSubmission) ToMember(passwordHash string) *Member {
	return &Member{
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Email:        s.Email,
		Phone:        s.Phone,
		IDNumber:     s.IDNumber,
		County:       s.County,
		PasswordHash: &passwordHash,
	}
}
