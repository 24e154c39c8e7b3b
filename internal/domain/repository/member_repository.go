// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"membership/internal/domain/entity"
)

// ErrMemberNotFound is returned by lookups that matched no record. It is distinct
// from a store fault, which surfaces as *domainerrors.StoreError.
var ErrMemberNotFound = errors.New("member not found")

// MemberRepository is the registration store gateway. Implementations classify
// driver failures into *domainerrors.ConflictError and *domainerrors.StoreError.
type MemberRepository interface {
	// Create inserts a new member and fills in the store-assigned ID, Role and CreatedAt.
	// A uniqueness violation on email, phone or ID number yields *domainerrors.ConflictError.
	Create(ctx context.Context, member *entity.Member) error

	// ListAll returns every member, newest CreatedAt first.
	ListAll(ctx context.Context) ([]*entity.Member, error)

	// FindByEmail returns the member with exactly this email, or ErrMemberNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.Member, error)
}
