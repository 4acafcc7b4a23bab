// Package seller defines merchant identities and their trust gates.
package seller

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when no seller matches the lookup.
	ErrNotFound = errors.New("seller not found")
	// ErrEmailTaken is returned when registering with an email that is
	// already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotVerified is returned when an unverified seller attempts a
	// product mutation. Sellers register unverified and are approved by an
	// operator; registration never self-verifies.
	ErrNotVerified = errors.New("seller is not verified")
	// ErrDeactivated is returned for operations on a deactivated account.
	ErrDeactivated = errors.New("seller account is deactivated")
)

// Seller is a registered merchant. PasswordHash is never serialized.
type Seller struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	ShopName     string
	Phone        string
	GSTNumber    string
	IsVerified   bool
	IsActive     bool
	CreatedAt    time.Time
}

// CanManageProducts reports whether the seller may mutate the catalog.
func (s *Seller) CanManageProducts() error {
	if !s.IsActive {
		return ErrDeactivated
	}
	if !s.IsVerified {
		return ErrNotVerified
	}
	return nil
}

// Repository defines persistence operations for sellers.
type Repository interface {
	Create(ctx context.Context, s *Seller) error
	GetByID(ctx context.Context, id string) (*Seller, error)
	GetByEmail(ctx context.Context, email string) (*Seller, error)
}
