package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrDuplicateEmail = errors.New("email already assigned to another customer")
)

// Repository is the storage contract the service depends on. Absence is never
// an error for DeleteByID and Replace; callers check ExistsByID or FindByID first.
// Insert and Replace return ErrDuplicateEmail when the store's unique email
// constraint rejects the write.
type Repository interface {
	ListAll(ctx context.Context) ([]*Customer, error)

	// FindByID returns ErrNotFound when no customer has the given ID.
	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	// Insert stores a customer without an ID and sets customer.ID on success.
	Insert(ctx context.Context, customer *Customer) error

	// ExistsByEmail compares emails case-insensitively.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	ExistsByID(ctx context.Context, customerID int64) (bool, error)

	DeleteByID(ctx context.Context, customerID int64) error

	// Replace overwrites name, email and age of the stored customer with customer.ID.
	Replace(ctx context.Context, customer *Customer) error
}
