// Package memory keeps customers in a process-local slice. It is the
// zero-dependency storage backend, useful for local runs and tests.
package memory

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"customer-service/internal/domain/customer"
)

type CustomerRepository struct {
	mu        sync.RWMutex
	customers []customer.Customer
	lastID    int64
	logger    *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

// Fixtures returns the two customers the list-backed store starts with when
// fixtures are enabled.
func Fixtures() []customer.Customer {
	return []customer.Customer{
		{ID: 1, Name: "Alex", Email: "alex@gmail.com", Age: 21},
		{ID: 2, Name: "Jamile", Email: "jamile@gmail.com", Age: 23},
	}
}

// NewCustomerRepository returns a store preloaded with initial. Records in
// initial must already carry IDs; new IDs continue after the largest one.
func NewCustomerRepository(logger *slog.Logger, initial ...customer.Customer) *CustomerRepository {
	if logger == nil {
		panic("logger cannot be nil")
	}
	r := &CustomerRepository{
		customers: make([]customer.Customer, 0, len(initial)),
		logger:    logger.With("component", "MemoryCustomerRepository"),
	}
	for _, c := range initial {
		r.customers = append(r.customers, c)
		if c.ID > r.lastID {
			r.lastID = c.ID
		}
	}
	return r
}

func (r *CustomerRepository) ListAll(ctx context.Context) ([]*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*customer.Customer, 0, len(r.customers))
	for i := range r.customers {
		c := r.customers[i]
		out = append(out, &c)
	}
	r.logger.DebugContext(ctx, "Listed customers", slog.Int("count", len(out)))
	return out, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(customerID)
	if idx < 0 {
		r.logger.DebugContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
		return nil, customer.ErrNotFound
	}
	c := r.customers[idx]
	return &c, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, cust *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(cust.Email, 0) {
		r.logger.WarnContext(ctx, "Insert rejected, email already stored")
		return customer.ErrDuplicateEmail
	}

	r.lastID++
	cust.ID = r.lastID
	r.customers = append(r.customers, *cust)
	r.logger.DebugContext(ctx, "Customer inserted", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTaken(email, 0), nil
}

func (r *CustomerRepository) ExistsByID(_ context.Context, customerID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(customerID) >= 0, nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, customerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(customerID)
	if idx < 0 {
		return nil
	}
	r.customers = append(r.customers[:idx], r.customers[idx+1:]...)
	r.logger.DebugContext(ctx, "Customer deleted", slog.Int64("customerID", customerID))
	return nil
}

func (r *CustomerRepository) Replace(ctx context.Context, cust *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(cust.ID)
	if idx < 0 {
		return nil
	}
	if r.emailTaken(cust.Email, cust.ID) {
		r.logger.WarnContext(ctx, "Replace rejected, email already stored", slog.Int64("customerID", cust.ID))
		return customer.ErrDuplicateEmail
	}
	r.customers[idx] = *cust
	r.logger.DebugContext(ctx, "Customer replaced", slog.Int64("customerID", cust.ID))
	return nil
}

// indexOf must be called with r.mu held.
func (r *CustomerRepository) indexOf(customerID int64) int {
	for i := range r.customers {
		if r.customers[i].ID == customerID {
			return i
		}
	}
	return -1
}

// emailTaken must be called with r.mu held. The customer with ID except is ignored.
func (r *CustomerRepository) emailTaken(email string, except int64) bool {
	for i := range r.customers {
		if r.customers[i].ID != except && strings.EqualFold(r.customers[i].Email, email) {
			return true
		}
	}
	return false
}
