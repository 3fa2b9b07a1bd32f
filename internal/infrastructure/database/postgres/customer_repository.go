package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
)

const (
	listCustomersQuery   = `SELECT id, name, email, age FROM customer ORDER BY id ASC`
	findCustomerQuery    = `SELECT id, name, email, age FROM customer WHERE id = $1`
	insertCustomerQuery  = `INSERT INTO customer (name, email, age) VALUES ($1, $2, $3) RETURNING id`
	emailExistsQuery     = `SELECT EXISTS (SELECT 1 FROM customer WHERE lower(email) = lower($1))`
	idExistsQuery        = `SELECT EXISTS (SELECT 1 FROM customer WHERE id = $1)`
	deleteCustomerQuery  = `DELETE FROM customer WHERE id = $1`
	replaceCustomerQuery = `UPDATE customer SET name = $1, email = $2, age = $3 WHERE id = $4`
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) ListAll(ctx context.Context) (customers []*customer.Customer, err error) {
	defer func(start time.Time) { observe("list_customers", start, err) }(time.Now())

	r.logger.DebugContext(ctx, "Attempting to list all customers")

	rows, err := r.db.Query(ctx, listCustomersQuery)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers = make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		if err = rows.Scan(&cust.ID, &cust.Name, &cust.Email, &cust.Age); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, &cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished listing customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (_ *customer.Customer, err error) {
	defer func(start time.Time) { observe("find_customer", start, err) }(time.Now())

	logger := r.logger.With(slog.Int64("customerID", customerID))

	var cust customer.Customer
	err = r.db.QueryRow(ctx, findCustomerQuery, customerID).Scan(&cust.ID, &cust.Name, &cust.Email, &cust.Age)
	if err != nil {
		translated := translateDBError(err, logger)
		if errors.Is(translated, customer.ErrNotFound) {
			logger.DebugContext(ctx, "Customer not found")
			return nil, translated
		}
		logger.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer by ID: %w", translated)
	}

	return &cust, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, cust *customer.Customer) (err error) {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	defer func(start time.Time) { observe("insert_customer", start, err) }(time.Now())

	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("name", cust.Name))

	var id int64
	err = r.db.QueryRow(ctx, insertCustomerQuery, cust.Name, cust.Email, cust.Age).Scan(&id)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, customer.ErrDuplicateEmail) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation")
			return translated
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("failed to insert customer: %w", translated)
	}

	cust.ID = id
	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", id))
	return nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (exists bool, err error) {
	defer func(start time.Time) { observe("customer_email_exists", start, err) }(time.Now())

	if err = r.db.QueryRow(ctx, emailExistsQuery, email).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check email existence", slog.Any("error", err))
		return false, fmt.Errorf("failed to check email existence: %w", translateDBError(err, r.logger))
	}
	return exists, nil
}

func (r *CustomerRepository) ExistsByID(ctx context.Context, customerID int64) (exists bool, err error) {
	defer func(start time.Time) { observe("customer_id_exists", start, err) }(time.Now())

	if err = r.db.QueryRow(ctx, idExistsQuery, customerID).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer existence", slog.Int64("customerID", customerID), slog.Any("error", err))
		return false, fmt.Errorf("failed to check customer existence: %w", translateDBError(err, r.logger))
	}
	return exists, nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, customerID int64) (err error) {
	defer func(start time.Time) { observe("delete_customer", start, err) }(time.Now())

	logger := r.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to delete customer")

	cmdTag, err := r.db.Exec(ctx, deleteCustomerQuery, customerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		logger.WarnContext(ctx, "Delete affected zero rows, customer already gone")
		return nil
	}

	logger.InfoContext(ctx, "Customer deleted successfully")
	return nil
}

func (r *CustomerRepository) Replace(ctx context.Context, cust *customer.Customer) (err error) {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	defer func(start time.Time) { observe("replace_customer", start, err) }(time.Now())

	logger := r.logger.With(slog.Int64("customerID", cust.ID))
	logger.InfoContext(ctx, "Attempting to update customer")

	cmdTag, err := r.db.Exec(ctx, replaceCustomerQuery, cust.Name, cust.Email, cust.Age, cust.ID)
	if err != nil {
		translated := translateDBError(err, logger)
		if errors.Is(translated, customer.ErrDuplicateEmail) {
			logger.WarnContext(ctx, "Failed to update customer due to unique constraint violation")
			return translated
		}
		logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return fmt.Errorf("failed to update customer: %w", translated)
	}

	if cmdTag.RowsAffected() == 0 {
		logger.WarnContext(ctx, "Update affected zero rows, customer likely deleted concurrently")
		return nil
	}

	logger.InfoContext(ctx, "Customer updated successfully")
	return nil
}
