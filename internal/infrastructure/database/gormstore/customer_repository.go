package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"customer-service/internal/domain/customer"
	"customer-service/internal/infrastructure/monitoring"
	"customer-service/internal/pkg/apperrors"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db *gorm.DB, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("gorm DB cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{db: db, logger: logger.With("component", "GormCustomerRepository")}
}

func observe(queryName string, start time.Time, err error) {
	status := "success"
	if err != nil && !errors.Is(err, customer.ErrNotFound) {
		status = "error"
	}
	monitoring.RecordDBQuery("gorm_"+queryName, status, time.Since(start))
}

func (r *CustomerRepository) ListAll(ctx context.Context) (_ []*customer.Customer, err error) {
	defer func(start time.Time) { observe("list_customers", start, err) }(time.Now())

	var records []customerRecord
	if err = r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to list customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", translateError(err))
	}

	customers := make([]*customer.Customer, 0, len(records))
	for _, rec := range records {
		customers = append(customers, rec.toDomain())
	}
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (_ *customer.Customer, err error) {
	defer func(start time.Time) { observe("find_customer", start, err) }(time.Now())

	var rec customerRecord
	if err = r.db.WithContext(ctx).First(&rec, "id = ?", customerID).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, customer.ErrNotFound) {
			return nil, err
		}
		r.logger.ErrorContext(ctx, "Failed to find customer", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer by ID: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *CustomerRepository) Insert(ctx context.Context, cust *customer.Customer) (err error) {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	defer func(start time.Time) { observe("insert_customer", start, err) }(time.Now())

	rec := fromDomain(cust)
	rec.ID = 0
	if err = r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, customer.ErrDuplicateEmail) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation")
			return err
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	cust.ID = rec.ID
	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (_ bool, err error) {
	defer func(start time.Time) { observe("customer_email_exists", start, err) }(time.Now())

	var count int64
	err = r.db.WithContext(ctx).Model(&customerRecord{}).Where("lower(email) = lower(?)", email).Count(&count).Error
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check email existence", slog.Any("error", err))
		return false, fmt.Errorf("failed to check email existence: %w", translateError(err))
	}
	return count > 0, nil
}

func (r *CustomerRepository) ExistsByID(ctx context.Context, customerID int64) (_ bool, err error) {
	defer func(start time.Time) { observe("customer_id_exists", start, err) }(time.Now())

	var count int64
	err = r.db.WithContext(ctx).Model(&customerRecord{}).Where("id = ?", customerID).Count(&count).Error
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer existence", slog.Any("error", err))
		return false, fmt.Errorf("failed to check customer existence: %w", translateError(err))
	}
	return count > 0, nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, customerID int64) (err error) {
	defer func(start time.Time) { observe("delete_customer", start, err) }(time.Now())

	res := r.db.WithContext(ctx).Delete(&customerRecord{}, customerID)
	if err = res.Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete customer", slog.Int64("customerID", customerID), slog.Any("error", err))
		return fmt.Errorf("failed to delete customer: %w", translateError(err))
	}
	if res.RowsAffected == 0 {
		r.logger.WarnContext(ctx, "Delete affected zero rows, customer already gone", slog.Int64("customerID", customerID))
	}
	return nil
}

func (r *CustomerRepository) Replace(ctx context.Context, cust *customer.Customer) (err error) {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	defer func(start time.Time) { observe("replace_customer", start, err) }(time.Now())

	logger := r.logger.With(slog.Int64("customerID", cust.ID))
	res := r.db.WithContext(ctx).Model(&customerRecord{}).Where("id = ?", cust.ID).Updates(map[string]any{
		"name":  cust.Name,
		"email": cust.Email,
		"age":   cust.Age,
	})
	if err = res.Error; err != nil {
		err = translateError(err)
		if errors.Is(err, customer.ErrDuplicateEmail) {
			logger.WarnContext(ctx, "Failed to update customer due to unique constraint violation")
			return err
		}
		logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if res.RowsAffected == 0 {
		logger.WarnContext(ctx, "Update affected zero rows, customer likely deleted concurrently")
	}
	return nil
}
