package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"customer-service/internal/event"
	"customer-service/internal/infrastructure/monitoring"
	"customer-service/internal/pkg/apperrors"
)

const (
	emailAlreadyTaken = "Email already taken"
	noDataChanges     = "no data changes found"

	outcomeSuccess   = "success"
	outcomeNotFound  = "not_found"
	outcomeDuplicate = "duplicate"
	outcomeInvalid   = "invalid"
	outcomeError     = "error"
)

func notFoundMessage(customerID int64) string {
	return fmt.Sprintf("There is no customer with ID = %d", customerID)
}

type CustomerService interface {
	GetAllCustomers(ctx context.Context) ([]*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	AddCustomer(ctx context.Context, req RegistrationRequest) (*Customer, error)
	DeleteCustomerByID(ctx context.Context, customerID int64) error
	UpdateCustomer(ctx context.Context, customerID int64, req UpdateRequest) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   Repository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo Repository, pub event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NopPublisher{}
	}

	return &customerService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func eventPayload(cust *Customer) event.CustomerEventPayload {
	return event.CustomerEventPayload{
		CustomerID: cust.ID,
		Name:       cust.Name,
		Email:      cust.Email,
		Age:        cust.Age,
	}
}

func (s *customerService) GetAllCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list all customers")

	customers, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to get customer by ID")

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.WarnContext(ctx, "Customer not found by repository")
			return nil, apperrors.NewResourceNotFound(notFoundMessage(customerID))
		}
		logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Successfully retrieved customer")
	return cust, nil
}

func (s *customerService) AddCustomer(ctx context.Context, req RegistrationRequest) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to add new customer")

	if err := req.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Registration request failed validation", slog.Any("error", err))
		monitoring.RecordCustomerOperation("add", outcomeInvalid)
		return nil, err
	}

	taken, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error checking email", slog.Any("error", err))
		monitoring.RecordCustomerOperation("add", outcomeError)
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}
	if taken {
		s.logger.WarnContext(ctx, "Email already taken, rejecting registration")
		monitoring.RecordCustomerOperation("add", outcomeDuplicate)
		return nil, apperrors.NewDuplicateResource(emailAlreadyTaken)
	}

	cust := NewCustomer(req.Name, req.Email, req.Age)
	if err := s.repo.Insert(ctx, cust); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			s.logger.WarnContext(ctx, "Unique email constraint rejected insert")
			monitoring.RecordCustomerOperation("add", outcomeDuplicate)
			return nil, apperrors.NewDuplicateResource(emailAlreadyTaken)
		}
		s.logger.ErrorContext(ctx, "Repository failed to insert new customer", slog.Any("error", err))
		monitoring.RecordCustomerOperation("add", outcomeError)
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	logger := s.logger.With(slog.Int64("customerID", cust.ID))
	logger.InfoContext(ctx, "Successfully added new customer, publishing creation event")
	monitoring.RecordCustomerOperation("add", outcomeSuccess)

	if pubErr := s.pub.PublishCustomerCreated(ctx, event.NewCustomerEvent(event.TypeCustomerCreated, eventPayload(cust))); pubErr != nil {
		logger.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}
	return cust, nil
}

func (s *customerService) DeleteCustomerByID(ctx context.Context, customerID int64) error {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to delete customer")

	exists, err := s.repo.ExistsByID(ctx, customerID)
	if err != nil {
		logger.ErrorContext(ctx, "Repository error checking customer existence", slog.Any("error", err))
		monitoring.RecordCustomerOperation("delete", outcomeError)
		return fmt.Errorf("failed to check customer %d: %w", customerID, err)
	}
	if !exists {
		logger.WarnContext(ctx, "Customer not found by repository for delete")
		monitoring.RecordCustomerOperation("delete", outcomeNotFound)
		return apperrors.NewResourceNotFound(notFoundMessage(customerID))
	}

	if err := s.repo.DeleteByID(ctx, customerID); err != nil {
		logger.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		monitoring.RecordCustomerOperation("delete", outcomeError)
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Successfully deleted customer, publishing deletion event")
	monitoring.RecordCustomerOperation("delete", outcomeSuccess)

	deleted := event.NewCustomerEvent(event.TypeCustomerDeleted, event.CustomerEventPayload{CustomerID: customerID})
	if pubErr := s.pub.PublishCustomerDeleted(ctx, deleted); pubErr != nil {
		logger.ErrorContext(ctx, "Customer deleted, but FAILED to publish deletion event", slog.Any("error", pubErr))
	}
	return nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, req UpdateRequest) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to update customer")

	current, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			monitoring.RecordCustomerOperation("update", outcomeNotFound)
		} else {
			monitoring.RecordCustomerOperation("update", outcomeError)
		}
		return nil, err
	}

	if err := req.Validate(); err != nil {
		logger.WarnContext(ctx, "Update request failed validation", slog.Any("error", err))
		monitoring.RecordCustomerOperation("update", outcomeInvalid)
		return nil, err
	}

	changes := PlanUpdate(current, req)

	if newEmail, dirty := changes.NewEmail(); dirty && !strings.EqualFold(newEmail, current.Email) {
		taken, err := s.repo.ExistsByEmail(ctx, newEmail)
		if err != nil {
			logger.ErrorContext(ctx, "Repository error checking email", slog.Any("error", err))
			monitoring.RecordCustomerOperation("update", outcomeError)
			return nil, fmt.Errorf("failed to check email availability: %w", err)
		}
		if taken {
			logger.WarnContext(ctx, "Email already taken, rejecting update")
			monitoring.RecordCustomerOperation("update", outcomeDuplicate)
			return nil, apperrors.NewDuplicateResource(emailAlreadyTaken)
		}
	}

	if !changes.HasChanges() {
		logger.InfoContext(ctx, "Update request carries no changes")
		monitoring.RecordCustomerOperation("update", outcomeInvalid)
		return nil, apperrors.NewRequestValidation(noDataChanges)
	}

	updated := changes.Apply(*current)
	logger.InfoContext(ctx, "Calling repository Replace", slog.Any("fields", changes.Fields()))
	if err := s.repo.Replace(ctx, &updated); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			logger.WarnContext(ctx, "Unique email constraint rejected update")
			monitoring.RecordCustomerOperation("update", outcomeDuplicate)
			return nil, apperrors.NewDuplicateResource(emailAlreadyTaken)
		}
		logger.ErrorContext(ctx, "Repository failed to replace customer", slog.Any("error", err))
		monitoring.RecordCustomerOperation("update", outcomeError)
		return nil, fmt.Errorf("failed to save updated customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Successfully updated customer, publishing update event")
	monitoring.RecordCustomerOperation("update", outcomeSuccess)

	if pubErr := s.pub.PublishCustomerUpdated(ctx, event.NewCustomerEvent(event.TypeCustomerUpdated, eventPayload(&updated))); pubErr != nil {
		logger.ErrorContext(ctx, "Customer updated, but FAILED to publish update event", slog.Any("error", pubErr))
	}
	return &updated, nil
}
