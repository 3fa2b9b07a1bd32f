package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"customer-service/internal/domain/customer"
	"customer-service/internal/event"
	"customer-service/internal/infrastructure/database/memory"
	"customer-service/internal/pkg/apperrors"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockAdder struct {
	customer.CustomerService
	mock.Mock
}

func (m *mockAdder) AddCustomer(ctx context.Context, req customer.RegistrationRequest) (*customer.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func TestRunStoresValidCustomers(t *testing.T) {
	repo := memory.NewCustomerRepository(logger)
	svc := customer.NewCustomerService(repo, event.NopPublisher{}, logger)

	added, err := NewRunner(svc, gofakeit.New(42), logger).Run(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, added)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 10)
	for _, c := range all {
		assert.NotEmpty(t, c.Name)
		assert.Contains(t, c.Email, "@")
		assert.GreaterOrEqual(t, c.Age, minAge)
		assert.LessOrEqual(t, c.Age, maxAge)
	}
}

func TestRunSkipsTakenEmails(t *testing.T) {
	svc := new(mockAdder)
	svc.On("AddCustomer", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewDuplicateResource("Email already taken")).Once()
	svc.On("AddCustomer", mock.Anything, mock.Anything).
		Return(&customer.Customer{ID: 1}, nil)

	added, err := NewRunner(svc, gofakeit.New(1), logger).Run(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 2, added)
	svc.AssertNumberOfCalls(t, "AddCustomer", 3)
}

func TestRunStopsOnUnexpectedError(t *testing.T) {
	svc := new(mockAdder)
	svc.On("AddCustomer", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	added, err := NewRunner(svc, gofakeit.New(1), logger).Run(context.Background(), 3)

	assert.Zero(t, added)
	assert.ErrorContains(t, err, "failed to seed customer 1 of 3")
	svc.AssertNumberOfCalls(t, "AddCustomer", 1)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := new(mockAdder)
	added, err := NewRunner(svc, nil, logger).Run(ctx, 5)

	assert.Zero(t, added)
	assert.ErrorIs(t, err, context.Canceled)
	svc.AssertNotCalled(t, "AddCustomer", mock.Anything, mock.Anything)
}
