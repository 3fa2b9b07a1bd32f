package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pgxmockExpectationsNotMetMsg = "pgxmock expectations were not met"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var customerColumns = []string{"id", "name", "email", "age"}

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	return context.Background(), NewCustomerRepository(mockPool, logger), mockPool
}

func uniqueViolationErr() error {
	return &pgconn.PgError{Code: uniqueViolation, ConstraintName: "customer_email_unique"}
}

func TestListAllCustomers(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(listCustomersQuery)).
		WillReturnRows(pgxmock.NewRows(customerColumns).
			AddRow(int64(1), "Alex", "alex@gmail.com", 21).
			AddRow(int64(2), "Jamile", "jamile@gmail.com", 23))

	customers, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, &customer.Customer{ID: 1, Name: "Alex", Email: "alex@gmail.com", Age: 21}, customers[0])
	assert.Equal(t, int64(2), customers[1].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestListAllCustomersEmptyTable(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(listCustomersQuery)).WillReturnRows(pgxmock.NewRows(customerColumns))

	customers, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, customers)
	assert.Empty(t, customers)
}

func TestListAllCustomersQueryError(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(listCustomersQuery)).WillReturnError(errors.New("connection reset"))

	customers, err := repo.ListAll(ctx)
	assert.Nil(t, customers)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDReturnOne(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerQuery)).WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(customerColumns).AddRow(int64(7), "Maria", "maria@mail.com", 30))

	cust, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, &customer.Customer{ID: 7, Name: "Maria", Email: "maria@mail.com", Age: 30}, cust)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerQuery)).WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)

	cust, err := repo.FindByID(ctx, 99)
	assert.Nil(t, cust)
	assert.ErrorIs(t, err, customer.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDDatabaseError(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerQuery)).WithArgs(int64(1)).
		WillReturnError(&pgconn.PgError{Code: "57P01", Message: "terminating connection"})

	_, err := repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NotErrorIs(t, err, customer.ErrNotFound)
}

func TestInsertCustomerAssignsID(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := customer.NewCustomer("Maria", "maria@mail.com", 30)
	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).WithArgs("Maria", "maria@mail.com", 30).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))

	err := repo.Insert(ctx, cust)
	require.NoError(t, err)
	assert.Equal(t, int64(12), cust.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestInsertCustomerDuplicateEmail(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := customer.NewCustomer("Maria", "MARIA@mail.com", 30)
	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).WithArgs("Maria", "MARIA@mail.com", 30).
		WillReturnError(uniqueViolationErr())

	err := repo.Insert(ctx, cust)
	assert.ErrorIs(t, err, customer.ErrDuplicateEmail)
	assert.Zero(t, cust.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestInsertNilCustomer(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	err := repo.Insert(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestExistsByEmail(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{name: "email taken", exists: true},
		{name: "email free", exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, repo, mockPool := setupCustomerRepo(t)
			defer mockPool.Close()

			mockPool.ExpectQuery(regexp.QuoteMeta(emailExistsQuery)).WithArgs("Alex@Gmail.com").
				WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			exists, err := repo.ExistsByEmail(ctx, "Alex@Gmail.com")
			require.NoError(t, err)
			assert.Equal(t, tt.exists, exists)
			assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
		})
	}
}

func TestExistsByEmailError(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(emailExistsQuery)).WithArgs("a@b.c").WillReturnError(errors.New("timeout"))

	exists, err := repo.ExistsByEmail(ctx, "a@b.c")
	assert.False(t, exists)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}

func TestExistsByID(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(idExistsQuery)).WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByID(ctx, 3)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomerByID(t *testing.T) {
	t.Run("deletes existing row", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectExec(regexp.QuoteMeta(deleteCustomerQuery)).WithArgs(int64(3)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.DeleteByID(ctx, 3))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectExec(regexp.QuoteMeta(deleteCustomerQuery)).WithArgs(int64(3)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.NoError(t, repo.DeleteByID(ctx, 3))
	})

	t.Run("exec error", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectExec(regexp.QuoteMeta(deleteCustomerQuery)).WithArgs(int64(3)).
			WillReturnError(errors.New("broken pipe"))

		assert.ErrorIs(t, repo.DeleteByID(ctx, 3), apperrors.ErrDatabase)
	})
}

func TestReplaceCustomer(t *testing.T) {
	cust := &customer.Customer{ID: 7, Name: "Maria", Email: "new@mail.com", Age: 30}

	t.Run("updates all columns", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectExec(regexp.QuoteMeta(replaceCustomerQuery)).WithArgs("Maria", "new@mail.com", 30, int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.Replace(ctx, cust))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectExec(regexp.QuoteMeta(replaceCustomerQuery)).WithArgs("Maria", "new@mail.com", 30, int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.NoError(t, repo.Replace(ctx, cust))
	})

	t.Run("unique violation maps to duplicate email", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectExec(regexp.QuoteMeta(replaceCustomerQuery)).WithArgs("Maria", "new@mail.com", 30, int64(7)).
			WillReturnError(uniqueViolationErr())

		assert.ErrorIs(t, repo.Replace(ctx, cust), customer.ErrDuplicateEmail)
	})
}

func TestTranslateDBError(t *testing.T) {
	assert.NoError(t, translateDBError(nil, logger))
	assert.ErrorIs(t, translateDBError(pgx.ErrNoRows, logger), customer.ErrNotFound)
	assert.ErrorIs(t, translateDBError(uniqueViolationErr(), logger), customer.ErrDuplicateEmail)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "42P01"}, logger), apperrors.ErrDatabase)
	assert.ErrorIs(t, translateDBError(errors.New("boom"), logger), apperrors.ErrDatabase)
}
