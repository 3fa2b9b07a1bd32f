// Package seed fills the store with random customers for local runs.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	minAge = 16
	maxAge = 120
)

type Runner struct {
	service customer.CustomerService
	faker   *gofakeit.Faker
	logger  *slog.Logger
}

// NewRunner builds a runner drawing from faker. A nil faker gets a randomly
// seeded one.
func NewRunner(svc customer.CustomerService, faker *gofakeit.Faker, logger *slog.Logger) *Runner {
	if svc == nil {
		panic("customer service cannot be nil")
	}
	if faker == nil {
		faker = gofakeit.New(0)
	}
	return &Runner{service: svc, faker: faker, logger: logger.With("component", "SeedRunner")}
}

func (r *Runner) nextRequest() customer.RegistrationRequest {
	first := r.faker.FirstName()
	last := r.faker.LastName()
	return customer.RegistrationRequest{
		Name:  first + " " + last,
		Email: fmt.Sprintf("%s.%s@%s", emailPart(first), emailPart(last), r.faker.DomainName()),
		Age:   r.faker.IntRange(minAge, maxAge),
	}
}

func emailPart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, strings.ToLower(s))
}

// Run registers count random customers through the service and returns how
// many were stored. Emails that are already taken are skipped.
func (r *Runner) Run(ctx context.Context, count int) (int, error) {
	added := 0
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return added, err
		}

		req := r.nextRequest()
		cust, err := r.service.AddCustomer(ctx, req)
		switch {
		case errors.Is(err, apperrors.ErrAlreadyExists):
			r.logger.InfoContext(ctx, "Seed email already taken, skipping", slog.String("email", req.Email))
			continue
		case err != nil:
			return added, fmt.Errorf("failed to seed customer %d of %d: %w", i+1, count, err)
		}

		added++
		r.logger.DebugContext(ctx, "Seeded customer", slog.Int64("customerID", cust.ID))
	}

	r.logger.InfoContext(ctx, "Seeding finished", slog.Int("requested", count), slog.Int("added", added))
	return added, nil
}
