package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"customer-service/internal/infrastructure/monitoring"

	"github.com/robfig/cron/v3"
)

const (
	defaultStatsSchedule = "*/5 * * * *"
	defaultStatsTimeout  = 30 * time.Second
)

// CustomerStatsJob refreshes the stored-customers gauge.
type CustomerStatsJob struct {
	customerService customer.CustomerService
	logger          *slog.Logger
}

func NewCustomerStatsJob(customerSvc customer.CustomerService, logger *slog.Logger) *CustomerStatsJob {
	if customerSvc == nil || logger == nil {
		panic("CustomerStatsJob dependencies cannot be nil")
	}
	return &CustomerStatsJob{
		customerService: customerSvc,
		logger:          logger.With("job", "CustomerStats"),
	}
}

func (j *CustomerStatsJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.DebugContext(ctx, "Starting customer stats refresh.")

	customers, err := j.customerService.GetAllCustomers(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list customers, gauge left unchanged.", slog.Any("error", err))
		return fmt.Errorf("cannot refresh customer stats: %w", err)
	}

	monitoring.SetCustomersStored(len(customers))
	j.logger.InfoContext(ctx, "Customer stats refreshed.",
		slog.Int("count", len(customers)),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}

// Schedule registers the job on a new cron scheduler and starts it. Each run
// gets its own timeout derived from cfg.
func Schedule(cfg config.BatchConfig, job *CustomerStatsJob, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()

	scheduleSpec := cfg.StatsSchedule
	if scheduleSpec == "" {
		scheduleSpec = defaultStatsSchedule
		logger.Warn("Customer stats schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.StatsTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultStatsTimeout
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := job.Run(ctx); runErr != nil {
			logger.Error("Customer stats job finished with error", slog.Any("error", runErr))
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to schedule customer stats job %q: %w", scheduleSpec, err)
	}

	logger.Info("Scheduled customer stats job", "schedule", scheduleSpec, "job_id", jobID)
	c.Start()
	return c, nil
}
