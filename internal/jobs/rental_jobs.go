package jobs

import (
	"context"
	"fmt"
	"math"
	"time"

	"video-rental-store/internal/logger"
	"video-rental-store/internal/service"
)

const overdueReportTimeout = 2 * time.Minute

// SendOverdueReport emails the store manager a digest of open rentals that
// are past their return-by date.
func (jr *JobRunner) SendOverdueReport() {
	jr.runWithRecovery("SendOverdueReport", func() {
		ctx, cancel := context.WithTimeout(context.Background(), overdueReportTimeout)
		defer cancel()

		if err := jr.sendOverdueReport(ctx); err != nil {
			logger.Error("Failed to send overdue report", "error", err)
		}
	})
}

func (jr *JobRunner) sendOverdueReport(ctx context.Context) error {
	rentals, err := jr.services.Rental.ListOverdue(ctx)
	if err != nil {
		return fmt.Errorf("list overdue rentals: %w", err)
	}

	now := jr.now().UTC()
	report := service.OverdueReport{GeneratedAt: now}
	for _, rt := range rentals {
		days := int(math.Ceil(now.Sub(rt.ReturnByDate).Hours() / 24))
		logger.Debug("Rental is overdue",
			"rental_id", rt.ID,
			"customer_id", rt.CustomerID,
			"movie_id", rt.MovieID,
			"return_by_date", rt.ReturnByDate,
			"days_overdue", days)
		report.Rentals = append(report.Rentals, service.OverdueRental{
			RentalID:     rt.ID,
			CustomerID:   rt.CustomerID,
			MovieID:      rt.MovieID,
			ReturnByDate: rt.ReturnByDate,
			DaysOverdue:  days,
		})
	}

	logger.Info("Found overdue rentals", "count", len(report.Rentals))

	to := jr.config.Notification.ManagerEmail
	if err := jr.services.Email.SendOverdueReport(ctx, to, report); err != nil {
		return fmt.Errorf("send report to %s: %w", to, err)
	}
	return nil
}
