package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dlotsss/brondau-server/internal/service"
)

// BookingSweepWorker периодически снимает просроченные PENDING-заявки.
// Вся логика отбора и перевода статусов живет в сервисе, воркер лишь
// задает ритм и логирует итоги прохода.
type BookingSweepWorker struct {
	bookingService service.BookingService
	interval       time.Duration
}

func NewBookingSweepWorker(bookingService service.BookingService, interval time.Duration) *BookingSweepWorker {
	return &BookingSweepWorker{
		bookingService: bookingService,
		interval:       interval,
	}
}

func (w *BookingSweepWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Booking sweep worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Booking sweep worker stopped")
			return
		case <-ticker.C:
			w.sweepExpiredBookings(ctx)
		}
	}
}

// sweepExpiredBookings выполняет один проход автоотмены
func (w *BookingSweepWorker) sweepExpiredBookings(ctx context.Context) {
	logrus.Debug("Starting expired bookings sweep")

	swept, err := w.bookingService.SweepExpired(ctx)
	if err != nil {
		logrus.Errorf("Failed to sweep expired bookings: %v", err)
		return
	}

	if len(swept) == 0 {
		logrus.Debug("No expired bookings found")
		return
	}

	for _, booking := range swept {
		logrus.WithFields(logrus.Fields{
			"booking_id":    booking.ID,
			"restaurant_id": booking.RestaurantID,
			"created_at":    booking.CreatedAt,
		}).Info("Booking auto-declined by sweep")
	}

	logrus.Infof("Expired bookings sweep completed: %d declined", len(swept))
}

// GetStats возвращает статистику работы воркера
func (w *BookingSweepWorker) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"worker_type": "booking_sweep",
		"interval":    w.interval.String(),
		"status":      "running",
	}
}
