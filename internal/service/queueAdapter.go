package service

import (
	"context"
	"time"

	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/pkg/queue"
)

// QueueAdapter адаптирует queue.Queue к EventPublisher интерфейсу
type QueueAdapter struct {
	queue queue.Queue
}

// NewQueueAdapter создает новый адаптер для очереди
func NewQueueAdapter(q queue.Queue) *QueueAdapter {
	return &QueueAdapter{queue: q}
}

// PublishBookingEvent публикует событие жизненного цикла со снимком брони
func (a *QueueAdapter) PublishBookingEvent(ctx context.Context, kind queue.TaskType, booking *entity.Booking) error {
	if a.queue == nil {
		return nil // Если очередь не инициализирована, игнорируем
	}

	task := &queue.Task{
		ID:   queue.NewTaskID(kind),
		Type: kind,
		Data: map[string]interface{}{
			"booking_id":    booking.ID,
			"restaurant_id": booking.RestaurantID,
			"table_label":   booking.TableLabel,
			"guest_name":    booking.GuestName,
			"guest_phone":   booking.GuestPhone,
			"guest_count":   booking.GuestCount,
			"date_time":     booking.DateTime.Format(time.RFC3339),
			"status":        string(booking.Status),
		},
		MaxRetries: 3,
	}

	return a.queue.Publish(ctx, task)
}
