package service

import (
	"context"

	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/pkg/queue"
)

// BookingService — движок приёма броней и их жизненного цикла.
type BookingService interface {
	// Основные операции
	SubmitBooking(ctx context.Context, req *SubmitBookingRequest) (*entity.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID int64, patch entity.StatusPatch) (*entity.Booking, error)
	GetBooking(ctx context.Context, id int64) (*entity.Booking, error)
	GetRestaurantBookings(ctx context.Context, restaurantID int64) ([]*entity.Booking, error)

	// SweepExpired переводит залежавшиеся PENDING-брони в DECLINED и
	// возвращает затронутые; вызывается планировщиком и вручную.
	SweepExpired(ctx context.Context) ([]*entity.Booking, error)
}

// RestaurantService управляет конфигурацией ресторанов.
type RestaurantService interface {
	CreateRestaurant(ctx context.Context, req *CreateRestaurantRequest) (*entity.Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (*entity.Restaurant, error)
	GetAllRestaurants(ctx context.Context) ([]*entity.Restaurant, error)
	UpdateLayout(ctx context.Context, id int64, patch entity.LayoutPatch) (*entity.Restaurant, error)
	UpdateHours(ctx context.Context, id int64, patch entity.HoursPatch) (*entity.Restaurant, error)
}

// NotificationService ведёт подписки и доставляет события жизненного
// цикла брони подписчикам.
type NotificationService interface {
	Subscribe(ctx context.Context, sub *entity.PushSubscription) error
	Unsubscribe(ctx context.Context, endpoint string) error

	// HandleTask — обработчик задач из очереди уведомлений.
	HandleTask(task *queue.Task) error
}

// EventPublisher публикует события жизненного цикла брони для Notifier.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, kind queue.TaskType, booking *entity.Booking) error
}
