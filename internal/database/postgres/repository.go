package repository

import (
	"context"
	"time"

	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/internal/pkg/shift"
)

type BookingRepository interface {
	// Create выполняет проверки конфликтов и вставку одной serializable-
	// транзакцией; при конфликте сериализации возвращает ErrTxSerialization,
	// при бизнес-отказе — *entity.AdmissionError.
	Create(ctx context.Context, booking *entity.Booking, win shift.Window, skipChecks bool) error
	GetByID(ctx context.Context, id int64) (*entity.Booking, error)
	GetByRestaurant(ctx context.Context, restaurantID int64) ([]*entity.Booking, error)

	// Запросы активного набора для правил приёма
	GetActiveByPhone(ctx context.Context, restaurantID int64, normalizedPhone string) ([]*entity.Booking, error)
	GetActiveByTable(ctx context.Context, restaurantID int64, tableID string) ([]*entity.Booking, error)

	// UpdateStatus валидирует переход внутри транзакции и возвращает
	// обновлённую бронь.
	UpdateStatus(ctx context.Context, id int64, patch entity.StatusPatch) (*entity.Booking, error)

	// SweepExpired переводит залежавшиеся PENDING-брони в DECLINED одним
	// условным UPDATE; безопасен при параллельном запуске.
	SweepExpired(ctx context.Context, olderThan time.Time, limit int) ([]*entity.Booking, error)
}

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *entity.Restaurant) error
	GetByID(ctx context.Context, id int64) (*entity.Restaurant, error)
	GetAll(ctx context.Context) ([]*entity.Restaurant, error)
	UpdateLayout(ctx context.Context, id int64, patch entity.LayoutPatch) (*entity.Restaurant, error)
	UpdateHours(ctx context.Context, id int64, patch entity.HoursPatch) (*entity.Restaurant, error)
}

type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *entity.PushSubscription) error
	Delete(ctx context.Context, endpoint string) error
	GetAdminsByRestaurant(ctx context.Context, restaurantID int64) ([]*entity.PushSubscription, error)
	GetGuestsByPhone(ctx context.Context, normalizedPhone string) ([]*entity.PushSubscription, error)
}
