package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dlotsss/brondau-server/config"
	repository "github.com/dlotsss/brondau-server/internal/database/postgres"
	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/internal/pkg/admission"
	"github.com/dlotsss/brondau-server/internal/pkg/shift"
	"github.com/dlotsss/brondau-server/pkg/queue"
)

type OriginRole string

const (
	OriginGuest OriginRole = "GUEST"
	OriginStaff OriginRole = "STAFF"
)

// SubmitBookingRequest представляет заявку на бронирование стола
type SubmitBookingRequest struct {
	RestaurantID   int64      `json:"-"`
	TableID        string     `json:"table_id" binding:"required"`
	TableLabel     string     `json:"table_label" binding:"required"`
	GuestName      string     `json:"guest_name" binding:"required"`
	GuestPhone     string     `json:"guest_phone"`
	GuestEmail     string     `json:"guest_email"`
	GuestCount     int        `json:"guest_count" binding:"required,min=1,max=50"`
	DateTime       time.Time  `json:"date_time" binding:"required"`
	TimezoneOffset *int       `json:"timezone_offset"`
	Origin         OriginRole `json:"-"`
}

type bookingService struct {
	bookingRepo    repository.BookingRepository
	restaurantRepo repository.RestaurantRepository
	events         EventPublisher
	cfg            config.BookingConfig
	sweepBatch     int
}

// NewBookingService создает новый экземпляр BookingService
func NewBookingService(
	bookingRepo repository.BookingRepository,
	restaurantRepo repository.RestaurantRepository,
	events EventPublisher,
	cfg config.BookingConfig,
	sweepBatch int,
) BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		restaurantRepo: restaurantRepo,
		events:         events,
		cfg:            cfg,
		sweepBatch:     sweepBatch,
	}
}

// SubmitBooking решает, принять ли заявку: резолвит окно смены, гоняет
// правила приёма по считанному активному набору и вставляет запись.
// Проверка и вставка повторяются хранилищем одной serializable-
// транзакцией; при конфликте сериализации весь цикл чтение-проверка-
// запись повторяется один раз.
func (s *bookingService) SubmitBooking(ctx context.Context, req *SubmitBookingRequest) (*entity.Booking, error) {
	normalizedPhone := entity.NormalizePhone(req.GuestPhone)

	if req.Origin != OriginStaff {
		if normalizedPhone == "" {
			return nil, entity.ErrPhoneRequired
		}
		if req.GuestEmail == "" {
			return nil, entity.ErrEmailRequired
		}
	}
	if req.GuestCount <= 0 {
		return nil, entity.ErrGuestCountRequired
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant: %w", err)
	}

	hours, err := shift.ParseWorkHours(restaurant.WorkStarts, restaurant.WorkEnds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidWorkHours, err)
	}

	// Время, введённое человеком, переводится в систему отсчёта
	// ресторана до резолва смены
	validationAt := req.DateTime.UTC()
	if req.TimezoneOffset != nil {
		validationAt = shift.ApplyCallerOffset(validationAt, *req.TimezoneOffset)
	}

	status := entity.BookingStatusPending
	if req.Origin == OriginStaff {
		status = entity.BookingStatusConfirmed
	}

	booking := &entity.Booking{
		RestaurantID: req.RestaurantID,
		TableID:      req.TableID,
		TableLabel:   req.TableLabel,
		GuestName:    req.GuestName,
		GuestPhone:   normalizedPhone,
		GuestEmail:   req.GuestEmail,
		GuestCount:   req.GuestCount,
		DateTime:     req.DateTime.UTC(),
		Status:       status,
	}

	skipChecks := req.Origin == OriginStaff && s.cfg.StaffBypassChecks
	var win shift.Window

	if !skipChecks {
		var ok bool
		win, ok = shift.Resolve(hours, validationAt)
		if !ok {
			return nil, admission.OutOfHours(hours)
		}
	}

	if err := s.admit(ctx, booking, win, validationAt, skipChecks); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"booking_id":    booking.ID,
		"restaurant_id": booking.RestaurantID,
		"table_id":      booking.TableID,
		"status":        booking.Status,
	}).Info("Booking admitted")

	if s.events != nil {
		if err := s.events.PublishBookingEvent(ctx, queue.TaskTypeBookingRequested, booking); err != nil {
			logrus.Errorf("Failed to publish booking event: %v", err)
		}
	}

	return booking, nil
}

// admit выполняет цикл чтение-проверка-запись; при конфликте
// сериализации повторяет его ровно один раз.
func (s *bookingService) admit(ctx context.Context, booking *entity.Booking, win shift.Window, validationAt time.Time, skipChecks bool) error {
	err := s.tryAdmit(ctx, booking, win, validationAt, skipChecks)
	if errors.Is(err, entity.ErrTxSerialization) {
		logrus.WithField("table_id", booking.TableID).Warn("Serialization conflict on admission, retrying once")
		err = s.tryAdmit(ctx, booking, win, validationAt, skipChecks)
	}
	return err
}

func (s *bookingService) tryAdmit(ctx context.Context, booking *entity.Booking, win shift.Window, validationAt time.Time, skipChecks bool) error {
	if !skipChecks {
		activeForTable, err := s.bookingRepo.GetActiveByTable(ctx, booking.RestaurantID, booking.TableID)
		if err != nil {
			return fmt.Errorf("failed to load active bookings for table: %w", err)
		}

		// У заявок персонала телефон опционален: без телефона правило
		// дубликата проверять не по чему
		var activeForPhone []*entity.Booking
		if booking.GuestPhone != "" {
			activeForPhone, err = s.bookingRepo.GetActiveByPhone(ctx, booking.RestaurantID, booking.GuestPhone)
			if err != nil {
				return fmt.Errorf("failed to load active bookings for phone: %w", err)
			}
		}

		candidate := admission.Candidate{
			RestaurantID:    booking.RestaurantID,
			TableID:         booking.TableID,
			NormalizedPhone: booking.GuestPhone,
			RequestedAt:     booking.DateTime,
			ValidationAt:    validationAt,
		}
		if admErr := admission.Check(candidate, win, activeForTable, activeForPhone); admErr != nil {
			return admErr
		}
	}

	return s.bookingRepo.Create(ctx, booking, win, skipChecks)
}

// UpdateBookingStatus применяет переход жизненного цикла; допустимость
// перехода валидирует хранилище под блокировкой строки.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID int64, patch entity.StatusPatch) (*entity.Booking, error) {
	if !patch.Status.Valid() {
		return nil, entity.ErrInvalidStatus
	}

	booking, err := s.bookingRepo.UpdateStatus(ctx, bookingID, patch)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"status":     booking.Status,
	}).Info("Booking status updated")

	if s.events != nil {
		var kind queue.TaskType
		switch booking.Status {
		case entity.BookingStatusConfirmed:
			kind = queue.TaskTypeBookingConfirmed
		case entity.BookingStatusDeclined:
			kind = queue.TaskTypeBookingDeclined
		}
		if kind != "" {
			if err := s.events.PublishBookingEvent(ctx, kind, booking); err != nil {
				logrus.Errorf("Failed to publish status event: %v", err)
			}
		}
	}

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (s *bookingService) GetRestaurantBookings(ctx context.Context, restaurantID int64) ([]*entity.Booking, error) {
	bookings, err := s.bookingRepo.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant bookings: %w", err)
	}
	return bookings, nil
}

// SweepExpired снимает неподтверждённые брони старше порога PendingTTL.
// Повторный запуск для уже обработанных строк — no-op: UPDATE условный
// по status = 'PENDING'.
func (s *bookingService) SweepExpired(ctx context.Context) ([]*entity.Booking, error) {
	if s.cfg.StoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.StoreTimeout)
		defer cancel()
	}

	olderThan := time.Now().UTC().Add(-s.cfg.PendingTTL)
	swept, err := s.bookingRepo.SweepExpired(ctx, olderThan, s.sweepBatch)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep expired bookings: %w", err)
	}

	for _, booking := range swept {
		if s.events != nil {
			if err := s.events.PublishBookingEvent(ctx, queue.TaskTypeBookingExpired, booking); err != nil {
				logrus.Errorf("Failed to publish expiry event for booking %d: %v", booking.ID, err)
			}
		}
	}

	if len(swept) > 0 {
		logrus.Infof("Swept %d expired bookings", len(swept))
	}

	return swept, nil
}
