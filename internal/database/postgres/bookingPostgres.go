package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/internal/pkg/shift"
)

const bookingColumns = `
	id, restaurant_id, table_id, table_label, guest_name, guest_phone,
	guest_email, guest_count, date_time, status, decline_reason,
	created_at, updated_at`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create выполняет три проверки конфликтов и вставку в одной serializable-
// транзакции: два конкурирующих запроса на тот же стол не могут оба
// увидеть "конфликтов нет" — один из них получит 40001.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking, win shift.Window, skipChecks bool) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", mapTxError(err))
	}
	defer tx.Rollback()

	if !skipChecks {
		if err := r.checkConflicts(ctx, tx, booking, win); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO bookings (
			restaurant_id, table_id, table_label, guest_name, guest_phone,
			guest_email, guest_count, date_time, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	now := time.Now().UTC()
	err = tx.QueryRowContext(ctx, query,
		booking.RestaurantID,
		booking.TableID,
		booking.TableLabel,
		booking.GuestName,
		booking.GuestPhone,
		nullString(booking.GuestEmail),
		booking.GuestCount,
		booking.DateTime,
		booking.Status,
		now,
		now,
	).Scan(&booking.ID)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", mapTxError(err))
	}

	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapTxError(err))
	}

	return nil
}

// checkConflicts повторяет правила приёма на стороне хранилища. Телефон
// сравнивается по нормализованной форме и для старых строк с форматированием.
func (r *bookingRepository) checkConflicts(ctx context.Context, tx *sql.Tx, booking *entity.Booking, win shift.Window) error {
	var exists int

	// Duplicate guest: активная бронь на тот же телефон в этом ресторане.
	// Без телефона (заявки персонала) сравнивать не по чему: пустая
	// нормализованная форма совпала бы с любой другой строкой без телефона.
	if booking.GuestPhone != "" {
		query := `
			SELECT 1 FROM bookings
			WHERE restaurant_id = $1
			  AND regexp_replace(guest_phone, '\D', '', 'g') = $2
			  AND status IN ('PENDING', 'CONFIRMED', 'OCCUPIED')
			LIMIT 1
		`
		err := tx.QueryRowContext(ctx, query, booking.RestaurantID, booking.GuestPhone).Scan(&exists)
		if err == nil {
			return entity.NewAdmissionError(entity.ReasonDuplicateGuest,
				"a booking for this phone number already exists")
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check duplicate guest: %w", mapTxError(err))
		}
	}

	// Rest-of-day block: более ранняя активная бронь в ту же смену держит
	// стол до действия персонала
	query := `
		SELECT 1 FROM bookings
		WHERE restaurant_id = $1
		  AND table_id = $2
		  AND date_time >= $3
		  AND date_time <= $4
		  AND status IN ('PENDING', 'CONFIRMED', 'OCCUPIED')
		LIMIT 1
	`
	err := tx.QueryRowContext(ctx, query, booking.RestaurantID, booking.TableID, win.Start, booking.DateTime).Scan(&exists)
	if err == nil {
		return entity.NewAdmissionError(entity.ReasonTableHeld,
			"this table is occupied for the rest of the day by an earlier booking")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check rest-of-day block: %w", mapTxError(err))
	}

	// Proximity buffer: любая активная бронь стола в открытом интервале ±1ч
	query = `
		SELECT 1 FROM bookings
		WHERE restaurant_id = $1
		  AND table_id = $2
		  AND date_time > ($3::timestamptz - INTERVAL '1 hour')
		  AND date_time < ($3::timestamptz + INTERVAL '1 hour')
		  AND status IN ('PENDING', 'CONFIRMED', 'OCCUPIED')
		LIMIT 1
	`
	err = tx.QueryRowContext(ctx, query, booking.RestaurantID, booking.TableID, booking.DateTime).Scan(&exists)
	if err == nil {
		return entity.NewAdmissionError(entity.ReasonTimeConflict,
			"this table is already booked near the selected time")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check proximity buffer: %w", mapTxError(err))
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", mapTxError(err))
	}
	return booking, nil
}

func (r *bookingRepository) GetByRestaurant(ctx context.Context, restaurantID int64) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE restaurant_id = $1
		ORDER BY date_time DESC
	`
	return r.queryBookings(ctx, query, restaurantID)
}

func (r *bookingRepository) GetActiveByPhone(ctx context.Context, restaurantID int64, normalizedPhone string) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE restaurant_id = $1
		  AND regexp_replace(guest_phone, '\D', '', 'g') = $2
		  AND status IN ('PENDING', 'CONFIRMED', 'OCCUPIED')
		ORDER BY date_time ASC
	`
	return r.queryBookings(ctx, query, restaurantID, normalizedPhone)
}

func (r *bookingRepository) GetActiveByTable(ctx context.Context, restaurantID int64, tableID string) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE restaurant_id = $1
		  AND table_id = $2
		  AND status IN ('PENDING', 'CONFIRMED', 'OCCUPIED')
		ORDER BY date_time ASC
	`
	return r.queryBookings(ctx, query, restaurantID, tableID)
}

// UpdateStatus читает текущий статус с блокировкой строки, валидирует
// переход и применяет патч. Переход из терминального статуса — ошибка,
// а не тихий успех.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, patch entity.StatusPatch) (*entity.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", mapTxError(err))
	}
	defer tx.Rollback()

	var current entity.BookingStatus
	query := `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current status: %w", mapTxError(err))
	}

	if !current.CanTransitionTo(patch.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", entity.ErrInvalidTransition, current, patch.Status)
	}

	query = `
		UPDATE bookings
		SET status = $1, decline_reason = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + bookingColumns

	booking, err := scanBooking(tx.QueryRowContext(ctx, query, patch.Status, patch.DeclineReason, time.Now().UTC(), id))
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", mapTxError(err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", mapTxError(err))
	}

	return booking, nil
}

// SweepExpired — идемпотентный условный UPDATE: трогает только строки со
// status = 'PENDING', поэтому повторный запуск и гонка с приёмом заявок
// безопасны без табличной блокировки.
func (r *bookingRepository) SweepExpired(ctx context.Context, olderThan time.Time, limit int) ([]*entity.Booking, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		UPDATE bookings
		SET status = 'DECLINED', decline_reason = $1, updated_at = $2
		WHERE id IN (
			SELECT id FROM bookings
			WHERE status = 'PENDING' AND created_at < $3
			ORDER BY created_at ASC
			LIMIT $4
		)
		RETURNING ` + bookingColumns

	rows, err := r.db.QueryContext(ctx, query, entity.DeclineReasonExpired, time.Now().UTC(), olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep expired bookings: %w", mapTxError(err))
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan swept booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating swept bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*entity.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", mapTxError(err))
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*entity.Booking, error) {
	var booking entity.Booking
	var email, reason sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.RestaurantID,
		&booking.TableID,
		&booking.TableLabel,
		&booking.GuestName,
		&booking.GuestPhone,
		&email,
		&booking.GuestCount,
		&booking.DateTime,
		&booking.Status,
		&reason,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.GuestEmail = email.String
	if reason.Valid {
		booking.DeclineReason = &reason.String
	}
	return &booking, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// mapTxError переводит инфраструктурные коды Postgres в доменные ошибки:
// 40001 — конфликт сериализации, который сервис ретраит один раз.
func mapTxError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "40001" {
		return entity.ErrTxSerialization
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return entity.ErrStoreTimeout
	}
	return err
}
