// Package admission применяет правила приёма заявки на бронирование к
// уже считанному состоянию: окну смены и активным броням по столу и по
// телефону гостя. Пакет не ходит в хранилище, поэтому те же правила
// используются и сервисом, и фейковым хранилищем в тестах.
package admission

import (
	"fmt"
	"time"

	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/internal/pkg/shift"
)

const (
	// ClosingBuffer — за сколько до закрытия прекращается приём заявок.
	ClosingBuffer = time.Hour
	// TableBuffer — минимальный интервал между бронями одного стола.
	TableBuffer = time.Hour
)

// Candidate — заявка, прошедшая нормализацию. RequestedAt — исходный
// момент брони (в нём же хранятся dateTime существующих броней),
// ValidationAt — тот же момент, переведённый в систему отсчёта
// ресторана; окно смены резолвится именно по нему.
type Candidate struct {
	RestaurantID    int64
	TableID         string
	NormalizedPhone string
	RequestedAt     time.Time
	ValidationAt    time.Time
}

// Check прогоняет правила в порядке их старшинства, останавливаясь на
// первом нарушении. activeForTable и activeForPhone должны содержать
// только активные (PENDING/CONFIRMED/OCCUPIED) брони.
func Check(c Candidate, win shift.Window, activeForTable, activeForPhone []*entity.Booking) *entity.AdmissionError {
	if err := checkClosingBuffer(c, win); err != nil {
		return err
	}
	if err := checkDuplicateGuest(activeForPhone); err != nil {
		return err
	}
	if err := checkRestOfDayBlock(c, win, activeForTable); err != nil {
		return err
	}
	return checkProximity(c, activeForTable)
}

// OutOfHours — отказ для момента вне какой-либо смены.
func OutOfHours(hours shift.WorkHours) *entity.AdmissionError {
	return entity.NewAdmissionError(entity.ReasonOutOfHours,
		fmt.Sprintf("booking time must be within working hours (%s - %s)", hours.Starts, hours.Ends))
}

// Последний возможный слот — за час до закрытия. Сравнение в системе
// отсчёта ресторана, как и резолв окна.
func checkClosingBuffer(c Candidate, win shift.Window) *entity.AdmissionError {
	lastPossible := win.End.Add(-ClosingBuffer)
	if c.ValidationAt.After(lastPossible) {
		return entity.NewAdmissionError(entity.ReasonOutOfHours,
			"the last possible booking time is one hour before closing")
	}
	return nil
}

// Один гость — не больше одной живой брони в ресторане.
func checkDuplicateGuest(activeForPhone []*entity.Booking) *entity.AdmissionError {
	if len(activeForPhone) > 0 {
		return entity.NewAdmissionError(entity.ReasonDuplicateGuest,
			"a booking for this phone number already exists")
	}
	return nil
}

// checkRestOfDayBlock: стол освобождается только действием персонала, а не
// временем, поэтому активная бронь с dateTime в [начало смены, RequestedAt]
// удерживает стол до конца смены.
func checkRestOfDayBlock(c Candidate, win shift.Window, activeForTable []*entity.Booking) *entity.AdmissionError {
	for _, b := range activeForTable {
		if !b.DateTime.Before(win.Start) && !b.DateTime.After(c.RequestedAt) {
			return entity.NewAdmissionError(entity.ReasonTableHeld,
				"this table is occupied for the rest of the day by an earlier booking")
		}
	}
	return nil
}

// checkProximity ловит симметричный случай: существующая бронь ПОЗЖЕ
// запрошенного времени, но ближе часового буфера. Интервал открытый.
func checkProximity(c Candidate, activeForTable []*entity.Booking) *entity.AdmissionError {
	lo := c.RequestedAt.Add(-TableBuffer)
	hi := c.RequestedAt.Add(TableBuffer)
	for _, b := range activeForTable {
		if b.DateTime.After(lo) && b.DateTime.Before(hi) {
			return entity.NewAdmissionError(entity.ReasonTimeConflict,
				"this table is already booked near the selected time")
		}
	}
	return nil
}
