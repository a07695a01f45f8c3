// Package shift выводит конкретное окно смены ресторана для заданного
// момента времени. Смена может переходить через полночь (22:00-03:00),
// поэтому проверяются два кандидата: смена, начавшаяся сегодня, и смена,
// начавшаяся вчера. Вся арифметика ведётся в UTC.
package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultWorkStarts = "10:00"
	DefaultWorkEnds   = "23:00"
)

// TimeOfDay — время суток без даты, в минутах от полуночи.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay разбирает строку вида "10:00" или "09:30".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before сравнивает два времени суток.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// WorkHours — ежедневные часы работы ресторана.
// Ends <= Starts означает ночную смену с окончанием на следующий день.
type WorkHours struct {
	Starts TimeOfDay
	Ends   TimeOfDay
}

// ParseWorkHours собирает WorkHours из строк, подставляя дефолтные
// часы вместо пустых значений.
func ParseWorkHours(starts, ends string) (WorkHours, error) {
	if starts == "" {
		starts = DefaultWorkStarts
	}
	if ends == "" {
		ends = DefaultWorkEnds
	}
	s, err := ParseTimeOfDay(starts)
	if err != nil {
		return WorkHours{}, err
	}
	e, err := ParseTimeOfDay(ends)
	if err != nil {
		return WorkHours{}, err
	}
	return WorkHours{Starts: s, Ends: e}, nil
}

func (h WorkHours) crossesMidnight() bool {
	return h.Ends.Before(h.Starts) || h.Ends == h.Starts
}

// Window — конкретное окно смены: полуинтервал [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains проверяет попадание момента в окно.
func (w Window) Contains(at time.Time) bool {
	return !at.Before(w.Start) && at.Before(w.End)
}

// Resolve возвращает окно смены, содержащее момент at, либо ok=false,
// если ресторан в этот момент закрыт. Проверяются смена, привязанная к
// календарному дню at, и смена предыдущего дня: без второго кандидата
// время 01:00 при смене 22:00-03:00 ошибочно считалось бы закрытым.
func Resolve(hours WorkHours, at time.Time) (Window, bool) {
	at = at.UTC()

	today := candidateWindow(hours, at)
	if today.Contains(at) {
		return today, true
	}

	yesterday := candidateWindow(hours, addDays(at, -1))
	if yesterday.Contains(at) {
		return yesterday, true
	}

	return Window{}, false
}

// candidateWindow строит окно смены, начинающейся в календарный день day.
func candidateWindow(hours WorkHours, day time.Time) Window {
	start := atTimeOfDay(day, hours.Starts)
	end := atTimeOfDay(day, hours.Ends)
	if hours.crossesMidnight() {
		end = addDays(end, 1)
	}
	return Window{Start: start, End: end}
}

// atTimeOfDay возвращает новый момент: дата из day, время из tod.
func atTimeOfDay(day time.Time, tod TimeOfDay) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, tod.Hour, tod.Minute, 0, 0, time.UTC)
}

// addDays сдвигает момент на d календарных дней, не изменяя исходный.
func addDays(t time.Time, d int) time.Time {
	return t.AddDate(0, 0, d)
}

// ApplyCallerOffset переводит момент в локальную систему отсчёта того,
// кто вводил время. offsetMinutes — в соглашении JS getTimezoneOffset
// (UTC = local + offset), поэтому offset вычитается. Применяется до
// Resolve, не после.
func ApplyCallerOffset(at time.Time, offsetMinutes int) time.Time {
	return at.Add(-time.Duration(offsetMinutes) * time.Minute)
}
