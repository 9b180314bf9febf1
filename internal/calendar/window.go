package calendar

import (
	"errors"
	"time"
)

var (
	ErrInvalidWindow    = errors.New("invalid time window")
	ErrWindowCrossesDay = errors.New("window must stay within one calendar day")
	ErrSlotDuration     = errors.New("slot duration must be positive")
)

// Window представляет полуоткрытое окно [Start, End) внутри одного
// календарного дня. Значение неизменяемое, все операции возвращают копии.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow создаёт окно и проверяет инварианты: Start < End,
// обе границы на одном календарном дне (по UTC).
func NewWindow(start, end time.Time) (Window, error) {
	if start.IsZero() || end.IsZero() {
		return Window{}, ErrInvalidWindow
	}
	start = start.UTC()
	end = end.UTC()
	if !end.After(start) {
		return Window{}, ErrInvalidWindow
	}
	// Конец окна может совпадать с полуночью следующего дня — окно полуоткрытое.
	sy, sm, sd := start.Date()
	ey, em, ed := end.Add(-time.Nanosecond).Date()
	if sy != ey || sm != em || sd != ed {
		return Window{}, ErrWindowCrossesDay
	}
	return Window{Start: start, End: end}, nil
}

// Overlaps — пересечение полуоткрытых окон:
// [s1, e1) и [s2, e2) пересекаются, если s1 < e2 && s2 < e1.
// Касание концами пересечением не считается.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Contains — окно целиком содержит other.
func (w Window) Contains(other Window) bool {
	return !other.Start.Before(w.Start) && !other.End.After(w.End)
}

// Duration возвращает длительность окна.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Minutes — длительность в целых минутах, для денормализации в броне.
func (w Window) Minutes() int64 {
	return int64(w.Duration() / time.Minute)
}

// Day возвращает полночь календарного дня окна (UTC).
func (w Window) Day() time.Time {
	return Midnight(w.Start)
}

// Midnight обрезает t до полуночи своего дня в UTC.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SplitToWindows разбивает окно на слоты фиксированной длительности.
// "Хвост" меньшей длительности, чем slotDuration, отбрасывается.
func SplitToWindows(w Window, slotDuration time.Duration) ([]Window, error) {
	if slotDuration <= 0 {
		return nil, ErrSlotDuration
	}
	if !w.End.After(w.Start) {
		return []Window{}, nil
	}

	var slots []Window
	for cur := w.Start; !cur.Add(slotDuration).After(w.End); cur = cur.Add(slotDuration) {
		slots = append(slots, Window{Start: cur, End: cur.Add(slotDuration)})
	}
	return slots, nil
}

// DailyGrid строит сетку часовых (или иных) слотов рабочего дня date:
// границы дня задаются минутами от полуночи [dayStartMin, dayEndMin).
// Для дефолтных 10:00–23:00 и шага 60 минут получается 13 слотов.
func DailyGrid(date time.Time, dayStartMin, dayEndMin int, slotDuration time.Duration) ([]Window, error) {
	if dayEndMin <= dayStartMin {
		return nil, ErrInvalidWindow
	}
	midnight := Midnight(date)
	day := Window{
		Start: midnight.Add(time.Duration(dayStartMin) * time.Minute),
		End:   midnight.Add(time.Duration(dayEndMin) * time.Minute),
	}
	return SplitToWindows(day, slotDuration)
}

// HasConflict проверяет, пересекается ли окно хотя бы с одним из existing,
// и возвращает найденные конфликты.
func HasConflict(w Window, existing []Window) (bool, []Window) {
	var conflicts []Window
	for _, e := range existing {
		if w.Overlaps(e) {
			conflicts = append(conflicts, e)
		}
	}
	return len(conflicts) > 0, conflicts
}
