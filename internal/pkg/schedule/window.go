// Package schedule содержит календарную арифметику для окон недели и месяца.
package schedule

import "time"

// WeekWindow возвращает границы текущей недели с понедельника.
// Начало недели сохраняет время суток "сейчас", а не полночь:
// так считал исходный планировщик, и отчёты на это завязаны.
func WeekWindow(now time.Time) (start, end time.Time) {
	offset := (int(now.Weekday()) + 6) % 7 // Monday = 0
	start = now.AddDate(0, 0, -offset)
	end = start.AddDate(0, 0, 7)
	return start, end
}

// MonthWindow возвращает границы текущего календарного месяца:
// от 1-го числа 00:00 UTC до 1-го числа следующего месяца.
// Верхняя граница используется включительно (см. ShiftRepository).
func MonthWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}
