package report

import "time"

// WeekdayLabels are the scheduler's column headers, Sunday first.
var WeekdayLabels = [...]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

// DaysInMonth returns the number of days in the given month, derived from
// day zero of the following month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the first day of the month,
// 0 = Sunday.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// MonthGrid builds the flat cell sequence for a month view: leading zero
// cells for the days before day 1, then the day numbers 1..N. There are no
// trailing placeholders; a zero cell renders as an empty slot.
func MonthGrid(year int, month time.Month) []int {
	blanks := FirstWeekday(year, month)
	days := DaysInMonth(year, month)

	cells := make([]int, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, 0)
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, d)
	}
	return cells
}
