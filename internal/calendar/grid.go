package calendar

import "time"

// GridSize is six full weeks.
const GridSize = 42

// GenerateGrid returns the 42 days shown for anchor's month, starting on the
// Sunday on or before the first of the month.
func GenerateGrid(anchor Date) [GridSize]Date {
	first := Date{Year: anchor.Year, Month: anchor.Month, Day: 1}
	start := first.AddDays(-int(first.Weekday() - time.Sunday))

	var grid [GridSize]Date
	for i := range grid {
		grid[i] = start.AddDays(i)
	}
	return grid
}

// LastOfMonth returns the final day of d's month.
func LastOfMonth(d Date) Date {
	return NewDate(d.Year, d.Month+1, 0)
}

// ParseMonth parses YYYY-MM into the first day of that month.
func ParseMonth(s string) (Date, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}
