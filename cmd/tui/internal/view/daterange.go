package view

import "time"

// DatePreset is one of the date ranges the dashboard filter cycles through.
type DatePreset int

const (
	DateAll DatePreset = iota
	DateThisMonth
	DateLastMonth
	DateThisWeek
	datePresetCount
)

func (p DatePreset) String() string {
	switch p {
	case DateAll:
		return "All Time"
	case DateThisMonth:
		return "This Month"
	case DateLastMonth:
		return "Last Month"
	case DateThisWeek:
		return "This Week"
	}

	return "Unknown"
}

// Next returns the preset after p, wrapping around.
func (p DatePreset) Next() DatePreset {
	return (p + 1) % datePresetCount
}

// Range returns the inclusive calendar dates of p relative to now. Both are
// nil for DateAll.
func (p DatePreset) Range(now time.Time) (start, end *time.Time) {
	var s, e time.Time

	switch p {
	case DateThisMonth:
		s = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		e = s.AddDate(0, 1, -1)
	case DateLastMonth:
		s = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		e = s.AddDate(0, 1, -1)
	case DateThisWeek:
		// Weeks start on Monday.
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		s = time.Date(now.Year(), now.Month(), now.Day()-offset+1, 0, 0, 0, 0, time.UTC)
		e = s.AddDate(0, 0, 6)
	default:
		return nil, nil
	}

	return &s, &e
}
