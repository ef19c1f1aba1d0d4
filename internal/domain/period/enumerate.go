package period

// Enumerate lists every calendar date from start to end inclusive in
// canonical form. It returns nil when either bound is missing or
// unparseable, or when start is after end.
func Enumerate(start, end string) []string {
	s, ok := Parse(start)
	if !ok {
		return nil
	}
	e, ok := Parse(end)
	if !ok || e.Before(s) {
		return nil
	}

	dates := make([]string, 0, DaysBetween(s, e)+1)
	for d := s; !d.After(e); d = AddDays(d, 1) {
		dates = append(dates, Format(d))
	}
	return dates
}
