package task

import "time"

// Clock supplies the current time used for "today".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the clock's location.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.T
}

// FixedDay returns a clock pinned to noon of the given YYYY-MM-DD day in loc.
func FixedDay(day string, loc *time.Location) (FixedClock, error) {
	d, err := ParseDate(day, loc)
	if err != nil {
		return FixedClock{}, err
	}
	return FixedClock{T: d.Add(12 * time.Hour)}, nil
}
