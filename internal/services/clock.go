package services

import (
	"time"

	"lifetrack/internal/models"
)

// Clock resolves "now" and "today" in the user-facing timezone.
type Clock struct {
	Now func() time.Time
	Loc *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Loc: loc}
}

// Local is the current wall-clock time in Loc.
func (c Clock) Local() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Loc
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

func (c Clock) Today() models.Date {
	return models.DateOf(c.Local())
}
