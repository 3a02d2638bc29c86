package models

import "time"

// Availability windows a reward can be redeemed in.
const (
	WindowAnytime   = "anytime"
	WindowMorning   = "morning"
	WindowAfternoon = "afternoon"
	WindowEvening   = "evening"
	WindowWeekday   = "weekday"
	WindowWeekend   = "weekend"
)

// Reward is a catalog entry purchasable with XP.
type Reward struct {
	ID                 int64     `json:"id"`
	Category           string    `json:"category"`
	Name               string    `json:"name"`
	BasePrice          int       `json:"base_price"`
	AvailabilityWindow string    `json:"availability_window"`
	MaxDailyUse        int       `json:"max_daily_use"` // 0 = unlimited
	RequiresStreak     *int      `json:"requires_streak,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
