package models

// DayReport summarizes one calendar day for a user.
type DayReport struct {
	Date           Date         `json:"date"`
	Tasks          []*DailyTask `json:"tasks"`
	Completed      int          `json:"completed"`
	Pending        int          `json:"pending"`
	RolledOver     int          `json:"rolled_over"` // tasks on this day that came from earlier days
	XPEarned       int          `json:"xp_earned"`
	Balance        int          `json:"balance"`
	Streak         int          `json:"streak"`
	CompletionRate float64      `json:"completion_rate"` // 0..1
}
