package xp

import (
	"strings"
	"time"

	"lifetrack/internal/models"
)

// ParseTaskType maps user input to a TaskType; unknown input yields the default.
func ParseTaskType(input string) TaskType {
	t := TaskType(strings.ToLower(strings.TrimSpace(input)))
	if _, ok := baseXP[t]; ok {
		return t
	}
	return DefaultTaskType
}

// ParseDifficulty maps user input to a Difficulty; unknown input yields the default.
func ParseDifficulty(input string) Difficulty {
	d := Difficulty(strings.ToLower(strings.TrimSpace(input)))
	if _, ok := difficultyMultipliers[d]; ok {
		return d
	}
	return DefaultDifficulty
}

// ParseTimeOfDay returns "" for anything that is not a known time of day.
func ParseTimeOfDay(input string) TimeOfDay {
	switch t := TimeOfDay(strings.ToLower(strings.TrimSpace(input))); t {
	case Morning, Afternoon, Evening:
		return t
	default:
		return ""
	}
}

// TimeOfDayFor buckets a wall-clock time: morning before noon, afternoon
// until 17:00, evening after.
func TimeOfDayFor(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h < 12:
		return Morning
	case h < 17:
		return Afternoon
	default:
		return Evening
	}
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ContextForTask derives calculator input from a stored task. Deep work
// scores as a deep task and light work as a quick one; priority stands in
// for difficulty.
func ContextForTask(workType models.WorkType, priority models.TaskPriority) TaskContext {
	ctx := TaskContext{TaskType: TaskQuick, Difficulty: DifficultyMedium}
	if workType == models.WorkDeep {
		ctx.TaskType = TaskDeep
	}
	switch priority {
	case models.PriorityLow:
		ctx.Difficulty = DifficultyEasy
	case models.PriorityHigh, models.PriorityUrgent:
		ctx.Difficulty = DifficultyHard
	case models.PriorityCritical:
		ctx.Difficulty = DifficultyExpert
	}
	return ctx
}
