// Package xp converts finished work into experience points and relates XP
// balances to the reward catalog. Everything here is pure and safe for
// concurrent use.
package xp

import (
	"fmt"
	"math"
	"strings"
)

type TaskType string

const (
	TaskQuick    TaskType = "quick"
	TaskFocus    TaskType = "focus"
	TaskDeep     TaskType = "deep"
	TaskCreative TaskType = "creative"
	TaskAdmin    TaskType = "admin"
)

type Difficulty string

const (
	DifficultyTrivial Difficulty = "trivial"
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyExpert  Difficulty = "expert"
)

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

const (
	DefaultTaskType   = TaskFocus
	DefaultDifficulty = DifficultyMedium

	// AverageTaskXP is the assumed value of a typical (focus) task, used by
	// the earning heuristics.
	AverageTaskXP = 35

	MaxStreakBonus = 25

	MorningBonus = 5
	SessionBonus = 8
	WeekendBonus = 10
)

// baseXP is the starting amount per task type.
var baseXP = map[TaskType]int{
	TaskQuick:    15,
	TaskFocus:    35,
	TaskDeep:     60,
	TaskCreative: 45,
	TaskAdmin:    20,
}

var difficultyMultipliers = map[Difficulty]float64{
	DifficultyTrivial: 0.8,
	DifficultyEasy:    0.9,
	DifficultyMedium:  1.0,
	DifficultyHard:    1.25,
	DifficultyExpert:  1.5,
}

// taskTypeMultipliers is a second weighting per task type, kept apart from
// baseXP on purpose: the type moves both the starting amount and a
// multiplicative nudge.
var taskTypeMultipliers = map[TaskType]float64{
	TaskDeep:     1.1,
	TaskCreative: 1.05,
	TaskAdmin:    0.9,
}

// TaskContext describes a finished task. Every field is optional.
type TaskContext struct {
	TaskType           TaskType   `json:"task_type,omitempty"`
	Difficulty         Difficulty `json:"difficulty,omitempty"`
	StreakDays         int        `json:"streak_days,omitempty"`
	TimeOfDay          TimeOfDay  `json:"time_of_day,omitempty"`
	CompletedInSession bool       `json:"completed_in_session,omitempty"`
	IsWeekend          bool       `json:"is_weekend,omitempty"`
}

// Calculation is the audited result of CalculateTaskXP.
type Calculation struct {
	BaseXP               int      `json:"base_xp"`
	TaskTypeMultiplier   float64  `json:"task_type_multiplier"`
	DifficultyMultiplier float64  `json:"difficulty_multiplier"`
	StreakBonus          int      `json:"streak_bonus"`
	TimeBonus            int      `json:"time_bonus"`
	FinalXP              int      `json:"final_xp"`
	Breakdown            []string `json:"breakdown"`
}

// CalculateTaskXP never fails: unknown task types score as the default type
// and unknown difficulties get a neutral multiplier.
func CalculateTaskXP(in TaskContext) Calculation {
	taskType := in.TaskType
	base, ok := baseXP[taskType]
	if !ok {
		taskType = DefaultTaskType
		base = baseXP[taskType]
	}
	difficulty := in.Difficulty
	if _, ok := difficultyMultipliers[difficulty]; !ok {
		difficulty = DefaultDifficulty
	}

	diffMult := DifficultyMultiplier(difficulty)
	typeMult := TaskTypeMultiplier(taskType)
	streak := StreakBonus(in.StreakDays)

	breakdown := []string{fmt.Sprintf("Base XP (%s): %d", taskType, base)}
	if diffMult != 1.0 {
		breakdown = append(breakdown, fmt.Sprintf("Difficulty (%s): x%s", difficulty, formatMultiplier(diffMult)))
	}
	if typeMult != 1.0 {
		breakdown = append(breakdown, fmt.Sprintf("Task type weighting (%s): x%s", taskType, formatMultiplier(typeMult)))
	}
	if streak > 0 {
		breakdown = append(breakdown, fmt.Sprintf("Streak bonus (%d days): +%d", in.StreakDays, streak))
	}

	timeBonus := 0
	if in.TimeOfDay == Morning {
		timeBonus += MorningBonus
		breakdown = append(breakdown, fmt.Sprintf("Morning bonus: +%d", MorningBonus))
	}
	if in.CompletedInSession {
		timeBonus += SessionBonus
		breakdown = append(breakdown, fmt.Sprintf("Focus session bonus: +%d", SessionBonus))
	}
	if in.IsWeekend {
		timeBonus += WeekendBonus
		breakdown = append(breakdown, fmt.Sprintf("Weekend bonus: +%d", WeekendBonus))
	}

	final := int(math.Round(float64(base)*diffMult*typeMult + float64(streak) + float64(timeBonus)))
	breakdown = append(breakdown, fmt.Sprintf("Total: %d XP", final))

	return Calculation{
		BaseXP:               base,
		TaskTypeMultiplier:   typeMult,
		DifficultyMultiplier: diffMult,
		StreakBonus:          streak,
		TimeBonus:            timeBonus,
		FinalXP:              final,
		Breakdown:            breakdown,
	}
}

func DifficultyMultiplier(d Difficulty) float64 {
	if m, ok := difficultyMultipliers[d]; ok {
		return m
	}
	return 1.0
}

func TaskTypeMultiplier(t TaskType) float64 {
	if m, ok := taskTypeMultipliers[t]; ok {
		return m
	}
	return 1.0
}

// StreakBonus grows logarithmically with consecutive productive days and is
// capped at MaxStreakBonus.
func StreakBonus(days int) int {
	if days <= 0 {
		return 0
	}
	bonus := int(math.Round(math.Log(float64(days+1)) * 4))
	if bonus > MaxStreakBonus {
		return MaxStreakBonus
	}
	return bonus
}

func formatMultiplier(m float64) string {
	s := fmt.Sprintf("%.2f", m)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
