package xp

import (
	"fmt"
	"math"
	"sort"
)

// NearEarnedWindow is how far above the balance a reward may be priced to
// count as nearly earned.
const NearEarnedWindow = 100

// CatalogItem is the minimal view of a reward needed for suggestions.
type CatalogItem struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type NearEarnedReward struct {
	Name         string `json:"name"`
	Price        int    `json:"price"`
	XPNeeded     int    `json:"xp_needed"`
	TasksNeeded  int    `json:"tasks_needed"`
	MinMinutes   int    `json:"min_minutes"`
	MaxMinutes   int    `json:"max_minutes"`
	TimeEstimate string `json:"time_estimate"`
}

// NearEarnedRewards lists catalog rewards the balance does not cover yet but
// that are at most NearEarnedWindow XP away, closest first.
func NearEarnedRewards(currentXP int, catalog []CatalogItem) []NearEarnedReward {
	out := make([]NearEarnedReward, 0)
	for _, item := range catalog {
		needed := item.Price - currentXP
		if needed <= 0 || needed > NearEarnedWindow {
			continue
		}
		tasks := TasksNeeded(needed)
		out = append(out, NearEarnedReward{
			Name:         item.Name,
			Price:        item.Price,
			XPNeeded:     needed,
			TasksNeeded:  tasks,
			MinMinutes:   tasks * 30,
			MaxMinutes:   tasks * 45,
			TimeEstimate: fmt.Sprintf("%d-%d min", tasks*30, tasks*45),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].XPNeeded < out[j].XPNeeded })
	return out
}

// TasksNeeded estimates how many average tasks cover xpNeeded.
func TasksNeeded(xpNeeded int) int {
	if xpNeeded <= 0 {
		return 0
	}
	return int(math.Ceil(float64(xpNeeded) / AverageTaskXP))
}

type EarningGuide struct {
	Tasks        string   `json:"tasks"`
	TimeEstimate string   `json:"time_estimate"`
	Suggestions  []string `json:"suggestions"`
}

type guideTier struct {
	label       string
	price       int
	suggestions []string
}

var guideTiers = []guideTier{
	{"15 Min Break", 50, []string{"Clear two quick admin items", "Finish one focus task"}},
	{"1 Hour Downtime", 100, []string{"Three focus tasks back to back", "One deep task plus a quick one"}},
	{"Episode of a Show", 150, []string{"Two deep tasks in the morning", "A creative task and two focus tasks"}},
	{"Takeout Meal", 300, []string{"A full focused half-day", "Keep a streak going for bonus XP"}},
	{"Half Day Off", 500, []string{"Two strong days of deep work", "Weekend sessions earn extra"}},
}

// RewardEarningGuide is static reference data: for each reward tier, roughly
// how much work it takes to earn.
func RewardEarningGuide() map[string]EarningGuide {
	guide := make(map[string]EarningGuide, len(guideTiers))
	for _, tier := range guideTiers {
		tasks := TasksNeeded(tier.price)
		suggestions := make([]string, len(tier.suggestions))
		copy(suggestions, tier.suggestions)
		guide[fmt.Sprintf("%s (%d XP)", tier.label, tier.price)] = EarningGuide{
			Tasks:        fmt.Sprintf("%d focus tasks", tasks),
			TimeEstimate: formatHours(tasks*30, tasks*45),
			Suggestions:  suggestions,
		}
	}
	return guide
}

func formatHours(minMinutes, maxMinutes int) string {
	if maxMinutes < 120 {
		return fmt.Sprintf("%d-%d min", minMinutes, maxMinutes)
	}
	return fmt.Sprintf("%.1f-%.1f hours", float64(minMinutes)/60, float64(maxMinutes)/60)
}
