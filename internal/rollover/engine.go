// Package rollover carries unfinished tasks forward to the day being viewed.
//
// A Collection is an explicit, caller-owned set of tasks: nothing is kept in
// package state, and persistence is left to the caller (see Changed).
// A Collection is not safe for concurrent mutation.
package rollover

import (
	"time"

	"lifetrack/internal/models"
)

type Collection struct {
	tasks   []*models.DailyTask
	index   map[string]int
	changed map[string]bool
	now     func() time.Time
}

// NewCollection wraps tasks in insertion order. The collection takes
// ownership of the pointers and mutates them in place.
func NewCollection(tasks []*models.DailyTask) *Collection {
	c := &Collection{
		index:   make(map[string]int, len(tasks)),
		changed: make(map[string]bool),
		now:     time.Now,
	}
	for _, t := range tasks {
		c.Add(t)
	}
	return c
}

// WithClock overrides the time source used for UpdatedAt and CompletedAt.
func (c *Collection) WithClock(now func() time.Time) *Collection {
	if now != nil {
		c.now = now
	}
	return c
}

// Add appends t. A task with an id already present replaces the old entry
// in place.
func (c *Collection) Add(t *models.DailyTask) {
	if t == nil {
		return
	}
	if i, ok := c.index[t.ID]; ok {
		c.tasks[i] = t
		return
	}
	c.index[t.ID] = len(c.tasks)
	c.tasks = append(c.tasks, t)
}

func (c *Collection) Get(id string) (*models.DailyTask, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.tasks[i], true
}

func (c *Collection) Len() int { return len(c.tasks) }

// All returns every task in insertion order.
func (c *Collection) All() []*models.DailyTask {
	out := make([]*models.DailyTask, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// GetTasksForDate returns the effective task list for date. Incomplete tasks
// from earlier days are moved to date with their rollover counter bumped;
// tasks already on date are returned untouched. Completed tasks stay on the
// day they were finished. Order is insertion order.
//
// Calling it again for the same date changes nothing, since moved tasks are
// no longer before date.
func (c *Collection) GetTasksForDate(date models.Date) []*models.DailyTask {
	out := make([]*models.DailyTask, 0)
	for _, t := range c.tasks {
		switch {
		case !t.Completed && t.CurrentDate.Before(date):
			t.CurrentDate = date
			t.Rollovers++
			t.UpdatedAt = c.now()
			c.changed[t.ID] = true
			out = append(out, t)
		case t.CurrentDate.Equal(date):
			out = append(out, t)
		}
	}
	return out
}

// Toggle flips the completion flag of the task with id. A task completed
// here is never carried forward again.
func (c *Collection) Toggle(id string) (*models.DailyTask, bool) {
	t, ok := c.Get(id)
	if !ok {
		return nil, false
	}
	now := c.now()
	t.Completed = !t.Completed
	if t.Completed {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
	c.changed[t.ID] = true
	return t, true
}

// Changed returns tasks mutated by GetTasksForDate or Toggle since the
// collection was built, in insertion order.
func (c *Collection) Changed() []*models.DailyTask {
	out := make([]*models.DailyTask, 0, len(c.changed))
	for _, t := range c.tasks {
		if c.changed[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// Result is the outcome of Plan.
type Result struct {
	Date       models.Date         `json:"date"`
	Tasks      []*models.DailyTask `json:"tasks"`
	RolledOver []*models.DailyTask `json:"rolled_over"`
}

// Plan runs a rollover for date over tasks and reports which tasks moved.
func Plan(tasks []*models.DailyTask, date models.Date) Result {
	c := NewCollection(tasks)
	list := c.GetTasksForDate(date)
	return Result{Date: date, Tasks: list, RolledOver: c.Changed()}
}
