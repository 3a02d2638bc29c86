package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifetrack/internal/models"
)

func newTaskFixture(t *testing.T) (*memStore, *recordingNotifier, DailyTaskService) {
	t.Helper()
	store := newMemStore()
	n := &recordingNotifier{}
	return store, n, NewDailyTaskService(store, n, fixedClock(monday09), nopLog)
}

func seedTask(store *memStore, userID int64, title string, day models.Date, completed bool) *models.DailyTask {
	task := &models.DailyTask{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        title,
		WorkType:     models.WorkLight,
		Priority:     models.PriorityMedium,
		Completed:    completed,
		OriginalDate: day,
		CurrentDate:  day,
	}
	store.addTask(task)
	return task
}

func TestCreateTaskDefaults(t *testing.T) {
	_, _, svc := newTaskFixture(t)

	task, err := svc.Create(context.Background(), 1, models.CreateTaskRequest{Title: "  Inbox zero  ", WorkType: "??"})
	require.NoError(t, err)

	today := models.NewDate(2026, 10, 19)
	assert.Equal(t, "Inbox zero", task.Title)
	assert.Equal(t, models.WorkLight, task.WorkType)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, today, task.OriginalDate)
	assert.Equal(t, today, task.CurrentDate)
	assert.Zero(t, task.Rollovers)
	_, err = uuid.Parse(task.ID)
	assert.NoError(t, err)
}

func TestCreateTaskValidation(t *testing.T) {
	_, _, svc := newTaskFixture(t)

	_, err := svc.Create(context.Background(), 1, models.CreateTaskRequest{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	neg := -5
	_, err = svc.Create(context.Background(), 1, models.CreateTaskRequest{Title: "x", EstimatedDuration: &neg})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestForDateRollsOverUnfinishedWork(t *testing.T) {
	store, notifier, svc := newTaskFixture(t)
	yesterday := models.NewDate(2026, 10, 18)
	today := yesterday.AddDays(1)

	seedTask(store, 1, "a", yesterday, false)
	seedTask(store, 1, "b", yesterday, false)
	seedTask(store, 1, "c", yesterday, false)
	done := seedTask(store, 1, "done", yesterday, true)
	seedTask(store, 2, "someone else", yesterday, false)

	res, err := svc.ForDate(context.Background(), 1, today)
	require.NoError(t, err)

	require.Len(t, res.Tasks, 3)
	assert.Len(t, res.RolledOver, 3)
	for i, title := range []string{"a", "b", "c"} {
		got := res.Tasks[i]
		assert.Equal(t, title, got.Title)
		assert.Equal(t, 1, got.Rollovers)
		assert.Equal(t, today, got.CurrentDate)
		assert.Equal(t, yesterday, got.OriginalDate)

		persisted := store.task(got.ID)
		assert.Equal(t, 1, persisted.Rollovers)
		assert.Equal(t, today, persisted.CurrentDate)
	}
	assert.Equal(t, yesterday, store.task(done.ID).CurrentDate)
	require.Len(t, notifier.rollovers, 1)
	assert.Len(t, notifier.rollovers[0], 3)
}

func TestForDateIsIdempotent(t *testing.T) {
	store, notifier, svc := newTaskFixture(t)
	yesterday := models.NewDate(2026, 10, 18)
	seedTask(store, 1, "a", yesterday, false)

	first, err := svc.ForDate(context.Background(), 1, yesterday.AddDays(1))
	require.NoError(t, err)
	second, err := svc.ForDate(context.Background(), 1, yesterday.AddDays(1))
	require.NoError(t, err)

	require.Len(t, second.Tasks, 1)
	assert.Equal(t, first.Tasks[0].Rollovers, second.Tasks[0].Rollovers)
	assert.Empty(t, second.RolledOver)
	assert.Len(t, notifier.rollovers, 1)
}

func TestForDateKeepsConcurrentCompletion(t *testing.T) {
	store, notifier, svc := newTaskFixture(t)
	yesterday := models.NewDate(2026, 10, 18)
	today := yesterday.AddDays(1)

	raced := seedTask(store, 1, "finished elsewhere", yesterday, false)
	other := seedTask(store, 1, "still open", yesterday, false)
	store.beforeRollOver = func(s *memStore) {
		s.beforeRollOver = nil
		for _, task := range s.tasks {
			if task.ID == raced.ID {
				task.Completed = true
			}
		}
	}

	res, err := svc.ForDate(context.Background(), 1, today)
	require.NoError(t, err)

	require.Len(t, res.Tasks, 1)
	assert.Equal(t, other.ID, res.Tasks[0].ID)
	require.Len(t, res.RolledOver, 1)
	assert.Equal(t, other.ID, res.RolledOver[0].ID)

	persisted := store.task(raced.ID)
	assert.True(t, persisted.Completed)
	assert.Equal(t, yesterday, persisted.CurrentDate)
	assert.Zero(t, persisted.Rollovers)

	require.Len(t, notifier.rollovers, 1)
	assert.Len(t, notifier.rollovers[0], 1)
}

func TestToggleAwardsAndRevokesXP(t *testing.T) {
	store, _, svc := newTaskFixture(t)
	ctx := context.Background()
	today := models.NewDate(2026, 10, 19)

	task := seedTask(store, 1, "Design review", today, false)
	task.WorkType = models.WorkDeep
	task.Priority = models.PriorityCritical
	require.NoError(t, store.Tasks().Update(ctx, task))

	res, err := svc.Toggle(ctx, 1, task.ID, models.ToggleTaskRequest{})
	require.NoError(t, err)
	assert.True(t, res.Task.Completed)
	assert.NotNil(t, res.Task.CompletedAt)
	require.NotNil(t, res.Calculation)
	// deep 60 * expert 1.5 * deep weighting 1.1 = 99, +5 morning
	assert.Equal(t, 104, res.XPDelta)
	assert.Equal(t, 104, res.Balance)

	res, err = svc.Toggle(ctx, 1, task.ID, models.ToggleTaskRequest{})
	require.NoError(t, err)
	assert.False(t, res.Task.Completed)
	assert.Nil(t, res.Task.CompletedAt)
	assert.Equal(t, -104, res.XPDelta)
	assert.Equal(t, 0, res.Balance)

	require.Len(t, store.ledger, 2)
	assert.Equal(t, models.XPRevoke, store.ledger[1].Kind)
	assert.Equal(t, today, store.ledger[1].Day)
}

func TestToggleOverridesAndStreak(t *testing.T) {
	store, _, svc := newTaskFixture(t)
	ctx := context.Background()
	today := models.NewDate(2026, 10, 19)

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.XP().Insert(ctx, &models.XPEntry{
			UserID: 1, Kind: models.XPEarn, Amount: 10, Day: today.AddDays(-i),
		}))
	}
	task := seedTask(store, 1, "Ship", today, false)

	res, err := svc.Toggle(ctx, 1, task.ID, models.ToggleTaskRequest{
		TaskType: "deep", Difficulty: "expert", CompletedInSession: true,
	})
	require.NoError(t, err)
	// the reference case: 99 + streak 7 + morning 5 + session 8
	assert.Equal(t, 119, res.XPDelta)
	assert.Equal(t, 7, res.Calculation.StreakBonus)
}

func TestToggleUnknownTask(t *testing.T) {
	_, _, svc := newTaskFixture(t)

	_, err := svc.Toggle(context.Background(), 1, "not-a-uuid", models.ToggleTaskRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Toggle(context.Background(), 1, uuid.NewString(), models.ToggleTaskRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateKeepsScheduling(t *testing.T) {
	store, _, svc := newTaskFixture(t)
	day := models.NewDate(2026, 10, 17)
	task := seedTask(store, 1, "old", day, false)
	task.CurrentDate = day.AddDays(2)
	task.Rollovers = 2
	require.NoError(t, store.Tasks().Update(context.Background(), task))

	title, prio := "new", "urgent"
	got, err := svc.Update(context.Background(), 1, task.ID, models.UpdateTaskRequest{Title: &title, Priority: &prio})
	require.NoError(t, err)

	assert.Equal(t, "new", got.Title)
	assert.Equal(t, models.PriorityUrgent, got.Priority)
	assert.Equal(t, day, got.OriginalDate)
	assert.Equal(t, day.AddDays(2), got.CurrentDate)
	assert.Equal(t, 2, got.Rollovers)

	empty := " "
	_, err = svc.Update(context.Background(), 1, task.ID, models.UpdateTaskRequest{Title: &empty})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	store, _, svc := newTaskFixture(t)
	task := seedTask(store, 1, "mine", models.NewDate(2026, 10, 19), false)

	assert.ErrorIs(t, svc.Delete(context.Background(), 2, task.ID), ErrNotFound)
	assert.NoError(t, svc.Delete(context.Background(), 1, task.ID))
	assert.Nil(t, store.task(task.ID))
}
