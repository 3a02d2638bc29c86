package services

import (
	"context"
	"fmt"
	"io"

	"lifetrack/internal/models"
	"lifetrack/internal/pdf"
	"lifetrack/internal/repositories"
)

type ReportService interface {
	Day(ctx context.Context, userID int64, date models.Date) (*models.DayReport, error)
	DayPDF(ctx context.Context, w io.Writer, userID int64, date models.Date) error
}

type reportService struct {
	store repositories.Store
	tasks DailyTaskService
	pdf   pdf.Generator
	clock Clock
}

func NewReportService(store repositories.Store, tasks DailyTaskService, gen pdf.Generator, clock Clock) ReportService {
	return &reportService{store: store, tasks: tasks, pdf: gen, clock: clock}
}

// Day builds the report for date. Today and later days go through rollover
// so the report shows what the day list shows; past days are read as stored.
func (s *reportService) Day(ctx context.Context, userID int64, date models.Date) (*models.DayReport, error) {
	var tasks []*models.DailyTask
	if date.Before(s.clock.Today()) {
		list, err := s.tasks.List(ctx, models.TaskFilter{UserID: userID, From: &date, To: &date})
		if err != nil {
			return nil, fmt.Errorf("tasks: %w", err)
		}
		tasks = list
	} else {
		res, err := s.tasks.ForDate(ctx, userID, date)
		if err != nil {
			return nil, fmt.Errorf("tasks: %w", err)
		}
		tasks = res.Tasks
	}

	earned, err := s.store.XP().DayNet(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("day xp: %w", err)
	}
	balance, err := s.store.XP().Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	streak, err := currentStreak(ctx, s.store.XP(), userID, s.clock.Today())
	if err != nil {
		return nil, err
	}

	r := &models.DayReport{
		Date:     date,
		Tasks:    tasks,
		XPEarned: earned,
		Balance:  balance,
		Streak:   streak,
	}
	for _, t := range tasks {
		if t.Completed {
			r.Completed++
		} else {
			r.Pending++
		}
		if t.OriginalDate.Before(date) {
			r.RolledOver++
		}
	}
	if len(tasks) > 0 {
		r.CompletionRate = float64(r.Completed) / float64(len(tasks))
	}
	return r, nil
}

func (s *reportService) DayPDF(ctx context.Context, w io.Writer, userID int64, date models.Date) error {
	r, err := s.Day(ctx, userID, date)
	if err != nil {
		return err
	}
	return s.pdf.DayReport(w, r)
}
