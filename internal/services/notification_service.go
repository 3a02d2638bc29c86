package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"go.uber.org/zap"

	"lifetrack/internal/models"
	"lifetrack/internal/repositories"
)

// NotificationService fans events out to the channels a user opted into.
// Delivery runs in the background; failures are logged and never reach the
// caller.
type NotificationService interface {
	Welcome(ctx context.Context, user *models.User)
	TasksRolledOver(ctx context.Context, userID int64, date models.Date, tasks []*models.DailyTask)
	RewardRedeemed(ctx context.Context, userID int64, reward *models.Reward, balance int)
	// Close waits for in-flight deliveries.
	Close()
}

type notificationService struct {
	users repositories.UserRepository
	tg    TelegramSender // nil when telegram is not configured
	email EmailService   // nil when SMTP is not configured
	log   *zap.Logger
	wg    sync.WaitGroup
}

func NewNotificationService(users repositories.UserRepository, tg TelegramSender, email EmailService, log *zap.Logger) NotificationService {
	return &notificationService{users: users, tg: tg, email: email, log: log}
}

func (s *notificationService) Welcome(ctx context.Context, user *models.User) {
	if s.email == nil || user == nil {
		return
	}
	s.dispatch(func() {
		if err := s.email.SendWelcomeEmail(user.Email, user.DisplayName); err != nil {
			s.log.Warn("notify.welcome", zap.Int64("user_id", user.ID), zap.Error(err))
		}
	})
}

func (s *notificationService) TasksRolledOver(ctx context.Context, userID int64, date models.Date, tasks []*models.DailyTask) {
	if len(tasks) == 0 || (s.tg == nil && s.email == nil) {
		return
	}
	snapshot := make([]*models.DailyTask, len(tasks))
	for i, t := range tasks {
		snapshot[i] = t.Clone()
	}
	s.toUser(ctx, userID, "notify.rollover",
		func(u *models.User) error { return s.tg.SendMessage(u.TelegramChatID, rolloverText(date, snapshot)) },
		func(u *models.User) error { return s.email.SendRolloverDigest(u.Email, date, snapshot) },
	)
}

func (s *notificationService) RewardRedeemed(ctx context.Context, userID int64, reward *models.Reward, balance int) {
	if reward == nil || (s.tg == nil && s.email == nil) {
		return
	}
	r := *reward
	s.toUser(ctx, userID, "notify.redeem",
		func(u *models.User) error {
			text := fmt.Sprintf("🎁 <b>%s</b> redeemed for %d XP. Balance: %d XP",
				html.EscapeString(r.Name), r.BasePrice, balance)
			return s.tg.SendMessage(u.TelegramChatID, text)
		},
		func(u *models.User) error { return s.email.SendRedemptionEmail(u.Email, &r, balance) },
	)
}

func (s *notificationService) Close() {
	s.wg.Wait()
}

func (s *notificationService) dispatch(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// toUser loads the user's preferences and delivers to every enabled channel.
func (s *notificationService) toUser(ctx context.Context, userID int64, op string, viaTelegram, viaEmail func(*models.User) error) {
	ctx = context.WithoutCancel(ctx)
	s.dispatch(func() {
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			s.log.Warn(op+".user", zap.Int64("user_id", userID), zap.Error(err))
			return
		}
		if s.tg != nil && u.NotifyTelegram && u.TelegramChatID != 0 {
			if err := viaTelegram(u); err != nil {
				s.log.Warn(op+".telegram", zap.Int64("user_id", userID), zap.Error(err))
			}
		}
		if s.email != nil && u.NotifyEmail {
			if err := viaEmail(u); err != nil {
				s.log.Warn(op+".email", zap.Int64("user_id", userID), zap.Error(err))
			}
		}
	})
}

func rolloverText(date models.Date, tasks []*models.DailyTask) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏭ <b>%d task(s) moved to %s</b>\n", len(tasks), date)
	for _, t := range tasks {
		fmt.Fprintf(&b, "• %s", html.EscapeString(t.Title))
		if t.Rollovers > 1 {
			fmt.Fprintf(&b, " <i>(x%d)</i>", t.Rollovers)
		}
		b.WriteString("\n")
	}
	return b.String()
}
