package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"lifetrack/internal/models"
	"lifetrack/internal/repositories"
)

// monday09 is 2026-10-19 09:00 UTC, a Monday morning.
var monday09 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }, Loc: time.UTC}
}

type memStore struct {
	mu      sync.Mutex
	tasks   []*models.DailyTask
	rewards []*models.Reward
	ledger  []*models.XPEntry
	users   []*models.User
	nextID  int64
	txCount int

	// beforeRollOver runs ahead of each RollOver write, standing in for a
	// transaction that commits between the read and the write-back.
	beforeRollOver func(s *memStore)
}

func newMemStore() *memStore { return &memStore{} }

func (s *memStore) Tasks() repositories.DailyTaskRepository { return &memTasks{s} }
func (s *memStore) Rewards() repositories.RewardRepository  { return &memRewards{s} }
func (s *memStore) XP() repositories.XPRepository           { return &memXP{s} }
func (s *memStore) Users() repositories.UserRepository      { return &memUsers{s} }

func (s *memStore) WithTx(ctx context.Context, fn func(repositories.Store) error) error {
	s.txCount++
	return fn(s)
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addTask(t *models.DailyTask) {
	s.tasks = append(s.tasks, t.Clone())
}

func (s *memStore) task(id string) *models.DailyTask {
	for _, t := range s.tasks {
		if t.ID == id {
			return t.Clone()
		}
	}
	return nil
}

type memTasks struct{ s *memStore }

func (r *memTasks) Store(ctx context.Context, t *models.DailyTask) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tasks = append(r.s.tasks, t.Clone())
	return nil
}

func (r *memTasks) FindByID(ctx context.Context, userID int64, id string) (*models.DailyTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tasks {
		if t.ID == id && t.UserID == userID {
			return t.Clone(), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memTasks) FindByIDForUpdate(ctx context.Context, userID int64, id string) (*models.DailyTask, error) {
	return r.FindByID(ctx, userID, id)
}

func (r *memTasks) FindAll(ctx context.Context, f models.TaskFilter) ([]*models.DailyTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.DailyTask, 0)
	for _, t := range r.s.tasks {
		if t.UserID != f.UserID {
			continue
		}
		if f.From != nil && t.CurrentDate.Before(*f.From) {
			continue
		}
		if f.To != nil && t.CurrentDate.After(*f.To) {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		out = append(out, t.Clone())
	}
	return out, nil
}

func (r *memTasks) ListForDay(ctx context.Context, userID int64, date models.Date) ([]*models.DailyTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.DailyTask, 0)
	for _, t := range r.s.tasks {
		if t.UserID != userID {
			continue
		}
		if t.CurrentDate.Equal(date) || (t.CurrentDate.Before(date) && !t.Completed) {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (r *memTasks) RollOver(ctx context.Context, task *models.DailyTask, date models.Date) (bool, error) {
	if hook := r.s.beforeRollOver; hook != nil {
		hook(r.s)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tasks {
		if t.ID != task.ID || t.UserID != task.UserID {
			continue
		}
		if t.Completed || !t.CurrentDate.Before(date) {
			return false, nil
		}
		t.CurrentDate = date
		t.Rollovers++
		t.UpdatedAt = task.UpdatedAt
		task.CurrentDate = date
		task.Rollovers = t.Rollovers
		return true, nil
	}
	return false, nil
}

func (r *memTasks) Update(ctx context.Context, task *models.DailyTask) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, t := range r.s.tasks {
		if t.ID == task.ID && t.UserID == task.UserID {
			next := task.Clone()
			next.OriginalDate = t.OriginalDate
			if next.Rollovers < t.Rollovers {
				next.Rollovers = t.Rollovers
			}
			r.s.tasks[i] = next
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *memTasks) Delete(ctx context.Context, userID int64, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, t := range r.s.tasks {
		if t.ID == id && t.UserID == userID {
			r.s.tasks = append(r.s.tasks[:i], r.s.tasks[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type memRewards struct{ s *memStore }

func (r *memRewards) Create(ctx context.Context, rw *models.Reward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.rewards {
		if e.Name == rw.Name {
			return repositories.ErrConflict
		}
	}
	rw.ID = r.s.id()
	cp := *rw
	r.s.rewards = append(r.s.rewards, &cp)
	return nil
}

func (r *memRewards) FindByID(ctx context.Context, id int64) (*models.Reward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.rewards {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memRewards) FindAll(ctx context.Context) ([]*models.Reward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Reward, 0, len(r.s.rewards))
	for _, e := range r.s.rewards {
		cp := *e
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BasePrice < out[j].BasePrice })
	return out, nil
}

func (r *memRewards) Update(ctx context.Context, rw *models.Reward) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, e := range r.s.rewards {
		if e.ID == rw.ID {
			cp := *rw
			r.s.rewards[i] = &cp
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *memRewards) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, e := range r.s.rewards {
		if e.ID == id {
			r.s.rewards = append(r.s.rewards[:i], r.s.rewards[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *memRewards) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.rewards), nil
}

type memXP struct{ s *memStore }

func (r *memXP) Insert(ctx context.Context, e *models.XPEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	cp := *e
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}

func (r *memXP) Balance(ctx context.Context, userID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, e := range r.s.ledger {
		if e.UserID == userID {
			n += e.Amount
		}
	}
	return n, nil
}

func (r *memXP) List(ctx context.Context, userID int64, limit, offset int) ([]*models.XPEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.XPEntry, 0)
	for i := len(r.s.ledger) - 1; i >= 0; i-- {
		if r.s.ledger[i].UserID == userID {
			out = append(out, r.s.ledger[i])
		}
	}
	if offset >= len(out) {
		return []*models.XPEntry{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memXP) TaskNet(ctx context.Context, userID int64, taskID string) (int, models.Date, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	net := 0
	var day models.Date
	for _, e := range r.s.ledger {
		if e.UserID != userID || e.TaskID == nil || *e.TaskID != taskID || e.Kind == models.XPRedeem {
			continue
		}
		net += e.Amount
		if e.Kind == models.XPEarn && e.Day.After(day) {
			day = e.Day
		}
	}
	return net, day, nil
}

func (r *memXP) DayNet(ctx context.Context, userID int64, day models.Date) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, e := range r.s.ledger {
		if e.UserID == userID && e.Day.Equal(day) && e.Kind != models.XPRedeem {
			n += e.Amount
		}
	}
	return n, nil
}

func (r *memXP) CountRedemptions(ctx context.Context, userID, rewardID int64, day models.Date) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, e := range r.s.ledger {
		if e.UserID == userID && e.Kind == models.XPRedeem && e.RewardID != nil &&
			*e.RewardID == rewardID && e.Day.Equal(day) {
			n++
		}
	}
	return n, nil
}

func (r *memXP) ProductiveDays(ctx context.Context, userID int64, since models.Date) ([]models.Date, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sums := map[models.Date]int{}
	for _, e := range r.s.ledger {
		if e.UserID == userID && e.Kind != models.XPRedeem && !e.Day.Before(since) {
			sums[e.Day] += e.Amount
		}
	}
	days := make([]models.Date, 0, len(sums))
	for d, n := range sums {
		if n > 0 {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days, nil
}

type memUsers struct{ s *memStore }

func (r *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUsers) Create(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := r.find(func(e *models.User) bool { return strings.EqualFold(e.Email, u.Email) }); err == nil {
		return repositories.ErrConflict
	}
	u.ID = r.s.id()
	u.CreatedAt = time.Now()
	cp := *u
	r.s.users = append(r.s.users, &cp)
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *memUsers) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.User, 0)
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUsers) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

func (r *memUsers) LockForUpdate(ctx context.Context, id int64) error {
	_, err := r.GetByID(ctx, id)
	return err
}

func (r *memUsers) update(match func(*models.User) bool, fn func(*models.User)) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			fn(u)
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUsers) UpdateRefresh(ctx context.Context, userID int64, token string, exp time.Time) error {
	_, err := r.update(func(u *models.User) bool { return u.ID == userID }, func(u *models.User) {
		u.RefreshToken, u.RefreshExpiresAt, u.RefreshRevoked = &token, &exp, false
	})
	return err
}

func (r *memUsers) RotateRefresh(ctx context.Context, oldToken, newToken string, exp time.Time) (*models.User, error) {
	return r.update(func(u *models.User) bool {
		return u.RefreshToken != nil && *u.RefreshToken == oldToken && !u.RefreshRevoked
	}, func(u *models.User) {
		u.RefreshToken, u.RefreshExpiresAt = &newToken, &exp
	})
}

func (r *memUsers) ClearRefresh(ctx context.Context, userID int64) error {
	_, err := r.update(func(u *models.User) bool { return u.ID == userID }, func(u *models.User) {
		u.RefreshToken, u.RefreshExpiresAt, u.RefreshRevoked = nil, nil, true
	})
	return err
}

func (r *memUsers) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(u *models.User) bool { return u.RefreshToken != nil && *u.RefreshToken == token })
}

func (r *memUsers) UpdateNotifications(ctx context.Context, user *models.User) error {
	_, err := r.update(func(u *models.User) bool { return u.ID == user.ID }, func(u *models.User) {
		u.TelegramChatID, u.NotifyTelegram, u.NotifyEmail = user.TelegramChatID, user.NotifyTelegram, user.NotifyEmail
	})
	return err
}

// recordingNotifier captures events synchronously.
type recordingNotifier struct {
	mu        sync.Mutex
	welcomed  []int64
	rollovers [][]*models.DailyTask
	redeemed  []string
}

func (n *recordingNotifier) Welcome(ctx context.Context, user *models.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomed = append(n.welcomed, user.ID)
}

func (n *recordingNotifier) TasksRolledOver(ctx context.Context, userID int64, date models.Date, tasks []*models.DailyTask) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rollovers = append(n.rollovers, tasks)
}

func (n *recordingNotifier) RewardRedeemed(ctx context.Context, userID int64, reward *models.Reward, balance int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redeemed = append(n.redeemed, reward.Name)
}

func (n *recordingNotifier) Close() {}

var nopLog = zap.NewNop()
