package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifetrack/internal/authz"
	"lifetrack/internal/handlers"
	"lifetrack/internal/middleware"
	"lifetrack/internal/models"
	"lifetrack/internal/rollover"
	"lifetrack/internal/routes"
	"lifetrack/internal/services"
	"lifetrack/internal/utils"
	"lifetrack/internal/xp"
)

var (
	secret = []byte("handler-test-secret-123")
	clock  = services.Clock{Now: func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }, Loc: time.UTC}
)

func init() { gin.SetMode(gin.TestMode) }

// ---- fakes

type fakeTasks struct {
	services.DailyTaskService
	created []models.CreateTaskRequest
	forDate []models.Date
	toggled []models.ToggleTaskRequest
	getErr  error
}

func (f *fakeTasks) Create(ctx context.Context, userID int64, req models.CreateTaskRequest) (*models.DailyTask, error) {
	f.created = append(f.created, req)
	return &models.DailyTask{ID: "t1", UserID: userID, Title: req.Title}, nil
}

func (f *fakeTasks) GetByID(ctx context.Context, userID int64, id string) (*models.DailyTask, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.DailyTask{ID: id, UserID: userID}, nil
}

func (f *fakeTasks) ForDate(ctx context.Context, userID int64, date models.Date) (*rollover.Result, error) {
	f.forDate = append(f.forDate, date)
	return &rollover.Result{Date: date, Tasks: []*models.DailyTask{}, RolledOver: []*models.DailyTask{}}, nil
}

func (f *fakeTasks) Toggle(ctx context.Context, userID int64, id string, req models.ToggleTaskRequest) (*services.ToggleResult, error) {
	f.toggled = append(f.toggled, req)
	return &services.ToggleResult{Task: &models.DailyTask{ID: id, Completed: true}, XPDelta: 35, Balance: 35}, nil
}

type fakeXP struct{ services.XPService }

func (fakeXP) Calculate(in xp.TaskContext) xp.Calculation { return xp.CalculateTaskXP(in) }

type fakeRewards struct {
	services.RewardService
	redeemErr error
}

func (f *fakeRewards) Create(ctx context.Context, r *models.Reward) (*models.Reward, error) {
	r.ID = 9
	return r, nil
}

func (f *fakeRewards) Redeem(ctx context.Context, userID, rewardID int64) (*services.Redemption, error) {
	if f.redeemErr != nil {
		return nil, f.redeemErr
	}
	return &services.Redemption{Reward: &models.Reward{ID: rewardID}, Spent: 10, Balance: 5}, nil
}

type fakeAuth struct{ services.AuthService }

func (fakeAuth) Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	return nil, nil, services.ErrInvalidCredentials
}

type fakeReports struct{ services.ReportService }

func (fakeReports) DayPDF(ctx context.Context, w io.Writer, userID int64, date models.Date) error {
	_, err := w.Write([]byte("%PDF-1.3"))
	return err
}

type pinger struct{ err error }

func (p pinger) PingContext(ctx context.Context) error { return p.err }

// ---- harness

type harness struct {
	router  *gin.Engine
	tasks   *fakeTasks
	rewards *fakeRewards
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := zap.NewNop()
	h := &harness{tasks: &fakeTasks{}, rewards: &fakeRewards{}}
	r := gin.New()
	routes.SetupRoutes(r, secret,
		middleware.NewIPRateLimiter(3, time.Minute),
		handlers.NewHealthHandler(pinger{}),
		handlers.NewAuthHandler(fakeAuth{}, log),
		handlers.NewUserHandler(nil, log),
		handlers.NewTaskHandler(h.tasks, clock, log),
		handlers.NewXPHandler(fakeXP{}, log),
		handlers.NewRewardHandler(h.rewards, log),
		handlers.NewReportHandler(fakeReports{}, clock, log),
	)
	h.router = r
	return h
}

func token(t *testing.T, role int) string {
	t.Helper()
	tok, _, err := utils.SignAccessToken(secret, 1, role, time.Minute, time.Now())
	require.NoError(t, err)
	return tok
}

func (h *harness) do(method, path, tok string, body any) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// ---- tests

func TestProtectedRoutesNeedToken(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/tasks/day/today", "/xp/balance", "/rewards", "/me"} {
		assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, path, "", nil).Code, path)
	}
}

func TestCreateTask(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/tasks", token(t, authz.RoleMember), map[string]any{"title": "Plan sprint", "work_type": "deep"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, h.tasks.created, 1)
	assert.Equal(t, "deep", h.tasks.created[0].WorkType)

	w = h.do(http.MethodPost, "/tasks", token(t, authz.RoleMember), map[string]any{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDayListAcceptsToday(t *testing.T) {
	h := newHarness(t)
	tok := token(t, authz.RoleMember)

	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/tasks/day/today", tok, nil).Code)
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/tasks/day/2026-10-21", tok, nil).Code)
	assert.Equal(t, []models.Date{models.NewDate(2026, 10, 19), models.NewDate(2026, 10, 21)}, h.tasks.forDate)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/tasks/day/21-10-2026", tok, nil).Code)
}

func TestToggleWithoutBody(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/tasks/abc/toggle", token(t, authz.RoleMember), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `35`, string(mustField(t, w.Body.Bytes(), "xp_delta")))
}

func TestTaskNotFound(t *testing.T) {
	h := newHarness(t)
	h.tasks.getErr = services.ErrNotFound

	w := h.do(http.MethodGet, "/tasks/missing", token(t, authz.RoleMember), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalculateReferenceCase(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/xp/calculate", token(t, authz.RoleMember), map[string]any{
		"task_type": "deep", "difficulty": "expert", "streak_days": 5,
		"time_of_day": "morning", "completed_in_session": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var calc xp.Calculation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &calc))
	assert.Equal(t, 119, calc.FinalXP)
}

func TestRedeemErrorsMapToConflict(t *testing.T) {
	h := newHarness(t)
	tok := token(t, authz.RoleMember)

	for _, err := range []error{
		services.ErrInsufficientXP, services.ErrDailyLimitReached,
		services.ErrStreakRequired, services.ErrRewardUnavailable,
	} {
		h.rewards.redeemErr = err
		w := h.do(http.MethodPost, "/rewards/3/redeem", tok, nil)
		assert.Equal(t, http.StatusConflict, w.Code, err.Error())
		assert.Contains(t, w.Body.String(), err.Error())
	}

	h.rewards.redeemErr = errors.New("db down")
	w := h.do(http.MethodPost, "/rewards/3/redeem", tok, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")

	h.rewards.redeemErr = nil
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/rewards/abc/redeem", tok, nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodPost, "/rewards/3/redeem", tok, nil).Code)
}

func TestRewardAdminOnly(t *testing.T) {
	h := newHarness(t)
	body := map[string]any{"name": "Nap", "base_price": 30}

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/rewards", token(t, authz.RoleMember), body).Code)
	assert.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/rewards", token(t, authz.RoleAdmin), body).Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	h := newHarness(t)
	body := map[string]any{"email": "a@b.co", "password": "whatever1"}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/login", "", body).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, h.do(http.MethodPost, "/login", "", body).Code)
}

func TestDayPDF(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/reports/day/2026-10-19/pdf", token(t, authz.RoleMember), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "day-2026-10-19.pdf")
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/healthz", "", nil).Code)

	r := gin.New()
	r.GET("/healthz", handlers.NewHealthHandler(pinger{err: errors.New("refused")}).Healthz)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func mustField(t *testing.T, body []byte, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	v, ok := m[key]
	require.True(t, ok, "missing %q in %s", key, body)
	return v
}
