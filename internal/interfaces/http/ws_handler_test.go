package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	infra "github.com/goalstake/goalstake-server/internal/infrastructure"
	"github.com/goalstake/goalstake-server/internal/infrastructure/auth"
	"github.com/goalstake/goalstake-server/internal/infrastructure/validate"
	"github.com/goalstake/goalstake-server/internal/progress"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	user *domain.UserModel
}

func (s *stubUserRepo) FindByCredential(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	return s.user, nil
}
func (s *stubUserRepo) UpdateUser(ctx context.Context, post *domain.UserModel) error { return nil }
func (s *stubUserRepo) SaveUser(ctx context.Context, post *domain.UserModel) error   { return nil }
func (s *stubUserRepo) UpdateDailyGoal(ctx context.Context, userID string, goalMinutes int) error {
	return nil
}

type stubUsageUseCase struct {
	report *domain.ProgressReport
	ctxErr error
}

func (s *stubUsageUseCase) RecordScreenshot(ctx context.Context, user *domain.UserModel, imageURL, recognizedText string, day time.Time) (*domain.UsageEntryModel, error) {
	return nil, nil
}
func (s *stubUsageUseCase) RecordManual(ctx context.Context, user *domain.UserModel, minutes int, day time.Time) (*domain.UsageEntryModel, error) {
	return nil, nil
}
func (s *stubUsageUseCase) GetProgress(ctx context.Context, user *domain.UserModel, today time.Time) (*domain.ProgressReport, error) {
	s.ctxErr = ctx.Err()
	return s.report, nil
}
func (s *stubUsageUseCase) GetWeeklySummary(ctx context.Context, user *domain.UserModel, at time.Time) (*domain.WeeklySummary, error) {
	return nil, nil
}

func TestHandleProgressFeed(t *testing.T) {
	repo := &stubUserRepo{user: &domain.UserModel{ID: "u1", Username: "casey", DailyGoalMinutes: 120}}
	ucase := &stubUsageUseCase{report: &domain.ProgressReport{
		GoalMinutes: 120,
		Today:       progress.Snapshot{UsedMinutes: 60, Percent: 0.5},
		StreakDays:  3,
	}}
	jwtUtil := auth.NewJWTUtil("HS256", "secret", "token", time.Minute)
	handler := NewUsageHandler(ucase, repo, jwtUtil, validate.NewValidator())

	app := echo.New()
	app.GET("/ws/progress", handler.HandleProgressFeed(infra.NewWebsocket()),
		func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				jwtUtil.SetContextToken(c, &auth.AppTokenClaims{UID: "u1", Name: "casey"})
				return next(c)
			}
		})
	server := httptest.NewServer(app)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(server.URL, "http")+"/ws/progress", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("poll")))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	report := new(domain.ProgressReport)
	require.NoError(t, conn.ReadJSON(report))
	assert.Equal(t, 120, report.GoalMinutes)
	assert.Equal(t, 3, report.StreakDays)

	// the report was built on a live context, not the dead request one
	assert.NoError(t, ucase.ctxErr)
}
