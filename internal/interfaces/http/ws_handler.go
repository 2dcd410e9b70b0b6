package http

import (
	"context"
	"net/http"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	infra "github.com/goalstake/goalstake-server/internal/infrastructure"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// progressFeedTimeout per poll budget for building a report
const progressFeedTimeout = 10 * time.Second

// HandleProgressFeed push a fresh progress report whenever the client asks
// for one; any inbound frame is treated as a poll.
//
// The caller is resolved before the upgrade: once the connection is hijacked
// the request context is canceled, so the feed loop runs on the captured user
// and a detached per-poll context.
func (ush *UsageHandler) HandleProgressFeed(ws *infra.Websocket) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := ush.contextUser(c)
		if err != nil {
			if err == domain.ErrNoSuchUser {
				return c.NoContent(http.StatusUnauthorized)
			}
			return err
		}
		return ws.WithHeartbeat(ush.progressFeed(user))(c)
	}
}

func (ush *UsageHandler) progressFeed(user *domain.UserModel) func(*websocket.Conn) error {
	return func(conn *websocket.Conn) error {
		if _, _, err := conn.ReadMessage(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), progressFeedTimeout)
		defer cancel()
		report, err := ush.usageUseCase.GetProgress(ctx, user, time.Now())
		if err != nil {
			return err
		}
		return conn.WriteJSON(report)
	}
}
