package http

import (
	infra "github.com/goalstake/goalstake-server/internal/infrastructure"
	"github.com/labstack/echo/v4"
)

func v1Endpoint(
	websocket *infra.Websocket,
	UserHandler *UserHandler,
	UsageHandler *UsageHandler,
	GroupHandler *GroupHandler,
	ChallengeHandler *ChallengeHandler,
	jwtMiddleware echo.MiddlewareFunc,
	refreshMiddleware echo.MiddlewareFunc,
	requestIDMiddleware echo.MiddlewareFunc,
	traceLoggerMiddleware echo.MiddlewareFunc,
) *endpoint {
	return &endpoint{
		apiVersion:  "api/v1",
		middlewares: []echo.MiddlewareFunc{requestIDMiddleware, traceLoggerMiddleware},
		groups: []*apiGroup{
			{
				prefix: "/user",
				routes: []*route{
					{"POST", "/login", UserHandler.HandleSignIn, nil},
					{"PUT", "/sign-out", UserHandler.HandleSignOut, nil},
					{"POST", "/sign-up", UserHandler.HandleSignUp, nil},
					{"GET", "/exists", UserHandler.HandleUserExists, nil},
					{"PUT", "/daily-goal", UserHandler.HandleSetDailyGoal, []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware}},
				},
			},
			{
				prefix:      "/usage",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"POST", "/screenshot", UsageHandler.HandleRecordScreenshot, nil},
					{"POST", "/manual", UsageHandler.HandleRecordManual, nil},
					{"GET", "/progress", UsageHandler.HandleGetProgress, nil},
					{"GET", "/week", UsageHandler.HandleGetWeek, nil},
				},
			},
			{
				prefix:      "/group",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"POST", "/", GroupHandler.HandleCreateGroup, nil},
					{"GET", "/", GroupHandler.HandleListMyGroups, nil},
					{"GET", "/:id", GroupHandler.HandleGetGroup, nil},
					{"POST", "/:id/join", GroupHandler.HandleJoinGroup, nil},
					{"PUT", "/:id/settings", GroupHandler.HandleUpdateSettings, nil},
					{"GET", "/:id/challenges", ChallengeHandler.HandleListGroupChallenges, nil},
				},
			},
			{
				prefix:      "/challenge",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware, refreshMiddleware},
				routes: []*route{
					{"POST", "/", ChallengeHandler.HandleCreateChallenge, nil},
					{"GET", "/", ChallengeHandler.HandleListMyChallenges, nil},
					{"GET", "/:id", ChallengeHandler.HandleGetChallenge, nil},
					{"POST", "/:id/join", ChallengeHandler.HandleJoinChallenge, nil},
					{"POST", "/:id/entries", ChallengeHandler.HandleRecordEntry, nil},
					{"GET", "/:id/entries", ChallengeHandler.HandleListMyEntries, nil},
				},
			},
			{
				prefix:      "/ws",
				middlewares: []echo.MiddlewareFunc{jwtMiddleware},
				routes: []*route{
					{"GET", "/progress", UsageHandler.HandleProgressFeed(websocket), nil},
				},
			},
		},
	}
}
