package controller

import (
	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the REST API under /api and game sessions under /ws.
func RegisterRoutes(app *fiber.App, gc *GameController, wsc *WebSocketController, origins []string) {
	app.Get("/ws/game/:gameId",
		middleware.EnsureClientID(),
		middleware.WebSocketUpgrade(),
		websocket.New(wsc.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Origins:         origins,
		}),
	)

	api := app.Group("/api", middleware.EnsureClientID())

	api.Post("/game", gc.CreateGame)
	api.Get("/game/:gameId", gc.GetGameState)
	api.Delete("/game/:gameId", gc.EndGame)
	api.Post("/game/:gameId/move", gc.MakeMove)
	api.Post("/game/:gameId/click", gc.Click)
	api.Post("/game/:gameId/reset", gc.Reset)
	api.Get("/game/:gameId/moves/:square", gc.LegalMoves)

	api.Get("/stats/:name", gc.PlayerStats)
	api.Get("/stats/:name/games", gc.History)
}
