package controller

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

type createGameRequest struct {
	White string `json:"white"`
	Black string `json:"black"`
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
	}

	gameID, err := gc.gameService.CreateGame(middleware.ClientID(c), req.White, req.Black)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"gameId":  gameID,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"), middleware.ClientID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(state)
}

// MakeMove answers illegal moves with 200 and a rejected outcome; only
// malformed requests are errors. A promotion must travel with the move.
func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var body ws.MovePayload
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
	}
	req, err := model.ParseMoveRequest(body.From, body.To, body.Promotion)
	if err != nil {
		return sendError(c, err)
	}

	res, err := gc.gameService.MakeMove(c.Params("gameId"), middleware.ClientID(c), req, nil)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) Click(c *fiber.Ctx) error {
	var body ws.ClickPayload
	if err := c.BodyParser(&body); err != nil {
		return sendError(c, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
	}
	sq, err := model.ParseSquare(body.Square)
	if err != nil {
		return sendError(c, err)
	}

	res, err := gc.gameService.Click(c.Params("gameId"), middleware.ClientID(c), sq, nil)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	state, err := gc.gameService.Reset(c.Params("gameId"), middleware.ClientID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from, err := model.ParseSquare(c.Params("square"))
	if err != nil {
		return sendError(c, err)
	}
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), middleware.ClientID(c), from)
	if err != nil {
		return sendError(c, err)
	}
	names := make([]string, 0, len(moves))
	for _, m := range moves {
		names = append(names, m.String())
	}
	return c.JSON(fiber.Map{
		"from":  from.String(),
		"moves": names,
	})
}

func (gc *GameController) EndGame(c *fiber.Ctx) error {
	if err := gc.gameService.EndGame(c.Params("gameId"), middleware.ClientID(c)); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) PlayerStats(c *fiber.Ctx) error {
	stats, err := gc.gameService.PlayerStats(c.Params("name"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"stats":   stats,
		"winRate": stats.WinRate(),
	})
}

func (gc *GameController) History(c *fiber.Ctx) error {
	games, err := gc.gameService.History(c.Params("name"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"games": games,
	})
}
