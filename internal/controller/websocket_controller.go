package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

var errPromotionPending = errors.New("a promotion choice is pending")

// messageConn is the part of *websocket.Conn a session uses.
type messageConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
}

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	clientID, _ := c.Locals(middleware.ClientIDKey).(string)
	log.Debugf("game %s: session opened by %s", gameID, clientID)

	state, err := wsc.gameService.GetGameState(gameID, clientID)
	if err != nil {
		log.Warnf("game %s: refusing session: %v", gameID, err)
		wsc.sendError(c, err)
		c.Close()
		return
	}
	wsc.send(c, ws.MessageTypeGameState, state)

	wsc.serve(c, gameID, clientID)
	log.Debugf("game %s: session closed", gameID)
}

// serve reads messages until the connection fails.
func (wsc *WebSocketController) serve(conn messageConn, gameID, clientID string) {
	for {
		msg, err := readMessage(conn)
		if err != nil {
			if errors.Is(err, service.ErrInvalidRequest) {
				wsc.sendError(conn, err)
				continue
			}
			log.Debugf("game %s: read error: %v", gameID, err)
			return
		}

		if err := wsc.handleMessage(conn, gameID, clientID, msg); err != nil {
			log.Debugf("game %s: %s: %v", gameID, msg.Type, err)
			wsc.sendError(conn, err)
		}
	}
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(conn messageConn, gameID, clientID string, msg ws.Message) error {
	chooser := &promptChooser{conn: conn, wsc: wsc}

	switch msg.Type {
	case ws.MessageTypeMove:
		var body ws.MovePayload
		if err := msg.Decode(&body); err != nil {
			return fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
		}
		req, err := model.ParseMoveRequest(body.From, body.To, body.Promotion)
		if err != nil {
			return err
		}
		res, err := wsc.gameService.MakeMove(gameID, clientID, req, chooser)
		if err != nil {
			return err
		}
		return wsc.send(conn, ws.MessageTypeOutcome, res)

	case ws.MessageTypeClick:
		var body ws.ClickPayload
		if err := msg.Decode(&body); err != nil {
			return fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
		}
		sq, err := model.ParseSquare(body.Square)
		if err != nil {
			return err
		}
		res, err := wsc.gameService.Click(gameID, clientID, sq, chooser)
		if err != nil {
			return err
		}
		if res.Outcome != nil {
			return wsc.send(conn, ws.MessageTypeOutcome, service.MoveResult{Outcome: *res.Outcome, State: res.State})
		}
		return wsc.send(conn, ws.MessageTypeGameState, res.State)

	case ws.MessageTypeReset:
		state, err := wsc.gameService.Reset(gameID, clientID)
		if err != nil {
			return err
		}
		return wsc.send(conn, ws.MessageTypeGameState, state)

	case ws.MessageTypePromotion:
		return fmt.Errorf("%w: no promotion was requested", service.ErrInvalidRequest)

	default:
		return fmt.Errorf("%w: unknown message type %q", service.ErrInvalidRequest, msg.Type)
	}
}

// promptChooser asks the client for a promotion piece and waits for the
// answer on the same connection. Other messages arriving meanwhile are
// refused.
type promptChooser struct {
	conn messageConn
	wsc  *WebSocketController
}

func (p *promptChooser) ChoosePromotion(color model.Color) (model.PieceType, error) {
	err := p.wsc.send(p.conn, ws.MessageTypePromotionRequest, ws.PromotionRequestPayload{
		Color:   color,
		Options: []model.PieceType{model.Queen, model.Rook, model.Bishop, model.Knight},
	})
	if err != nil {
		return "", err
	}

	for {
		msg, err := readMessage(p.conn)
		if errors.Is(err, service.ErrInvalidRequest) {
			p.wsc.sendError(p.conn, err)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", model.ErrNoPromotionChoice, err)
		}
		if msg.Type != ws.MessageTypePromotion {
			p.wsc.sendError(p.conn, errPromotionPending)
			continue
		}
		var body ws.PromotionPayload
		if err := msg.Decode(&body); err != nil {
			p.wsc.sendError(p.conn, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err))
			continue
		}
		return body.Piece, nil
	}
}

func readMessage(conn messageConn) (ws.Message, error) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return ws.Message{}, err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return ws.Message{}, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
		}
		return msg, nil
	}
}

func (wsc *WebSocketController) send(conn messageConn, t ws.MessageType, payload any) error {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(conn messageConn, err error) {
	text := err.Error()
	if statusFor(err) >= 500 {
		text = "internal error"
	}
	if werr := wsc.send(conn, ws.MessageTypeError, ws.ErrorPayload{Error: text}); werr != nil {
		log.Debugf("sending error: %v", werr)
	}
}
