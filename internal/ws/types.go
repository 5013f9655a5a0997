package ws

import (
	"encoding/json"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client to server
	MessageTypeClick     MessageType = "click"
	MessageTypeMove      MessageType = "move"
	MessageTypeReset     MessageType = "reset"
	MessageTypePromotion MessageType = "promotion"

	// server to client
	MessageTypeGameState        MessageType = "gameState"
	MessageTypeOutcome          MessageType = "outcome"
	MessageTypePromotionRequest MessageType = "promotionRequest"
	MessageTypeError            MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MovePayload names squares the way players write them, e.g. "e2".
type MovePayload struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Promotion model.PieceType `json:"promotion,omitempty"`
}

type ClickPayload struct {
	Square string `json:"square"`
}

type PromotionPayload struct {
	Piece model.PieceType `json:"piece"`
}

type PromotionRequestPayload struct {
	Color   model.Color       `json:"color"`
	Options []model.PieceType `json:"options"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage wraps payload in a Message of type t.
func NewMessage(t MessageType, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: t}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}
