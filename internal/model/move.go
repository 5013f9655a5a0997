package model

import "fmt"

type Outcome string

const (
	Accepted                Outcome = "accepted"
	Check                   Outcome = "check"
	Checkmate               Outcome = "checkmate"
	Stalemate               Outcome = "stalemate"
	RejectedIllegalShape    Outcome = "rejectedIllegalShape"
	RejectedCollision       Outcome = "rejectedCollision"
	RejectedAllyCapture     Outcome = "rejectedAllyCapture"
	RejectedSelfCheck       Outcome = "rejectedSelfCheck"
	RejectedMustProtectKing Outcome = "rejectedMustProtectKing"
	RejectedNoPiece         Outcome = "rejectedNoPiece"
	RejectedNotYourTurn     Outcome = "rejectedNotYourTurn"
	RejectedGameOver        Outcome = "rejectedGameOver"
)

// MoveOutcome is what a single move attempt produced. Rejections leave the
// game untouched.
type MoveOutcome struct {
	Result  Outcome `json:"result"`
	Winner  *Color  `json:"winner,omitempty"`
	Message string  `json:"message"`
}

func (o MoveOutcome) Rejected() bool {
	switch o.Result {
	case Accepted, Check, Checkmate, Stalemate:
		return false
	}
	return true
}

func rejection(result Outcome, p *Piece) MoveOutcome {
	var msg string
	switch result {
	case RejectedIllegalShape:
		msg = fmt.Sprintf("%s can not move like this!", p)
	case RejectedCollision:
		msg = fmt.Sprintf("%s cannot jump!", p)
	case RejectedAllyCapture:
		msg = "You cannot capture allies."
	case RejectedSelfCheck:
		msg = "This move will put the King in check!"
	case RejectedMustProtectKing:
		msg = "You must protect the King!"
	case RejectedNoPiece:
		msg = "There is no piece on that square."
	case RejectedNotYourTurn:
		msg = "It is not your turn."
	case RejectedGameOver:
		msg = "The game is over."
	}
	return MoveOutcome{Result: result, Message: msg}
}

type MoveRequest struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// ParseMoveRequest reads squares written like "e2". An empty promotion means
// the choice is asked for if the move needs one.
func ParseMoveRequest(from, to string, promotion PieceType) (MoveRequest, error) {
	var req MoveRequest
	var err error
	if req.From, err = ParseSquare(from); err != nil {
		return MoveRequest{}, err
	}
	if req.To, err = ParseSquare(to); err != nil {
		return MoveRequest{}, err
	}
	if promotion != "" && !validPromotion(promotion) {
		return MoveRequest{}, fmt.Errorf("%w: %q", ErrInvalidPromotion, promotion)
	}
	req.Promotion = promotion
	return req, nil
}

// Chooser answers with the request's promotion if it carries one, else with
// fallback.
func (r MoveRequest) Chooser(fallback PromotionChooser) PromotionChooser {
	if r.Promotion != "" {
		return FixedPromotion(r.Promotion)
	}
	return fallback
}

type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// LastMove describes the most recent committed move for rendering.
type LastMove struct {
	Piece          PieceType       `json:"piece"`
	Color          Color           `json:"color"`
	From           Square          `json:"from"`
	To             Square          `json:"to"`
	Captured       *PieceType      `json:"captured,omitempty"`
	EnPassant      bool            `json:"enPassant"`
	CastleRookMove *CastleRookMove `json:"castleRookMove,omitempty"`
	Promotion      PieceType       `json:"promotion,omitempty"`
}

// plan is a validated move with everything it will touch resolved up front.
type plan struct {
	piece     *Piece
	from, to  Square
	captured  *Piece
	captureAt Square
	enPassant bool
	castle    *rookHop
	double    bool
	promotes  bool
}

type rookHop struct {
	rook     *Piece
	from, to Square
}
