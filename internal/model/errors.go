package model

import "errors"

var (
	ErrInvalidSquare     = errors.New("square out of range")
	ErrInvalidColor      = errors.New("color must be white or black")
	ErrInvalidPieceType  = errors.New("unknown piece type")
	ErrInvalidPlayers    = errors.New("a game needs exactly one white and one black player")
	ErrKingMissing       = errors.New("king must always be on the board")
	ErrKingHasNoValue    = errors.New("the king does not have a value")
	ErrNoPromotionChoice = errors.New("no promotion choice was made")
	ErrInvalidPromotion  = errors.New("pawn can only promote to queen, rook, bishop or knight")
)
