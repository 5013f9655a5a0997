package model

import "fmt"

// PromotionChooser is asked which piece a pawn reaching the far rank becomes.
// It is called synchronously while the move is being made.
type PromotionChooser interface {
	ChoosePromotion(color Color) (PieceType, error)
}

type PromotionFunc func(color Color) (PieceType, error)

func (f PromotionFunc) ChoosePromotion(color Color) (PieceType, error) {
	return f(color)
}

// FixedPromotion answers with a choice made before the move was sent. The
// empty value answers with ErrNoPromotionChoice.
type FixedPromotion PieceType

func (f FixedPromotion) ChoosePromotion(Color) (PieceType, error) {
	if f == "" {
		return "", ErrNoPromotionChoice
	}
	return PieceType(f), nil
}

func validPromotion(t PieceType) bool {
	switch t {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

func requestPromotion(c PromotionChooser, color Color) (PieceType, error) {
	if c == nil {
		return "", ErrNoPromotionChoice
	}
	choice, err := c.ChoosePromotion(color)
	if err != nil {
		return "", fmt.Errorf("promotion for %s: %w", color, err)
	}
	if !validPromotion(choice) {
		return "", fmt.Errorf("%w: got %q", ErrInvalidPromotion, choice)
	}
	return choice, nil
}
