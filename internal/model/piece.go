package model

import "fmt"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Valid() bool {
	return c == White || c == Black
}

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the row step a pawn of this color takes.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) backRank() int {
	if c == White {
		return boardSize - 1
	}
	return 0
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// Piece is one chessman. Only the flags that matter for its type are ever set:
// HasMoved for pawns, rooks and kings, JustDoubleMoved for pawns, InCheck for kings.
type Piece struct {
	Type            PieceType `json:"type"`
	Color           Color     `json:"color"`
	HasMoved        bool      `json:"hasMoved"`
	JustDoubleMoved bool      `json:"justDoubleMoved"`
	InCheck         bool      `json:"inCheck"`
}

func NewPiece(t PieceType, c Color) (*Piece, error) {
	if _, ok := movements[t]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPieceType, t)
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}
	return &Piece{Type: t, Color: c}, nil
}

func (p *Piece) IsAlly(other *Piece) bool {
	return other != nil && p.Color == other.Color
}

// Value is the number of points captured by taking this piece.
func (p *Piece) Value() (int, error) {
	if p.Type == King {
		return 0, ErrKingHasNoValue
	}
	return movements[p.Type].value, nil
}

func (p *Piece) Glyph() string {
	m := movements[p.Type]
	if p.Color == White {
		return m.glyphs[0]
	}
	return m.glyphs[1]
}

// IsLegalShape reports whether the piece's movement pattern allows from->to.
// It never changes the board or the piece.
func (p *Piece) IsLegalShape(b *Board, from, to Square) bool {
	if from == to || !from.Valid() || !to.Valid() {
		return false
	}
	return movements[p.Type].shape(b, p, from, to)
}

// SweptPath lists the squares the piece passes over on its way to `to`,
// ending with `to` unless an ally stands there.
func (p *Piece) SweptPath(b *Board, from, to Square) []Square {
	path := movements[p.Type].path(b, p, from, to)
	if n := len(path); n > 0 && path[n-1] == to && p.IsAlly(b.PieceAt(to)) {
		path = path[:n-1]
	}
	return path
}

func (p *Piece) reset() {
	p.HasMoved = false
	p.JustDoubleMoved = false
	p.InCheck = false
}

func (p *Piece) String() string {
	if p.Type == Pawn {
		return fmt.Sprintf("%s pawn", p.Color)
	}
	return fmt.Sprintf("%s %s (%s)", p.Color, p.Type, p.Type.getPieceNotation())
}
