package model

import "fmt"

// backRow is the order pieces stand on a back rank from column 0 to 7.
var backRow = [boardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Player owns the sixteen pieces it starts with for the whole game; Reset puts
// the same pieces back on their squares.
type Player struct {
	Name   string
	Color  Color
	Score  int
	pieces [2 * boardSize]*Piece
}

type ClientPlayer struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
	Score int    `json:"score"`
}

func NewPlayer(name string, color Color) (*Player, error) {
	if !color.Valid() {
		return nil, fmt.Errorf("player %q: %w", name, ErrInvalidColor)
	}
	p := &Player{Name: name, Color: color}
	for i := 0; i < boardSize; i++ {
		p.pieces[i] = &Piece{Type: Pawn, Color: color}
		p.pieces[boardSize+i] = &Piece{Type: backRow[i], Color: color}
	}
	return p, nil
}

// Pieces returns the pieces in starting order: pawns from column 0, then the
// back rank from column 0.
func (p *Player) Pieces() []*Piece {
	return p.pieces[:]
}

func (p *Player) home(i int) Square {
	back := p.Color.backRank()
	if i < boardSize {
		return Square{Row: back + p.Color.forward(), Col: i}
	}
	return Square{Row: back, Col: i - boardSize}
}

func (p *Player) place(b *Board) {
	for i, piece := range p.pieces {
		piece.reset()
		b.Place(p.home(i), piece)
	}
}

func (p *Player) client() ClientPlayer {
	return ClientPlayer{Name: p.Name, Color: p.Color, Score: p.Score}
}

func (p *Player) String() string {
	return fmt.Sprintf("%s:\t%d", p.Name, p.Score)
}
