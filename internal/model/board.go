package model

import "fmt"

// Board owns every piece currently in play.
type Board struct {
	cells [boardSize][boardSize]*Piece
}

// Cell is one rendered square of a Snapshot.
type Cell struct {
	Square Square     `json:"square"`
	Piece  *PieceView `json:"piece"`
}

type PieceView struct {
	Type            PieceType `json:"type"`
	Color           Color     `json:"color"`
	Glyph           string    `json:"glyph"`
	HasMoved        bool      `json:"hasMoved"`
	JustDoubleMoved bool      `json:"justDoubleMoved"`
	InCheck         bool      `json:"inCheck"`
}

type Snapshot [boardSize][boardSize]Cell

func NewBoard() *Board {
	return &Board{}
}

// PieceAt returns nil for empty or off-board squares.
func (b *Board) PieceAt(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	return b.cells[sq.Row][sq.Col]
}

// Place puts p (or nothing) on sq, dropping whatever stood there.
func (b *Board) Place(sq Square, p *Piece) {
	if !sq.Valid() {
		panic(fmt.Sprintf("place on %v: %v", sq, ErrInvalidSquare))
	}
	b.cells[sq.Row][sq.Col] = p
}

// each visits occupied squares in row-major order until fn returns false.
func (b *Board) each(fn func(sq Square, p *Piece) bool) {
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if p := b.cells[row][col]; p != nil {
				if !fn(Square{Row: row, Col: col}, p) {
					return
				}
			}
		}
	}
}

// FindKing locates ref's own king, or the opposing king when opponent is set.
func (b *Board) FindKing(ref *Piece, opponent bool) (Square, error) {
	color := ref.Color
	if opponent {
		color = color.Opponent()
	}
	return b.KingOf(color)
}

func (b *Board) KingOf(color Color) (Square, error) {
	var (
		found Square
		ok    bool
	)
	b.each(func(sq Square, p *Piece) bool {
		if p.Type == King && p.Color == color {
			found, ok = sq, true
			return false
		}
		return true
	})
	if !ok {
		return Square{}, fmt.Errorf("%w: %s", ErrKingMissing, color)
	}
	return found, nil
}

// FindRooks lists rook squares in row-major order, ref's allies or its
// opponents depending on opponent. Promoted rooks count.
func (b *Board) FindRooks(ref *Piece, opponent bool) []Square {
	var rooks []Square
	b.each(func(sq Square, p *Piece) bool {
		if p.Type == Rook && ref.IsAlly(p) != opponent {
			rooks = append(rooks, sq)
		}
		return true
	})
	return rooks
}

func (b *Board) Snapshot() Snapshot {
	var s Snapshot
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			s[row][col].Square = Square{Row: row, Col: col}
			if p := b.cells[row][col]; p != nil {
				s[row][col].Piece = &PieceView{
					Type:            p.Type,
					Color:           p.Color,
					Glyph:           p.Glyph(),
					HasMoved:        p.HasMoved,
					JustDoubleMoved: p.JustDoubleMoved,
					InCheck:         p.InCheck,
				}
			}
		}
	}
	return s
}

// String draws the board with glyphs, white at the bottom.
func (b *Board) String() string {
	out := ""
	for row := 0; row < boardSize; row++ {
		out += fmt.Sprintf("%d ", boardSize-row)
		for col := 0; col < boardSize; col++ {
			if p := b.cells[row][col]; p != nil {
				out += p.Glyph()
			} else {
				out += "."
			}
		}
		out += "\n"
	}
	return out + "  abcdefgh\n"
}
