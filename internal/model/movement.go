package model

type shapeFunc func(b *Board, p *Piece, from, to Square) bool

type pathFunc func(b *Board, p *Piece, from, to Square) []Square

// movement is the per-type capability row: how a piece moves, what it is worth
// and how it is drawn.
type movement struct {
	value  int
	glyphs [2]string // white, black
	shape  shapeFunc
	path   pathFunc
}

var movements = map[PieceType]movement{
	Pawn:   {value: 1, glyphs: [2]string{"♙", "♟"}, shape: pawnShape, path: pawnPath},
	Knight: {value: 3, glyphs: [2]string{"♘", "♞"}, shape: knightShape, path: noPath},
	Bishop: {value: 3, glyphs: [2]string{"♗", "♝"}, shape: bishopShape, path: linePath},
	Rook:   {value: 5, glyphs: [2]string{"♖", "♜"}, shape: rookShape, path: linePath},
	Queen:  {value: 9, glyphs: [2]string{"♕", "♛"}, shape: queenShape, path: linePath},
	King:   {value: 0, glyphs: [2]string{"♔", "♚"}, shape: kingShape, path: noPath},
}

func pawnShape(b *Board, p *Piece, from, to Square) bool {
	dir := p.Color.forward()
	dr, dc := to.Row-from.Row, to.Col-from.Col
	target := b.PieceAt(to)

	switch {
	case dc == 0 && dr == dir:
		return target == nil
	case dc == 0 && dr == 2*dir:
		return !p.HasMoved && target == nil
	case abs(dc) == 1 && dr == dir:
		if target != nil {
			return target.Color != p.Color
		}
		return enPassantVictim(b, p, from, to) != nil
	}
	return false
}

// enPassantVictim returns the enemy pawn a diagonal pawn step onto an empty
// square would capture, or nil.
func enPassantVictim(b *Board, p *Piece, from, to Square) *Piece {
	if p.Type != Pawn || b.PieceAt(to) != nil {
		return nil
	}
	beside := b.PieceAt(Square{Row: from.Row, Col: to.Col})
	if beside == nil || beside.Type != Pawn || beside.Color == p.Color || !beside.JustDoubleMoved {
		return nil
	}
	return beside
}

func knightShape(_ *Board, _ *Piece, from, to Square) bool {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	return (dr == 2 && dc == 1) || (dr == 1 && dc == 2)
}

func bishopShape(_ *Board, _ *Piece, from, to Square) bool {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	return dr == dc && dr != 0
}

func rookShape(_ *Board, _ *Piece, from, to Square) bool {
	return (from.Row == to.Row) != (from.Col == to.Col)
}

func queenShape(b *Board, p *Piece, from, to Square) bool {
	return rookShape(b, p, from, to) || bishopShape(b, p, from, to)
}

func kingShape(_ *Board, _ *Piece, from, to Square) bool {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	return dr <= 1 && dc <= 1 && (dr == 1 || dc == 1)
}

func noPath(*Board, *Piece, Square, Square) []Square {
	return nil
}

// linePath walks a straight or diagonal line; it is empty when from and to
// are not aligned.
func linePath(_ *Board, _ *Piece, from, to Square) []Square {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return nil
	}
	step := Square{Row: sign(dr), Col: sign(dc)}
	var path []Square
	for sq := from.offset(step.Row, step.Col); sq.Valid(); sq = sq.offset(step.Row, step.Col) {
		path = append(path, sq)
		if sq == to {
			return path
		}
	}
	return nil
}

func pawnPath(_ *Board, p *Piece, from, to Square) []Square {
	if from.Col != to.Col {
		return []Square{to}
	}
	dir := p.Color.forward()
	var path []Square
	for row := from.Row + dir; row != to.Row+dir && row >= 0 && row < boardSize; row += dir {
		path = append(path, Square{Row: row, Col: from.Col})
	}
	return path
}
