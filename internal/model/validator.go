package model

// validate checks a move against the board without changing anything. The
// returned outcome is empty when the move passes.
func validate(b *Board, from, to Square) (plan, Outcome) {
	piece := b.PieceAt(from)
	if piece == nil {
		return plan{}, RejectedNoPiece
	}
	if piece.IsAlly(b.PieceAt(to)) {
		return plan{}, RejectedAllyCapture
	}

	pl := plan{
		piece:     piece,
		from:      from,
		to:        to,
		captured:  b.PieceAt(to),
		captureAt: to,
	}

	if !piece.IsLegalShape(b, from, to) {
		if piece.Type != King {
			return plan{}, RejectedIllegalShape
		}
		hop, ok := castling(b, from, to)
		if !ok {
			return plan{}, RejectedIllegalShape
		}
		pl.castle = hop
		return pl, ""
	}

	if collides(b, piece, from, to) {
		return plan{}, RejectedCollision
	}

	if piece.Type == Pawn {
		if victim := enPassantVictim(b, piece, from, to); victim != nil {
			pl.captured = victim
			pl.captureAt = Square{Row: from.Row, Col: to.Col}
			pl.enPassant = true
		}
		pl.double = abs(to.Row-from.Row) == 2
		pl.promotes = to.Row == 0 || to.Row == boardSize-1
	}
	return pl, ""
}

// collides reports whether anything stands on the swept path before the
// destination. Knights and kings sweep nothing.
func collides(b *Board, p *Piece, from, to Square) bool {
	for _, sq := range p.SweptPath(b, from, to) {
		if sq != to && b.PieceAt(sq) != nil {
			return true
		}
	}
	return false
}

// castling resolves a two-column king step into the rook hop that goes with it.
// The rook is the nearest allied rook on the king's row in the direction of
// travel; it and the king must be unmoved with nothing between them.
func castling(b *Board, from, to Square) (*rookHop, bool) {
	king := b.PieceAt(from)
	if king == nil || king.Type != King || king.HasMoved {
		return nil, false
	}
	if from.Row != to.Row || abs(to.Col-from.Col) != 2 {
		return nil, false
	}
	dir := sign(to.Col - from.Col)

	var rookSq *Square
	for _, sq := range b.FindRooks(king, false) {
		if sq.Row != from.Row || sign(sq.Col-from.Col) != dir {
			continue
		}
		// nearest rook on the king side is the first found, on the queen side the last
		if dir > 0 && rookSq != nil {
			continue
		}
		sq := sq
		rookSq = &sq
	}
	if rookSq == nil {
		return nil, false
	}
	rook := b.PieceAt(*rookSq)
	if rook.HasMoved || abs(rookSq.Col-from.Col) < 3 {
		return nil, false
	}
	for col := from.Col + dir; col != rookSq.Col; col += dir {
		if b.PieceAt(Square{Row: from.Row, Col: col}) != nil {
			return nil, false
		}
	}
	return &rookHop{
		rook: rook,
		from: *rookSq,
		to:   Square{Row: to.Row, Col: to.Col - dir},
	}, true
}
