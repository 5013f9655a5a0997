package model

// apply carries out the placements of pl and returns a func that puts every
// touched square back the way it was. Piece flags are not touched.
func apply(b *Board, pl plan) (restore func()) {
	type saved struct {
		sq Square
		p  *Piece
	}
	var touched []saved
	set := func(sq Square, p *Piece) {
		touched = append(touched, saved{sq: sq, p: b.PieceAt(sq)})
		b.Place(sq, p)
	}

	set(pl.from, nil)
	if pl.enPassant {
		set(pl.captureAt, nil)
	}
	set(pl.to, pl.piece)
	if pl.castle != nil {
		set(pl.castle.from, nil)
		set(pl.castle.to, pl.castle.rook)
	}

	return func() {
		for i := len(touched) - 1; i >= 0; i-- {
			b.Place(touched[i].sq, touched[i].p)
		}
	}
}

// simulate runs fn with pl tentatively applied. The board is restored on every
// exit path, panics included.
func simulate(b *Board, pl plan, fn func() error) error {
	restore := apply(b, pl)
	defer restore()
	return fn()
}

// attacks reports whether the piece on from could capture on to right now.
func attacks(b *Board, from, to Square) bool {
	p := b.PieceAt(from)
	if p == nil || p.IsAlly(b.PieceAt(to)) {
		return false
	}
	if !p.IsLegalShape(b, from, to) {
		return false
	}
	return !collides(b, p, from, to)
}

// Attackers lists, in row-major order, the pieces of color by that attack target.
func Attackers(b *Board, target Square, by Color) []Square {
	var found []Square
	b.each(func(sq Square, p *Piece) bool {
		if p.Color == by && attacks(b, sq, target) {
			found = append(found, sq)
		}
		return true
	})
	return found
}

func kingAttackers(b *Board, color Color) (Square, []Square, error) {
	kingSq, err := b.KingOf(color)
	if err != nil {
		return Square{}, nil, err
	}
	return kingSq, Attackers(b, kingSq, color.Opponent()), nil
}

// InCheck reports whether color's king is attacked.
func InCheck(b *Board, color Color) (bool, error) {
	_, attackers, err := kingAttackers(b, color)
	return len(attackers) > 0, err
}

// exposesKing reports whether making pl would leave the mover's king attacked.
func exposesKing(b *Board, pl plan) (bool, error) {
	var exposed bool
	err := simulate(b, pl, func() error {
		attacked, err := InCheck(b, pl.piece.Color)
		exposed = attacked
		return err
	})
	return exposed, err
}

// legalFor reports whether from->to passes validation and keeps the mover's
// king safe.
func legalFor(b *Board, from, to Square) (bool, error) {
	pl, out := validate(b, from, to)
	if out != "" {
		return false, nil
	}
	exposed, err := exposesKing(b, pl)
	return !exposed, err
}

// canEscape reports whether the king on kingSq has a neighbouring square that
// is free of allies and not attacked once the king stands on it.
func canEscape(b *Board, kingSq Square) (bool, error) {
	king := b.PieceAt(kingSq)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			sq := kingSq.offset(dr, dc)
			if !sq.Valid() || king.IsAlly(b.PieceAt(sq)) {
				continue
			}
			exposed, err := exposesKing(b, plan{
				piece:     king,
				from:      kingSq,
				to:        sq,
				captured:  b.PieceAt(sq),
				captureAt: sq,
			})
			if err != nil {
				return false, err
			}
			if !exposed {
				return true, nil
			}
		}
	}
	return false, nil
}

// canProtect reports whether some non-king ally of the king on kingSq can
// capture the attacker on attackerSq or step onto its path, without leaving
// the king attacked afterwards. Pieces are tried in row-major order.
func canProtect(b *Board, kingSq, attackerSq Square) (bool, error) {
	king := b.PieceAt(kingSq)
	attacker := b.PieceAt(attackerSq)

	targets := []Square{attackerSq}
	for _, sq := range attacker.SweptPath(b, attackerSq, kingSq) {
		if sq != kingSq {
			targets = append(targets, sq)
		}
	}
	// a checking pawn that just double moved can also be taken en passant
	if attacker.Type == Pawn && attacker.JustDoubleMoved {
		targets = append(targets, attackerSq.offset(-attacker.Color.forward(), 0))
	}

	var (
		found bool
		err   error
	)
	b.each(func(from Square, p *Piece) bool {
		if p.Color != king.Color || p.Type == King {
			return true
		}
		for _, to := range targets {
			ok, e := legalFor(b, from, to)
			if e != nil {
				err = e
				return false
			}
			if ok {
				found = true
				return false
			}
		}
		return true
	})
	return found, err
}

// LegalMoves lists every destination the piece on from may move to, in
// row-major order.
func LegalMoves(b *Board, from Square) ([]Square, error) {
	if b.PieceAt(from) == nil {
		return nil, nil
	}
	var moves []Square
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			to := Square{Row: row, Col: col}
			ok, err := legalFor(b, from, to)
			if err != nil {
				return nil, err
			}
			if ok {
				moves = append(moves, to)
			}
		}
	}
	return moves, nil
}

// HasLegalMove reports whether color has any move at all.
func HasLegalMove(b *Board, color Color) (bool, error) {
	var pieces []Square
	b.each(func(sq Square, p *Piece) bool {
		if p.Color == color {
			pieces = append(pieces, sq)
		}
		return true
	})
	for _, from := range pieces {
		moves, err := LegalMoves(b, from)
		if err != nil {
			return false, err
		}
		if len(moves) > 0 {
			return true, nil
		}
	}
	return false, nil
}
