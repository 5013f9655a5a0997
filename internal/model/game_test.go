package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rc(row, col int) Square {
	return Square{Row: row, Col: col}
}

func attempt(t *testing.T, g *Game, from, to Square, want Outcome) MoveOutcome {
	t.Helper()
	out, err := g.AttemptMove(from, to)
	if err != nil {
		t.Fatalf("AttemptMove(%v, %v): %v", from, to, err)
	}
	if out.Result != want {
		t.Fatalf("AttemptMove(%v, %v) = %s (%q); want %s\n%s", from, to, out.Result, out.Message, want, g.board)
	}
	return out
}

func TestNewGamePlayers(t *testing.T) {
	white, _ := NewPlayer("Alice", White)
	black, _ := NewPlayer("Bob", Black)
	otherWhite, _ := NewPlayer("Carol", White)

	tests := []struct {
		name    string
		players []*Player
		wantErr bool
	}{
		{"white then black", []*Player{white, black}, false},
		{"black then white", []*Player{black, white}, false},
		{"one player", []*Player{white}, true},
		{"three players", []*Player{white, black, otherWhite}, true},
		{"same color twice", []*Player{white, otherWhite}, true},
		{"nil player", []*Player{white, nil}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGame("g", tt.players, nil)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPlayers) {
					t.Errorf("NewGame error = %v; want ErrInvalidPlayers", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewGame: %v", err)
			}
			if got := g.CurrentPlayer().Color; got != White {
				t.Errorf("first to move = %s; want white", got)
			}
		})
	}

	if _, err := NewPlayer("Dave", "red"); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("NewPlayer(red) error = %v; want ErrInvalidColor", err)
	}
}

func TestOpeningAndSelfCheck(t *testing.T) {
	g := newTestGame(t)

	attempt(t, g, rc(6, 4), rc(4, 4), Accepted)
	if p := g.board.PieceAt(rc(4, 4)); !p.JustDoubleMoved || !p.HasMoved {
		t.Errorf("e4 pawn flags = %+v; want moved and en passant eligible", p)
	}
	attempt(t, g, rc(1, 3), rc(3, 3), Accepted)
	if g.board.PieceAt(rc(4, 4)).JustDoubleMoved {
		t.Error("white's en passant window should close after black moves")
	}

	attempt(t, g, rc(4, 4), rc(3, 3), Accepted) // exd5
	attempt(t, g, rc(0, 3), rc(3, 3), Accepted) // Qxd5
	attempt(t, g, rc(7, 3), rc(6, 4), Accepted) // Qe2
	attempt(t, g, rc(3, 3), rc(3, 4), Accepted) // Qe5, pinning the white queen

	before := g.Snapshot()
	stateBefore := g.GetState()
	out := attempt(t, g, rc(6, 4), rc(5, 3), RejectedSelfCheck) // Qd3 would expose the king
	if out.Message == "" {
		t.Error("rejection should carry a message")
	}
	assertSnapshot(t, g.Snapshot(), before)
	if diff := cmp.Diff(stateBefore, g.GetState()); diff != "" {
		t.Errorf("state changed by rejected move (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[Color]int{White: 1, Black: 1}, g.Scores()); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
	// the pinned queen may still slide along the pin
	attempt(t, g, rc(6, 4), rc(4, 4), Accepted)
}

func TestFoolsMate(t *testing.T) {
	g := newTestGame(t)

	attempt(t, g, rc(6, 5), rc(5, 5), Accepted) // f3
	attempt(t, g, rc(1, 4), rc(3, 4), Accepted) // e5
	attempt(t, g, rc(6, 6), rc(4, 6), Accepted) // g4
	out := attempt(t, g, rc(0, 3), rc(4, 7), Checkmate)

	if out.Winner == nil || *out.Winner != Black {
		t.Fatalf("winner = %v; want black", out.Winner)
	}
	if !g.IsGameOver() {
		t.Error("game should be over")
	}
	if w := g.Winner(); w == nil || *w != Black {
		t.Errorf("Winner() = %v; want black", w)
	}
	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != Checkmate || !state.IsCheck {
		t.Errorf("state = %+v; want resolved checkmate", state)
	}
	if state.Attacker == nil || *state.Attacker != rc(4, 7) {
		t.Errorf("attacker = %v; want h4", state.Attacker)
	}

	attempt(t, g, rc(6, 0), rc(5, 0), RejectedGameOver)
}

func TestCheckMustBeAnswered(t *testing.T) {
	g := newTestGame(t)

	mustResult(t, g, "e2", "e4", Accepted)
	mustResult(t, g, "f7", "f5", Accepted)
	mustResult(t, g, "d1", "h5", Check)

	king := g.board.PieceAt(sq(t, "e8"))
	if !king.InCheck {
		t.Fatal("black king should be flagged in check")
	}

	mustResult(t, g, "a7", "a6", RejectedMustProtectKing)
	if !king.InCheck {
		t.Error("failed defence must leave the check flag set")
	}
	mustResult(t, g, "e8", "f7", RejectedSelfCheck)

	mustResult(t, g, "g7", "g6", Accepted)
	if king.InCheck {
		t.Error("blocking the check should clear the flag")
	}
	if g.GetState().IsCheck {
		t.Error("state should no longer report check")
	}
}

func TestTurnOrder(t *testing.T) {
	g := newTestGame(t)

	mustResult(t, g, "e7", "e5", RejectedNotYourTurn)
	mustResult(t, g, "e4", "e5", RejectedNoPiece)
	mustResult(t, g, "e2", "e4", Accepted)
	if got := g.CurrentPlayer(); got.Color != Black || got.Name != "Bob" {
		t.Errorf("CurrentPlayer = %+v; want Bob (black)", got)
	}
	mustResult(t, g, "d2", "d4", RejectedNotYourTurn)
}

func TestInvalidSquares(t *testing.T) {
	g := newTestGame(t)
	if _, err := g.AttemptMove(rc(8, 0), rc(0, 0)); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("AttemptMove off board error = %v; want ErrInvalidSquare", err)
	}
	if _, err := g.Click(rc(-1, 3)); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("Click off board error = %v; want ErrInvalidSquare", err)
	}
	if _, err := g.LegalMoves(rc(0, 9)); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("LegalMoves off board error = %v; want ErrInvalidSquare", err)
	}
}

func TestEnPassant(t *testing.T) {
	t.Run("captured right away", func(t *testing.T) {
		g := newTestGame(t)
		mustResult(t, g, "e2", "e4", Accepted)
		mustResult(t, g, "a7", "a6", Accepted)
		mustResult(t, g, "e4", "e5", Accepted)
		mustResult(t, g, "d7", "d5", Accepted)
		mustResult(t, g, "e5", "d6", Accepted)

		if g.board.PieceAt(sq(t, "d5")) != nil {
			t.Error("passed pawn on d5 should be gone")
		}
		if p := g.board.PieceAt(sq(t, "d6")); p == nil || p.Type != Pawn || p.Color != White {
			t.Errorf("d6 = %v; want white pawn", p)
		}
		if got := g.Scores()[White]; got != 1 {
			t.Errorf("white score = %d; want 1", got)
		}
		last := g.GetState().LastMove
		if last == nil || !last.EnPassant || last.Captured == nil || *last.Captured != Pawn {
			t.Errorf("last move = %+v; want en passant capture", last)
		}
	})

	t.Run("window closes after one turn", func(t *testing.T) {
		g := newTestGame(t)
		mustResult(t, g, "e2", "e4", Accepted)
		mustResult(t, g, "a7", "a6", Accepted)
		mustResult(t, g, "e4", "e5", Accepted)
		mustResult(t, g, "d7", "d5", Accepted)
		mustResult(t, g, "h2", "h3", Accepted)
		mustResult(t, g, "h7", "h6", Accepted)
		mustResult(t, g, "e5", "d6", RejectedIllegalShape)
	})

	t.Run("double step only on first move", func(t *testing.T) {
		g := newTestGame(t)
		mustResult(t, g, "a2", "a3", Accepted)
		mustResult(t, g, "h7", "h6", Accepted)
		mustResult(t, g, "a3", "a5", RejectedIllegalShape)
	})
}

func TestCastlingMove(t *testing.T) {
	t.Run("king side", func(t *testing.T) {
		g := position(t, White, "wKe1", "wRa1", "wRh1", "bKe8")
		mustResult(t, g, "e1", "g1", Accepted)
		if p := g.board.PieceAt(sq(t, "f1")); p == nil || p.Type != Rook || !p.HasMoved {
			t.Errorf("f1 = %v; want moved rook", p)
		}
		if g.board.PieceAt(sq(t, "h1")) != nil {
			t.Error("h1 should be empty after castling")
		}
		last := g.GetState().LastMove
		if last.CastleRookMove == nil || last.CastleRookMove.To != sq(t, "f1") {
			t.Errorf("last move = %+v; want rook hop to f1", last)
		}
	})

	t.Run("queen side", func(t *testing.T) {
		g := position(t, Black, "wKe1", "bKe8", "bRa8", "bRh8")
		mustResult(t, g, "e8", "c8", Accepted)
		if p := g.board.PieceAt(sq(t, "d8")); p == nil || p.Type != Rook {
			t.Errorf("d8 = %v; want rook", p)
		}
		if p := g.board.PieceAt(sq(t, "c8")); p == nil || p.Type != King {
			t.Errorf("c8 = %v; want king", p)
		}
	})

	t.Run("not after the rook moved", func(t *testing.T) {
		g := position(t, White, "wKe1", "wRh1", "bKe8", "bPa7")
		mustResult(t, g, "h1", "h2", Accepted)
		mustResult(t, g, "a7", "a6", Accepted)
		mustResult(t, g, "h2", "h1", Accepted)
		mustResult(t, g, "a6", "a5", Accepted)
		mustResult(t, g, "e1", "g1", RejectedIllegalShape)
	})

	t.Run("not into check", func(t *testing.T) {
		g := position(t, White, "wKe1", "wRh1", "bKe8", "bRg8")
		mustResult(t, g, "e1", "g1", RejectedSelfCheck)
	})
}

func TestPromotion(t *testing.T) {
	t.Run("queen gives check", func(t *testing.T) {
		g := position(t, White, "wPa7", "wKe1", "bKh8")
		var asked Color
		g.SetPromotionChooser(PromotionFunc(func(c Color) (PieceType, error) {
			asked = c
			return Queen, nil
		}))
		mustResult(t, g, "a7", "a8", Check)
		if asked != White {
			t.Errorf("chooser asked for %q; want white", asked)
		}
		if p := g.board.PieceAt(sq(t, "a8")); p == nil || p.Type != Queen || p.Color != White {
			t.Errorf("a8 = %v; want white queen", p)
		}
	})

	t.Run("knight chosen", func(t *testing.T) {
		g := position(t, Black, "bPc2", "bKe8", "wKh1")
		out, err := g.AttemptMoveWith(sq(t, "c2"), sq(t, "c1"), FixedPromotion(Knight))
		if err != nil || out.Result != Accepted {
			t.Fatalf("promotion = %+v, %v; want accepted", out, err)
		}
		if p := g.board.PieceAt(sq(t, "c1")); p == nil || p.Type != Knight {
			t.Errorf("c1 = %v; want knight", p)
		}
	})

	t.Run("promoted rook cannot castle", func(t *testing.T) {
		g := position(t, White, "wPh7", "wKe1", "bKa5")
		g.SetPromotionChooser(FixedPromotion(Rook))
		mustResult(t, g, "h7", "h8", Accepted)
		rooks := g.board.FindRooks(g.board.PieceAt(sq(t, "e1")), false)
		if len(rooks) != 1 || !g.board.PieceAt(rooks[0]).HasMoved {
			t.Errorf("promoted rook should count as moved: %v", rooks)
		}
	})

	for _, tt := range []struct {
		name    string
		chooser PromotionChooser
		want    error
	}{
		{"no chooser", nil, ErrNoPromotionChoice},
		{"empty choice", FixedPromotion(""), ErrNoPromotionChoice},
		{"king is not allowed", FixedPromotion(King), ErrInvalidPromotion},
		{"pawn is not allowed", FixedPromotion(Pawn), ErrInvalidPromotion},
	} {
		t.Run(tt.name, func(t *testing.T) {
			g := position(t, White, "wPa7", "wKe1", "bKh8")
			g.SetPromotionChooser(tt.chooser)
			before := g.GetState()
			if _, err := g.AttemptMove(sq(t, "a7"), sq(t, "a8")); !errors.Is(err, tt.want) {
				t.Errorf("error = %v; want %v", err, tt.want)
			}
			if diff := cmp.Diff(before, g.GetState()); diff != "" {
				t.Errorf("failed promotion changed the game (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStalemate(t *testing.T) {
	g := position(t, White, "wKf7", "wQb6", "bKh8")
	out := mustResult(t, g, "b6", "g6", Stalemate)
	if out.Winner != nil {
		t.Errorf("stalemate winner = %v; want none", *out.Winner)
	}
	if !g.IsGameOver() || g.Winner() != nil {
		t.Error("stalemate should end the game without a winner")
	}
}

func TestClickSelection(t *testing.T) {
	g := newTestGame(t)

	res, err := g.Click(sq(t, "e4"))
	if err != nil || res.Selected != nil || res.Outcome != nil {
		t.Fatalf("click on empty square = %+v, %v; want nothing", res, err)
	}

	res, _ = g.Click(sq(t, "e2"))
	if res.Selected == nil || *res.Selected != sq(t, "e2") {
		t.Fatalf("first click = %+v; want e2 selected", res)
	}
	if s := g.GetState().SelectedSquare; s == nil || *s != sq(t, "e2") {
		t.Errorf("state selection = %v; want e2", s)
	}

	res, _ = g.Click(sq(t, "e2"))
	if res.Selected != nil || res.Outcome != nil {
		t.Fatalf("second click on same square = %+v; want cancelled", res)
	}
	if g.GetState().SelectedSquare != nil {
		t.Error("selection should be cleared")
	}

	g.Click(sq(t, "e2"))
	res, err = g.Click(sq(t, "e4"))
	if err != nil || res.Outcome == nil || res.Outcome.Result != Accepted {
		t.Fatalf("move by clicks = %+v, %v; want accepted", res, err)
	}

	// a rejected attempt also clears the pending origin
	g.Click(sq(t, "d7"))
	res, _ = g.Click(sq(t, "d4"))
	if res.Outcome == nil || res.Outcome.Result != RejectedIllegalShape {
		t.Fatalf("bad move by clicks = %+v; want illegal shape", res)
	}
	if g.GetState().SelectedSquare != nil {
		t.Error("selection should be cleared after a rejected attempt")
	}
}

func TestResetRoundTrip(t *testing.T) {
	fresh := newTestGame(t).Snapshot()

	g := newTestGame(t)
	mustResult(t, g, "f2", "f3", Accepted)
	mustResult(t, g, "e7", "e5", Accepted)
	mustResult(t, g, "g2", "g4", Accepted)
	mustResult(t, g, "d8", "h4", Checkmate)

	g.Reset()
	assertSnapshot(t, g.Snapshot(), fresh)
	if g.IsGameOver() || g.CurrentPlayer().Color != White {
		t.Error("reset should start a new game with white to move")
	}
	if diff := cmp.Diff(map[Color]int{White: 0, Black: 0}, g.Scores()); diff != "" {
		t.Errorf("scores after reset (-want +got):\n%s", diff)
	}

	// captured pieces come back too
	mustResult(t, g, "e2", "e4", Accepted)
	mustResult(t, g, "d7", "d5", Accepted)
	mustResult(t, g, "e4", "d5", Accepted)
	mustResult(t, g, "d8", "d5", Accepted)
	g.Reset()
	assertSnapshot(t, g.Snapshot(), fresh)
}

func TestLegalMovesForSideToMove(t *testing.T) {
	g := newTestGame(t)
	moves, err := g.LegalMoves(sq(t, "b8"))
	if err != nil || moves != nil {
		t.Errorf("black knight on white's turn = %v, %v; want none", moves, err)
	}
	moves, err = g.LegalMoves(sq(t, "b1"))
	if err != nil || len(moves) != 2 {
		t.Errorf("white knight moves = %v, %v; want 2", moves, err)
	}
}
