package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var pieceLetters = map[byte]PieceType{
	'K': King, 'Q': Queen, 'R': Rook, 'B': Bishop, 'N': Knight, 'P': Pawn,
}

func sq(t *testing.T, name string) Square {
	t.Helper()
	s, err := ParseSquare(name)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", name, err)
	}
	return s
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	white, err := NewPlayer("Alice", White)
	if err != nil {
		t.Fatalf("NewPlayer(white): %v", err)
	}
	black, err := NewPlayer("Bob", Black)
	if err != nil {
		t.Fatalf("NewPlayer(black): %v", err)
	}
	g, err := NewGame("test", []*Player{white, black}, FixedPromotion(Queen))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

// position builds a game holding only the listed pieces, written like "wKe1"
// or "bPd7". Pieces off their home squares count as having moved.
func position(t *testing.T, toMove Color, pieces ...string) *Game {
	t.Helper()
	g := newTestGame(t)
	g.board = NewBoard()
	for _, entry := range pieces {
		color := White
		if entry[0] == 'b' {
			color = Black
		}
		typ, ok := pieceLetters[entry[1]]
		if !ok {
			t.Fatalf("bad piece %q", entry)
		}
		at := sq(t, entry[2:])
		p := &Piece{Type: typ, Color: color}
		switch typ {
		case Pawn:
			p.HasMoved = at.Row != color.backRank()+color.forward()
		case King, Rook:
			p.HasMoved = at.Row != color.backRank()
		}
		g.board.Place(at, p)
	}
	if toMove == Black {
		g.current, g.next = 1, 0
	}
	return g
}

func move(t *testing.T, g *Game, from, to string) MoveOutcome {
	t.Helper()
	out, err := g.AttemptMove(sq(t, from), sq(t, to))
	if err != nil {
		t.Fatalf("AttemptMove(%s, %s): %v", from, to, err)
	}
	return out
}

func mustResult(t *testing.T, g *Game, from, to string, want Outcome) MoveOutcome {
	t.Helper()
	out := move(t, g, from, to)
	if out.Result != want {
		t.Fatalf("%s-%s = %s (%q); want %s\n%s", from, to, out.Result, out.Message, want, g.board)
	}
	return out
}

func assertSnapshot(t *testing.T, got, want Snapshot) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("board mismatch (-want +got):\n%s", diff)
	}
}
