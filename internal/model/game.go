package model

import (
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// The Game struct is one two-player session: the board, whose turn it is and
// how it ended. Exported methods lock; unexported ones expect the lock held.
type Game struct {
	ID       string
	mu       sync.Mutex
	board    *Board
	players  [2]*Player // white first
	current  int
	next     int
	gameOver bool
	winner   *Color
	resolve  *Outcome
	attacker *Square // piece currently giving check, if any
	pending  *Square // origin picked by the first click
	chooser  PromotionChooser
	lastMove *LastMove
}

type GameState struct {
	ID             string       `json:"id"`
	Board          Snapshot     `json:"board"`
	ToMove         Color        `json:"toMove"`
	Players        PlayersState `json:"players"`
	IsCheck        bool         `json:"isCheck"`
	Attacker       *Square      `json:"attacker"`
	SelectedSquare *Square      `json:"selectedSquare"`
	LastMove       *LastMove    `json:"lastMove"`
	GameOver       bool         `json:"gameOver"`
	Winner         *Color       `json:"winner"`
	Resolve        *Outcome     `json:"resolve"`
}

type PlayersState struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// ClickResult reports what a square click did: it either picked (or dropped)
// an origin, or completed a move attempt.
type ClickResult struct {
	Selected *Square      `json:"selected"`
	Outcome  *MoveOutcome `json:"outcome,omitempty"`
}

// NewGame sets up the starting position for exactly one white and one black
// player. chooser may be nil if every promotion is supplied per move.
func NewGame(id string, players []*Player, chooser PromotionChooser) (*Game, error) {
	if len(players) != 2 {
		return nil, fmt.Errorf("%w: got %d players", ErrInvalidPlayers, len(players))
	}
	g := &Game{ID: id, chooser: chooser}
	for _, p := range players {
		if p == nil {
			return nil, fmt.Errorf("%w: nil player", ErrInvalidPlayers)
		}
		i := 0
		if p.Color == Black {
			i = 1
		}
		if g.players[i] != nil {
			return nil, fmt.Errorf("%w: two %s players", ErrInvalidPlayers, p.Color)
		}
		g.players[i] = p
	}
	g.reset()
	return g, nil
}

func (g *Game) SetPromotionChooser(c PromotionChooser) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.chooser = c
}

func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

func (g *Game) reset() {
	g.board = NewBoard()
	for _, p := range g.players {
		p.Score = 0
		p.place(g.board)
	}
	g.current, g.next = 0, 1
	g.gameOver = false
	g.winner = nil
	g.resolve = nil
	g.attacker = nil
	g.pending = nil
	g.lastMove = nil
}

// AttemptMove tries to move the piece on from to to, asking the game's
// PromotionChooser if a pawn reaches the far rank.
func (g *Game) AttemptMove(from, to Square) (MoveOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attemptMove(from, to, g.chooser)
}

// AttemptMoveWith is AttemptMove with a chooser for this move only.
func (g *Game) AttemptMoveWith(from, to Square, chooser PromotionChooser) (MoveOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attemptMove(from, to, chooser)
}

// Click feeds one square click into the game. Two clicks on different squares
// make a move attempt; clicking the picked square again drops the pick.
func (g *Game) Click(sq Square) (ClickResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.click(sq, g.chooser)
}

func (g *Game) ClickWith(sq Square, chooser PromotionChooser) (ClickResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.click(sq, chooser)
}

func (g *Game) click(sq Square, chooser PromotionChooser) (ClickResult, error) {
	if !sq.Valid() {
		return ClickResult{}, fmt.Errorf("click %v: %w", sq, ErrInvalidSquare)
	}
	if g.pending == nil {
		if g.board.PieceAt(sq) == nil {
			return ClickResult{}, nil
		}
		g.pending = &sq
		return ClickResult{Selected: &sq}, nil
	}
	from := *g.pending
	g.pending = nil
	if from == sq {
		return ClickResult{}, nil
	}
	outcome, err := g.attemptMove(from, sq, chooser)
	if err != nil {
		return ClickResult{}, err
	}
	return ClickResult{Outcome: &outcome}, nil
}

func (g *Game) attemptMove(from, to Square, chooser PromotionChooser) (MoveOutcome, error) {
	if !from.Valid() || !to.Valid() {
		return MoveOutcome{}, fmt.Errorf("move %v -> %v: %w", from, to, ErrInvalidSquare)
	}
	if g.gameOver {
		return rejection(RejectedGameOver, nil), nil
	}
	piece := g.board.PieceAt(from)
	if piece == nil {
		return rejection(RejectedNoPiece, nil), nil
	}
	mover := g.players[g.current]
	if piece.Color != mover.Color {
		return rejection(RejectedNotYourTurn, piece), nil
	}

	pl, out := validate(g.board, from, to)
	if out != "" {
		log.Debugf("game %s: %v %v -> %v rejected: %s", g.ID, piece, from, to, out)
		return rejection(out, piece), nil
	}

	kingSq, err := g.board.KingOf(mover.Color)
	if err != nil {
		return MoveOutcome{}, err
	}
	wasInCheck := g.board.PieceAt(kingSq).InCheck
	exposed, err := exposesKing(g.board, pl)
	if err != nil {
		return MoveOutcome{}, err
	}
	if exposed {
		if wasInCheck && piece.Type != King {
			return rejection(RejectedMustProtectKing, piece), nil
		}
		return rejection(RejectedSelfCheck, piece), nil
	}

	var promotion PieceType
	if pl.promotes {
		if promotion, err = requestPromotion(chooser, mover.Color); err != nil {
			return MoveOutcome{}, err
		}
	}

	if err := g.commit(pl, promotion); err != nil {
		return MoveOutcome{}, err
	}
	outcome, err := g.resolveOpponent(mover)
	if err != nil {
		return MoveOutcome{}, err
	}
	g.current, g.next = g.next, g.current
	log.Debugf("game %s: %v %v -> %v: %s", g.ID, piece, from, to, outcome.Result)
	return outcome, nil
}

// commit makes pl permanent: placements, captures, flags, promotion and score.
func (g *Game) commit(pl plan, promotion PieceType) error {
	mover := g.players[g.current]
	last := &LastMove{
		Piece:     pl.piece.Type,
		Color:     pl.piece.Color,
		From:      pl.from,
		To:        pl.to,
		EnPassant: pl.enPassant,
		Promotion: promotion,
	}

	gained := 0
	if pl.captured != nil {
		value, err := pl.captured.Value()
		if err != nil {
			return fmt.Errorf("capture on %v: %w", pl.captureAt, err)
		}
		gained = value
		captured := pl.captured.Type
		last.Captured = &captured
	}

	apply(g.board, pl)

	// en passant windows of the other side close once this move is made
	g.board.each(func(_ Square, p *Piece) bool {
		if p.Color != mover.Color {
			p.JustDoubleMoved = false
		}
		return true
	})

	pl.piece.HasMoved = true
	pl.piece.JustDoubleMoved = pl.double
	if pl.castle != nil {
		pl.castle.rook.HasMoved = true
		last.CastleRookMove = &CastleRookMove{From: pl.castle.from, To: pl.castle.to}
	}
	if promotion != "" {
		g.board.Place(pl.to, &Piece{Type: promotion, Color: mover.Color, HasMoved: true})
	}

	// the move was checked not to leave the mover attacked
	kingSq, err := g.board.KingOf(mover.Color)
	if err != nil {
		return err
	}
	g.board.PieceAt(kingSq).InCheck = false
	g.attacker = nil

	mover.Score += gained
	g.lastMove = last
	return nil
}

// resolveOpponent decides what the committed move did to the other side:
// nothing, check, checkmate or stalemate.
func (g *Game) resolveOpponent(mover *Player) (MoveOutcome, error) {
	opponent := mover.Color.Opponent()
	kingSq, attackers, err := kingAttackers(g.board, opponent)
	if err != nil {
		return MoveOutcome{}, err
	}

	if len(attackers) == 0 {
		hasMove, err := HasLegalMove(g.board, opponent)
		if err != nil {
			return MoveOutcome{}, err
		}
		if !hasMove {
			g.finish(Stalemate, nil)
			return MoveOutcome{Result: Stalemate, Message: "Stalemate! The game is drawn."}, nil
		}
		return MoveOutcome{Result: Accepted}, nil
	}

	g.board.PieceAt(kingSq).InCheck = true
	attacker := attackers[0]
	g.attacker = &attacker

	escape, err := canEscape(g.board, kingSq)
	if err != nil {
		return MoveOutcome{}, err
	}
	if escape {
		return MoveOutcome{Result: Check, Message: "Check!"}, nil
	}
	protect, err := canProtect(g.board, kingSq, attacker)
	if err != nil {
		return MoveOutcome{}, err
	}
	if protect {
		return MoveOutcome{Result: Check, Message: "Check!"}, nil
	}

	winner := mover.Color
	g.finish(Checkmate, &winner)
	return MoveOutcome{
		Result:  Checkmate,
		Winner:  &winner,
		Message: fmt.Sprintf("Check Mate! %s wins!", mover.Name),
	}, nil
}

func (g *Game) finish(result Outcome, winner *Color) {
	g.gameOver = true
	g.winner = winner
	g.resolve = &result
	log.Infof("game %s over: %s", g.ID, result)
}

func (g *Game) CurrentPlayer() ClientPlayer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players[g.current].client()
}

func (g *Game) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gameOver
}

// Winner is nil while the game runs and after a draw.
func (g *Game) Winner() *Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.winner == nil {
		return nil
	}
	w := *g.winner
	return &w
}

func (g *Game) Scores() map[Color]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return map[Color]int{
		White: g.players[0].Score,
		Black: g.players[1].Score,
	}
}

func (g *Game) Players() PlayersState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playersState()
}

func (g *Game) playersState() PlayersState {
	return PlayersState{White: g.players[0].client(), Black: g.players[1].client()}
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Snapshot()
}

// LegalMoves lists where the piece on from may go if it is its side's turn.
func (g *Game) LegalMoves(from Square) ([]Square, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !from.Valid() {
		return nil, fmt.Errorf("legal moves from %v: %w", from, ErrInvalidSquare)
	}
	piece := g.board.PieceAt(from)
	if g.gameOver || piece == nil || piece.Color != g.players[g.current].Color {
		return nil, nil
	}
	return LegalMoves(g.board, from)
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := GameState{
		ID:       g.ID,
		Board:    g.board.Snapshot(),
		ToMove:   g.players[g.current].Color,
		Players:  g.playersState(),
		IsCheck:  g.attacker != nil,
		GameOver: g.gameOver,
	}
	if g.attacker != nil {
		a := *g.attacker
		state.Attacker = &a
	}
	if g.pending != nil {
		s := *g.pending
		state.SelectedSquare = &s
	}
	if g.lastMove != nil {
		m := *g.lastMove
		state.LastMove = &m
	}
	if g.winner != nil {
		w := *g.winner
		state.Winner = &w
	}
	if g.resolve != nil {
		r := *g.resolve
		state.Resolve = &r
	}
	return state
}
