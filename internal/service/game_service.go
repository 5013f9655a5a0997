package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/storage"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// ResultStore is where finished games are reported.
type ResultStore interface {
	RecordGame(rec storage.GameRecord) error
	PlayerStats(name string) (*storage.PlayerStats, error)
	History(name string) ([]storage.GameRecord, error)
}

type GameService struct {
	gameManager *GameManager
	results     ResultStore
}

// MoveResult is a move attempt together with the state it left behind.
type MoveResult struct {
	Outcome model.MoveOutcome `json:"outcome"`
	State   model.GameState   `json:"state"`
}

type ClickResult struct {
	Selected *model.Square      `json:"selected"`
	Outcome  *model.MoveOutcome `json:"outcome,omitempty"`
	State    model.GameState    `json:"state"`
}

// NewGameService builds the service; results may be nil to skip recording.
func NewGameService(gameManager *GameManager, results ResultStore) *GameService {
	return &GameService{
		gameManager: gameManager,
		results:     results,
	}
}

func (gs *GameService) CreateGame(clientID, white, black string) (string, error) {
	white, black = strings.TrimSpace(white), strings.TrimSpace(black)
	if white == "" || black == "" {
		return "", fmt.Errorf("%w: both player names are required", ErrInvalidRequest)
	}
	wp, err := model.NewPlayer(white, model.White)
	if err != nil {
		return "", err
	}
	bp, err := model.NewPlayer(black, model.Black)
	if err != nil {
		return "", err
	}

	gameID := uuid.New().String()
	game, err := model.NewGame(gameID, []*model.Player{wp, bp}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	if err := gs.gameManager.CreateGame(clientID, game); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("game %s created: %s vs %s", gameID, white, black)
	return gameID, nil
}

func (gs *GameService) GetGameState(gameID, clientID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID, clientID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// MakeMove attempts req. A promotion missing from req is asked of chooser,
// which may be nil for transports that cannot ask.
func (gs *GameService) MakeMove(gameID, clientID string, req model.MoveRequest, chooser model.PromotionChooser) (MoveResult, error) {
	game, err := gs.gameManager.GetGame(gameID, clientID)
	if err != nil {
		return MoveResult{}, err
	}
	outcome, err := game.AttemptMoveWith(req.From, req.To, req.Chooser(chooser))
	if err != nil {
		return MoveResult{}, err
	}
	state := game.GetState()
	gs.recordIfFinished(state, outcome)
	return MoveResult{Outcome: outcome, State: state}, nil
}

func (gs *GameService) Click(gameID, clientID string, sq model.Square, chooser model.PromotionChooser) (ClickResult, error) {
	game, err := gs.gameManager.GetGame(gameID, clientID)
	if err != nil {
		return ClickResult{}, err
	}
	res, err := game.ClickWith(sq, chooser)
	if err != nil {
		return ClickResult{}, err
	}
	state := game.GetState()
	if res.Outcome != nil {
		gs.recordIfFinished(state, *res.Outcome)
	}
	return ClickResult{Selected: res.Selected, Outcome: res.Outcome, State: state}, nil
}

func (gs *GameService) Reset(gameID, clientID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID, clientID)
	if err != nil {
		return model.GameState{}, err
	}
	game.Reset()
	log.Infof("game %s reset", gameID)
	return game.GetState(), nil
}

func (gs *GameService) LegalMoves(gameID, clientID string, from model.Square) ([]model.Square, error) {
	game, err := gs.gameManager.GetGame(gameID, clientID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from)
}

func (gs *GameService) EndGame(gameID, clientID string) error {
	return gs.gameManager.RemoveGame(gameID, clientID)
}

func (gs *GameService) PlayerStats(name string) (*storage.PlayerStats, error) {
	if gs.results == nil {
		return nil, ErrNoResultStore
	}
	return gs.results.PlayerStats(name)
}

func (gs *GameService) History(name string) ([]storage.GameRecord, error) {
	if gs.results == nil {
		return nil, ErrNoResultStore
	}
	return gs.results.History(name)
}

// recordIfFinished stores the result of the move that ended the game. A store
// failure is logged; the move itself stands.
func (gs *GameService) recordIfFinished(state model.GameState, outcome model.MoveOutcome) {
	if gs.results == nil || (outcome.Result != model.Checkmate && outcome.Result != model.Stalemate) {
		return
	}
	white, black := state.Players.White, state.Players.Black
	rec := storage.GameRecord{
		ID:     uuid.New().String(),
		GameID: state.ID,
		White:  white.Name,
		Black:  black.Name,
		Result: string(outcome.Result),
		Scores: map[string]int{
			white.Name: white.Score,
			black.Name: black.Score,
		},
		FinishedAt: time.Now(),
	}
	if outcome.Winner != nil {
		rec.Winner = white.Name
		if *outcome.Winner == model.Black {
			rec.Winner = black.Name
		}
	}
	if err := gs.results.RecordGame(rec); err != nil {
		log.Errorf("game %s: recording result: %v", state.ID, err)
		return
	}
	log.Infof("game %s recorded as %s", state.ID, rec.Result)
}
