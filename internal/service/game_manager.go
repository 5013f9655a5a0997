package service

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
)

// GameManager is the registry of running games and the client that opened
// each of them.
type GameManager struct {
	games map[string]*session
	mu    sync.RWMutex
}

type session struct {
	game  *model.Game
	owner string
}

func NewGameManager() *GameManager {
	return &GameManager{
		games: make(map[string]*session),
	}
}

func (gm *GameManager) CreateGame(owner string, game *model.Game) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[game.ID]; exists {
		return fmt.Errorf("%s: %w", game.ID, ErrGameExists)
	}
	gm.games[game.ID] = &session{game: game, owner: owner}
	log.Debugf("game %s registered for client %s", game.ID, owner)
	return nil
}

// GetGame returns the game if clientID opened it.
func (gm *GameManager) GetGame(gameID, clientID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%s: %w", gameID, ErrGameNotFound)
	}
	if s.owner != clientID {
		return nil, fmt.Errorf("%s: %w", gameID, ErrForbidden)
	}
	return s.game, nil
}

func (gm *GameManager) RemoveGame(gameID, clientID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	s, exists := gm.games[gameID]
	if !exists {
		return fmt.Errorf("%s: %w", gameID, ErrGameNotFound)
	}
	if s.owner != clientID {
		return fmt.Errorf("%s: %w", gameID, ErrForbidden)
	}
	delete(gm.games, gameID)
	log.Debugf("game %s removed", gameID)
	return nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}
