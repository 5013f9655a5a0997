package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes
const (
	gamePrefix   = "game/"
	playerPrefix = "player/"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("record already exists")
	ErrInvalidRecord   = errors.New("invalid record")
)

// GameRecord is one finished game. Winner is the winning player's name and is
// empty for a draw.
type GameRecord struct {
	ID         string         `json:"id"`
	GameID     string         `json:"game_id"`
	White      string         `json:"white"`
	Black      string         `json:"black"`
	Result     string         `json:"result"`
	Winner     string         `json:"winner,omitempty"`
	Scores     map[string]int `json:"scores"`
	FinishedAt time.Time      `json:"finished_at"`
}

// PlayerStats is the running tally for one player name across games.
type PlayerStats struct {
	Name        string    `json:"name"`
	GamesPlayed int       `json:"games_played"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	Draws       int       `json:"draws"`
	Points      int       `json:"points"`
	LastPlayed  time.Time `json:"last_played"`
}

// WinRate returns the win rate as a percentage (0-100)
func (s *PlayerStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// ResultStore keeps finished games and player tallies in BadgerDB.
type ResultStore struct {
	db *badger.DB
}

// Open opens the store under dir, or an in-memory store when dir is empty.
func Open(dir string) (*ResultStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Fiber's logger covers the server

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordGame stores rec and updates both players' tallies in one transaction.
func (s *ResultStore) RecordGame(rec GameRecord) error {
	if rec.ID == "" || rec.White == "" || rec.Black == "" {
		return fmt.Errorf("%w: id and both player names are required", ErrInvalidRecord)
	}
	if rec.Winner != "" && rec.Winner != rec.White && rec.Winner != rec.Black {
		return fmt.Errorf("%w: winner %q did not play", ErrInvalidRecord, rec.Winner)
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(gamePrefix + rec.ID)
		_, err := txn.Get(key)
		if err == nil {
			return fmt.Errorf("game record %s: %w", rec.ID, ErrDuplicateRecord)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}

		for _, name := range []string{rec.White, rec.Black} {
			stats, err := loadStats(txn, name)
			if err != nil {
				return err
			}
			stats.GamesPlayed++
			stats.Points += rec.Scores[name]
			stats.LastPlayed = rec.FinishedAt
			switch rec.Winner {
			case "":
				stats.Draws++
			case name:
				stats.Wins++
			default:
				stats.Losses++
			}
			if err := saveStats(txn, stats); err != nil {
				return err
			}
			// a player facing themselves counts once
			if rec.White == rec.Black {
				break
			}
		}
		return nil
	})
}

// Game loads a stored record by its id.
func (s *ResultStore) Game(id string) (*GameRecord, error) {
	var rec GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gamePrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("game record %s: %w", id, ErrRecordNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// PlayerStats returns the tally for name, empty if it never finished a game.
func (s *ResultStore) PlayerStats(name string) (*PlayerStats, error) {
	var stats *PlayerStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn, name)
		return err
	})
	return stats, err
}

// History lists the games name played, most recent first.
func (s *ResultStore) History(name string) ([]GameRecord, error) {
	var records []GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			if rec.White == name || rec.Black == name {
				records = append(records, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].FinishedAt.After(records[j].FinishedAt)
	})
	return records, nil
}

func loadStats(txn *badger.Txn, name string) (*PlayerStats, error) {
	stats := &PlayerStats{Name: name}
	item, err := txn.Get([]byte(playerPrefix + name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}

func saveStats(txn *badger.Txn, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return txn.Set([]byte(playerPrefix+stats.Name), data)
}
