package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

const lockStripes = 64

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager - loads a game, applies one transition to its session and stores it back.
// Calls for the same game are serialized.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	now   func() time.Time
	newID func() string

	locks [lockStripes]sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,

		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (that *GameManager) NewGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(that.newID(), that.now())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

// GetGame - reads a game once no transition of it is in progress.
func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	unlock := that.lock(id)
	defer unlock()

	return that.load(ctx, id)
}

func (that *GameManager) load(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeTurn - plays c for whoever is to move. When the move is rejected the
// unchanged game is returned along with the error.
func (that *GameManager) MakeTurn(ctx context.Context, id string, c tictactoe.Coordinate) (*entity.Game, error) {
	return that.update(ctx, id, "MakeTurn", func(session *tictactoe.Session) error {
		return session.PlayMove(c)
	})
}

// JumpTo - moves the game's cursor to a past or future point of its history.
func (that *GameManager) JumpTo(ctx context.Context, id string, index int) (*entity.Game, error) {
	return that.update(ctx, id, "JumpTo", func(session *tictactoe.Session) error {
		return session.JumpTo(index)
	})
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

func (that *GameManager) update(ctx context.Context, id, method string, apply func(*tictactoe.Session) error) (*entity.Game, error) {
	log := that.logger.With("method", method, "gameID", id)

	unlock := that.lock(id)
	defer unlock()

	game, err := that.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = apply(game.Session); err != nil {
		log.Debug("transition rejected", "error", err)
		return game, err
	}

	game.Touch(that.now())

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	log.Debug("game updated", "cursor", game.Session.Cursor(), "length", game.Session.Len(), "status", game.Session.Status().Kind)

	return game, nil
}

func (that *GameManager) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))

	mu := &that.locks[h.Sum32()%lockStripes]
	mu.Lock()

	return mu.Unlock
}
