package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

type cachedGame struct {
	next  GameRepository
	cache *expirable.LRU[string, []byte]

	// writes bumps on every write or delete; a read-through fill that raced
	// with one is dropped so it cannot replace newer state
	mu     sync.Mutex
	writes uint64
}

// NewCachedGameRepository - keeps the most recently used games in memory in front of next.
// Entries expire with the same ttl as the stored games. Games are cached encoded so every
// reader decodes its own session.
func NewCachedGameRepository(next GameRepository, size int, ttl time.Duration) GameRepository {
	return &cachedGame{
		next:  next,
		cache: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

func (that *cachedGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := encodeGame(game)
	if err != nil {
		return err
	}

	err = that.next.CreateOrUpdate(ctx, game)

	that.mu.Lock()
	defer that.mu.Unlock()

	that.writes++
	if err != nil {
		that.cache.Remove(game.ID)
		return err
	}

	that.cache.Add(game.ID, gameJSON)

	return nil
}

func (that *cachedGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	gameJSON, ok := that.cache.Get(id)
	seen := that.writes
	that.mu.Unlock()

	if ok {
		return decodeGame(gameJSON)
	}

	game, err := that.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if gameJSON, err := encodeGame(game); err == nil {
		that.mu.Lock()
		if that.writes == seen {
			that.cache.Add(id, gameJSON)
		}
		that.mu.Unlock()
	}

	return game, nil
}

func (that *cachedGame) DeleteByID(ctx context.Context, id string) error {
	err := that.next.DeleteByID(ctx, id)

	that.mu.Lock()
	that.writes++
	that.cache.Remove(id)
	that.mu.Unlock()

	return err
}
