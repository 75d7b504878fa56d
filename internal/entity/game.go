package entity

import (
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

// Game - a stored tic-tac-toe session addressed by ID.
type Game struct {
	ID        string             `json:"id"`
	Session   *tictactoe.Session `json:"session"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func NewGame(id string, now time.Time) *Game {
	return &Game{
		ID:        id,
		Session:   tictactoe.NewSession(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch - records a change to the session.
func (that *Game) Touch(now time.Time) {
	that.UpdatedAt = now
}

func (that *Game) IsOver() bool {
	return !that.Session.Status().IsPlaying()
}
