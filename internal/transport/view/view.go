// Package view turns stored games into the shape clients render: board,
// outcome, a status line and a labelled move list.
package view

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

type Game struct {
	ID          string                 `json:"id"`
	Board       tictactoe.Grid         `json:"board"`
	Status      tictactoe.StateKind    `json:"status"`
	StatusText  string                 `json:"status_text"`
	Winner      tictactoe.Cell         `json:"winner,omitempty"`
	WinningLine []tictactoe.Coordinate `json:"winning_line,omitempty"`
	Turn        tictactoe.Cell         `json:"player_turn,omitempty"`
	Cursor      int                    `json:"cursor"`
	Moves       []Move                 `json:"moves"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type Move struct {
	Index   int                   `json:"index"`
	Label   string                `json:"label"`
	Cell    *tictactoe.Coordinate `json:"cell,omitempty"`
	Current bool                  `json:"current,omitempty"`
}

// NewGame - builds the view of a game at its cursor. With reverse set the
// move list is newest first; indices still refer to history positions.
func NewGame(game *entity.Game, reverse bool) *Game {
	session := game.Session
	status := session.Status()

	result := &Game{
		ID:          game.ID,
		Board:       session.CurrentGrid(),
		Status:      status.Kind,
		StatusText:  StatusText(status, session.CurrentTurn()),
		Winner:      status.Winner,
		WinningLine: status.Line,
		Cursor:      session.Cursor(),
		Moves:       Moves(session.Entries(), session.Cursor()),
		UpdatedAt:   game.UpdatedAt,
	}

	if status.IsPlaying() {
		result.Turn = session.CurrentTurn()
	}

	if reverse {
		for i, j := 0, len(result.Moves)-1; i < j; i, j = i+1, j-1 {
			result.Moves[i], result.Moves[j] = result.Moves[j], result.Moves[i]
		}
	}

	return result
}

func StatusText(status tictactoe.GameState, turn tictactoe.Cell) string {
	switch status.Kind {
	case tictactoe.StateDraw:
		return "game draw!"
	case tictactoe.StateWin:
		return fmt.Sprintf("%s wins!", status.Winner)
	default:
		return fmt.Sprintf("%s's turn", turn)
	}
}

// Moves - one labelled item per history entry, oldest first.
func Moves(entries []tictactoe.HistoryEntry, cursor int) []Move {
	moves := make([]Move, len(entries))
	for i, entry := range entries {
		moves[i] = Move{
			Index:   i,
			Label:   moveLabel(i, cursor),
			Cell:    entry.Move,
			Current: i == cursor,
		}
	}

	return moves
}

func moveLabel(index, cursor int) string {
	switch {
	case index == cursor && index == 0:
		return "you're at game start!"
	case index == cursor:
		return fmt.Sprintf("on move %d", index)
	case index == 0:
		return "go to game start"
	default:
		return fmt.Sprintf("move %d", index)
	}
}
