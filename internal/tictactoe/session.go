package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
)

// HistoryEntry - a stored board together with the move that produced it.
// Move is nil only for the initial empty board.
type HistoryEntry struct {
	Grid Grid        `json:"grid"`
	Move *Coordinate `json:"move,omitempty"`
}

// Session - a single game with its full, branchable timeline.
//
// The session is the only owner of its history and cursor: entries are never
// mutated once stored, they are only discarded when a move is played from an
// earlier point in time. A session is not safe for concurrent use.
type Session struct {
	history []HistoryEntry
	cursor  int
}

// NewSession - starts a game on an empty board with X to move.
func NewSession() *Session {
	return &Session{
		history: []HistoryEntry{{Grid: Grid{}}},
		cursor:  0,
	}
}

// PlayMove - places the mark of the player to move at c.
//
// Any entries recorded after the cursor are discarded before the new board is
// appended, so playing from the past starts a new branch. On error the session
// is left unchanged.
func (that *Session) PlayMove(c Coordinate) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, c)
	}

	current := that.CurrentGrid()

	if status := Evaluate(current); !status.IsPlaying() {
		return fmt.Errorf("%w: %s", apperror.ErrGameOver, status.Kind)
	}

	if current.Get(c) != EmptyCell {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, c)
	}

	next := current.WithMove(c, that.CurrentTurn())
	move := c

	// drop the abandoned future before appending
	that.history = append(that.history[:that.cursor+1], HistoryEntry{Grid: next, Move: &move})
	that.cursor = len(that.history) - 1

	return nil
}

// JumpTo - moves the cursor to index without touching the history.
func (that *Session) JumpTo(index int) error {
	if index < 0 || index >= len(that.history) {
		return fmt.Errorf("%w: %d not in [0, %d)", apperror.ErrIndexOutOfRange, index, len(that.history))
	}

	that.cursor = index

	return nil
}

// Status - the state of the board at the cursor.
func (that *Session) Status() GameState {
	return Evaluate(that.CurrentGrid())
}

func (that *Session) CurrentGrid() Grid {
	return that.history[that.cursor].Grid
}

// CurrentTurn - X moves on even cursors, O on odd ones. The value is
// meaningless once the game is over but is still returned.
func (that *Session) CurrentTurn() Cell {
	return turnAt(that.cursor)
}

// turnAt - the mark that moves from the board stored at index.
func turnAt(index int) Cell {
	if index%2 == 0 {
		return PlayerX
	}

	return PlayerO
}

func (that *Session) Cursor() int {
	return that.cursor
}

func (that *Session) Len() int {
	return len(that.history)
}

// Entries - a copy of the timeline, oldest first.
func (that *Session) Entries() []HistoryEntry {
	entries := make([]HistoryEntry, len(that.history))
	for i, entry := range that.history {
		entries[i] = HistoryEntry{Grid: entry.Grid}
		if entry.Move != nil {
			move := *entry.Move
			entries[i].Move = &move
		}
	}

	return entries
}
