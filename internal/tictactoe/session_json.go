package tictactoe

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
)

type sessionJSON struct {
	History []HistoryEntry `json:"history"`
	Cursor  int            `json:"cursor"`
}

func (that *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		History: that.history,
		Cursor:  that.cursor,
	})
}

// UnmarshalJSON - restores a session, rejecting data that breaks any timeline invariant.
func (that *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if err := validateTimeline(raw.History, raw.Cursor); err != nil {
		return err
	}

	that.history = raw.History
	that.cursor = raw.Cursor

	return nil
}

func validateTimeline(history []HistoryEntry, cursor int) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: empty history", apperror.ErrCorruptedSession)
	}

	if cursor < 0 || cursor >= len(history) {
		return fmt.Errorf("%w: cursor %d outside history of %d", apperror.ErrCorruptedSession, cursor, len(history))
	}

	for i, entry := range history {
		for _, row := range entry.Grid {
			for _, cell := range row {
				if !cell.IsValid() {
					return fmt.Errorf("%w: entry %d has unknown cell %q", apperror.ErrCorruptedSession, i, cell)
				}
			}
		}

		switch {
		case i == 0 && entry.Move != nil:
			return fmt.Errorf("%w: initial entry records a move", apperror.ErrCorruptedSession)
		case i > 0 && entry.Move == nil:
			return fmt.Errorf("%w: entry %d has no move", apperror.ErrCorruptedSession, i)
		case i > 0 && !entry.Move.Valid():
			return fmt.Errorf("%w: entry %d move %s off the board", apperror.ErrCorruptedSession, i, *entry.Move)
		case i == 0 && entry.Grid != (Grid{}):
			return fmt.Errorf("%w: initial board is not empty", apperror.ErrCorruptedSession)
		case i == 0:
			continue
		}

		// every later entry must be exactly what PlayMove makes of the one before
		prev := history[i-1].Grid
		switch {
		case !Evaluate(prev).IsPlaying():
			return fmt.Errorf("%w: entry %d follows a finished game", apperror.ErrCorruptedSession, i)
		case prev.Get(*entry.Move) != EmptyCell:
			return fmt.Errorf("%w: entry %d moves onto occupied %s", apperror.ErrCorruptedSession, i, *entry.Move)
		case entry.Grid != prev.WithMove(*entry.Move, turnAt(i-1)):
			return fmt.Errorf("%w: entry %d does not follow from entry %d", apperror.ErrCorruptedSession, i, i-1)
		}
	}

	return nil
}
