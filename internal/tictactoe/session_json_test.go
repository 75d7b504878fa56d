package tictactoe

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_JSON(t *testing.T) {
	t.Run("Restores timeline and cursor", func(t *testing.T) {
		// Given: a session that was rewound after a few moves
		session := NewSession()
		playAll(t, session, rowWinMoves)
		require.NoError(t, session.JumpTo(3))

		// When: it goes through JSON
		data, err := json.Marshal(session)
		require.NoError(t, err)

		var restored Session
		require.NoError(t, json.Unmarshal(data, &restored))

		// Then: timeline, cursor and status survive
		assert.Equal(t, session.Entries(), restored.Entries())
		assert.Equal(t, 3, restored.Cursor())
		assert.Equal(t, session.Status(), restored.Status())
		assert.Equal(t, PlayerO, restored.CurrentTurn())
	})

	t.Run("Encodes cells as marks", func(t *testing.T) {
		session := NewSession()
		require.NoError(t, session.PlayMove(Coordinate{Row: 0, Col: 1}))

		data, err := json.Marshal(session)
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"history": [
				{"grid": [["","",""],["","",""],["","",""]]},
				{"grid": [["","X",""],["","",""],["","",""]], "move": {"row": 0, "col": 1}}
			],
			"cursor": 1
		}`, string(data))
	})
}

func TestSession_UnmarshalJSON_Corrupted(t *testing.T) {
	empty := `[["","",""],["","",""],["","",""]]`

	tests := []struct {
		name string
		data string
	}{
		{
			name: "empty history",
			data: `{"history": [], "cursor": 0}`,
		},
		{
			name: "cursor past the end",
			data: `{"history": [{"grid": ` + empty + `}], "cursor": 1}`,
		},
		{
			name: "negative cursor",
			data: `{"history": [{"grid": ` + empty + `}], "cursor": -1}`,
		},
		{
			name: "initial entry with a move",
			data: `{"history": [{"grid": ` + empty + `, "move": {"row": 0, "col": 0}}], "cursor": 0}`,
		},
		{
			name: "later entry without a move",
			data: `{"history": [{"grid": ` + empty + `}, {"grid": ` + empty + `}], "cursor": 0}`,
		},
		{
			name: "move off the board",
			data: `{"history": [{"grid": ` + empty + `}, {"grid": ` + empty + `, "move": {"row": 5, "col": 0}}], "cursor": 0}`,
		},
		{
			name: "initial board not empty",
			data: `{"history": [{"grid": [["X","",""],["","",""],["","",""]]}], "cursor": 0}`,
		},
		{
			name: "board does not match the move",
			data: `{"history": [{"grid": ` + empty + `}, {"grid": [["O","O","O"],["","",""],["","",""]], "move": {"row": 2, "col": 2}}], "cursor": 1}`,
		},
		{
			name: "move placed with the wrong mark",
			data: `{"history": [{"grid": ` + empty + `}, {"grid": [["O","",""],["","",""],["","",""]], "move": {"row": 0, "col": 0}}], "cursor": 1}`,
		},
		{
			name: "move onto an occupied cell",
			data: `{"history": [{"grid": ` + empty + `}, {"grid": [["X","",""],["","",""],["","",""]], "move": {"row": 0, "col": 0}}, {"grid": [["O","",""],["","",""],["","",""]], "move": {"row": 0, "col": 0}}], "cursor": 2}`,
		},
		{
			name: "unknown mark",
			data: `{"history": [{"grid": [["Z","",""],["","",""],["","",""]]}], "cursor": 0}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var session Session

			err := json.Unmarshal([]byte(tt.data), &session)

			require.ErrorIs(t, err, apperror.ErrCorruptedSession)
		})
	}

	t.Run("move after the game was won", func(t *testing.T) {
		// Given: a won timeline with one more legal-looking entry appended
		session := NewSession()
		playAll(t, session, rowWinMoves)

		raw := sessionJSON{History: session.Entries(), Cursor: session.Cursor()}
		last := raw.History[len(raw.History)-1].Grid
		move := Coordinate{Row: 2, Col: 0}
		raw.History = append(raw.History, HistoryEntry{Grid: last.WithMove(move, PlayerO), Move: &move})

		data, err := json.Marshal(raw)
		require.NoError(t, err)

		// When: it is decoded
		var restored Session
		err = json.Unmarshal(data, &restored)

		// Then: the extra entry is rejected
		require.ErrorIs(t, err, apperror.ErrCorruptedSession)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		var session Session

		err := json.Unmarshal([]byte(`{"history": 5}`), &session)

		require.Error(t, err)
		assert.NotErrorIs(t, err, apperror.ErrCorruptedSession)
	})
}
