package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/transport/view"
)

const (
	actionNewGame    = "game:new"
	actionGetGame    = "game:get"
	actionGameTurn   = "game:turn"
	actionGameJump   = "game:jump"
	actionDeleteGame = "game:delete"
	actionError      = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	GameID  string                `json:"game_id,omitempty"`
	Cell    *tictactoe.Coordinate `json:"cell,omitempty"`
	Index   *int                  `json:"index,omitempty"`
	Reverse bool                  `json:"reverse,omitempty"`
}

type ResponsePayload struct {
	Game    *view.Game `json:"game,omitempty"`
	Deleted string     `json:"deleted,omitempty"`
	Error   string     `json:"error,omitempty"`
}
