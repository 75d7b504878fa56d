package websocket

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/transport/view"
)

var (
	errGameIDRequired = errors.New("game_id is required")
	errCellRequired   = errors.New("cell is required")
	errIndexRequired  = errors.New("index is required")
)

// errors the client caused; anything else is reported as an internal error
var clientErrors = []error{
	errGameIDRequired,
	errCellRequired,
	errIndexRequired,
	apperror.ErrGameNotFound,
	apperror.ErrCellOccupied,
	apperror.ErrGameOver,
	apperror.ErrInvalidCell,
	apperror.ErrIndexOutOfRange,
}

func (that *Server) handleNewGame(ctx context.Context, req *RequestPayload) (*ResponsePayload, error) {
	game, err := that.gameUseCase.NewGame(ctx)
	if err != nil {
		return nil, err
	}

	return &ResponsePayload{Game: view.NewGame(game, req.Reverse)}, nil
}

func (that *Server) handleGetGame(ctx context.Context, req *RequestPayload) (*ResponsePayload, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	game, err := that.gameUseCase.GetGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	return &ResponsePayload{Game: view.NewGame(game, req.Reverse)}, nil
}

func (that *Server) handleGameTurn(ctx context.Context, req *RequestPayload) (*ResponsePayload, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	if req.Cell == nil {
		return nil, errCellRequired
	}

	game, err := that.gameUseCase.MakeTurn(ctx, req.GameID, *req.Cell)

	return gameResponse(game, req.Reverse), err
}

func (that *Server) handleGameJump(ctx context.Context, req *RequestPayload) (*ResponsePayload, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	if req.Index == nil {
		return nil, errIndexRequired
	}

	game, err := that.gameUseCase.JumpTo(ctx, req.GameID, *req.Index)

	return gameResponse(game, req.Reverse), err
}

func (that *Server) handleDeleteGame(ctx context.Context, req *RequestPayload) (*ResponsePayload, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	if err := that.gameUseCase.DeleteGame(ctx, req.GameID); err != nil {
		return nil, err
	}

	return &ResponsePayload{Deleted: req.GameID}, nil
}

// gameResponse - a rejected move still carries the unchanged game so the client can re-render.
func gameResponse(game *entity.Game, reverse bool) *ResponsePayload {
	if game == nil {
		return nil
	}

	return &ResponsePayload{Game: view.NewGame(game, reverse)}
}

func (that *Server) errorResponse(log *slog.Logger, resp *ResponsePayload, err error) *ResponsePayload {
	if resp == nil {
		resp = &ResponsePayload{}
	}

	for _, known := range clientErrors {
		if errors.Is(err, known) {
			log.Debug("request rejected", "error", err)
			resp.Error = err.Error()

			return resp
		}
	}

	log.Error("failed to process message", "error", err)
	resp.Error = "internal error"

	return resp
}
