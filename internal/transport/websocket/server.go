package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
	sendBuffer   = 32
	readLimit    = 4096
)

type gameUseCase interface {
	NewGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, c tictactoe.Coordinate) (*entity.Game, error)
	JumpTo(ctx context.Context, id string, index int) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

type handlerFunc func(ctx context.Context, req *RequestPayload) (*ResponsePayload, error)

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionGetGame] = server.handleGetGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameJump] = server.handleGameJump
	server.handlers[actionDeleteGame] = server.handleDeleteGame

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and processes messages until the client goes away.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS", "remote", req.RemoteAddr)

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	conn.SetReadLimit(readLimit)
	if err = conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Error("failed to set read deadline", "error", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	outbox := make(chan Message, sendBuffer)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		that.writeLoop(ctx, cancel, conn, outbox)
	}()

	log.Info("WebSocket connection established")

	that.readLoop(ctx, conn, outbox)

	cancel()
	<-writerDone

	log.Info("WebSocket connection closed")
}

func (that *Server) readLoop(ctx context.Context, conn *websocket.Conn, outbox chan<- Message) {
	log := that.logger.With("method", "readLoop")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}

			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			send(ctx, outbox, actionError, &ResponsePayload{Error: "malformed message"})
		} else {
			send(ctx, outbox, message.Action, that.dispatch(ctx, &message))
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// writeLoop - owns all writes to conn. Once it stops, the connection is
// cancelled and closed so the reader cannot block on a full outbox.
func (that *Server) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, outbox <-chan Message) {
	log := that.logger.With("method", "writeLoop")

	defer func() {
		cancel()
		_ = conn.Close()
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case message := <-outbox:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error("failed to set write deadline", "error", err)
				return
			}
			if err := conn.WriteJSON(message); err != nil {
				log.Error("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (that *Server) dispatch(ctx context.Context, message *Message) *ResponsePayload {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		return &ResponsePayload{Error: "unknown action " + message.Action}
	}

	var req RequestPayload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &req); err != nil {
			log.Warn("failed to unmarshal payload", "error", err)
			return &ResponsePayload{Error: "malformed payload"}
		}
	}

	resp, err := handler(ctx, &req)
	if err != nil {
		return that.errorResponse(log, resp, err)
	}

	return resp
}

func send(ctx context.Context, outbox chan<- Message, action string, payload *ResponsePayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(`{"error":"internal error"}`)
	}

	select {
	case outbox <- Message{Action: action, Payload: data}:
	case <-ctx.Done():
	}
}
