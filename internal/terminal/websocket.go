package terminal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/identity"
	"github.com/ashureev/folio/internal/store"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Client message types.
const (
	MsgExec    = "exec"
	MsgHistory = "history"
	MsgPing    = "ping"
	MsgClear   = "clear"
)

// Server message types.
const (
	MsgTranscript = "transcript"
	MsgResult     = "result"
	MsgRecall     = "recall"
	MsgPong       = "pong"
	MsgError      = "error"
)

// HandlerOptions configures a WebSocketHandler.
type HandlerOptions struct {
	Owner          string
	RecallSize     int
	MaxInputLength int
	AllowedOrigin  []string
	IsDev          bool
}

// WebSocketHandler serves interactive terminal shells over WebSocket.
type WebSocketHandler struct {
	repo     store.Repository
	resolver *Resolver
	sm       *SessionManager
	opts     HandlerOptions
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(repo store.Repository, resolver *Resolver, sm *SessionManager, opts HandlerOptions) *WebSocketHandler {
	return &WebSocketHandler{
		repo:     repo,
		resolver: resolver,
		sm:       sm,
		opts:     opts,
	}
}

// clientMessage is what the browser sends.
type clientMessage struct {
	Type      string `json:"type"`
	Input     string `json:"input,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// serverMessage is what the shell sends back.
type serverMessage struct {
	Type       string  `json:"type"`
	Input      string  `json:"input,omitempty"`
	Result     *Result `json:"result,omitempty"`
	Clear      bool    `json:"clear,omitempty"`
	Transcript []Entry `json:"transcript,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	visitorID := identity.VisitorIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	connID := uuid.NewString()
	log := slog.With("visitor_id", visitorID, "session_id", sessionID, "conn_id", connID)
	log.Info("WebSocket connection request", "ip", identity.IPFromRequest(r))

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Error("Failed to accept WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			log.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	shell := NewShell(h.resolver, h.seedRecall(ctx, visitorID), h.opts.Owner)
	h.sm.Register(visitorID, sessionID, ws, shell)
	defer h.sm.Unregister(visitorID, sessionID, ws)

	if err := h.writeJSON(ctx, ws, serverMessage{Type: MsgTranscript, Transcript: shell.Transcript()}); err != nil {
		log.Debug("Failed to send transcript", "error", err)
		return
	}

	h.inputLoop(ctx, ws, shell, log, visitorID, sessionID)
	log.Info("Terminal session ended")
}

// seedRecall loads the visitor's recent history so recall survives reconnects.
func (h *WebSocketHandler) seedRecall(ctx context.Context, visitorID string) *Recall {
	recall := NewRecall(h.opts.RecallSize)
	records, err := h.repo.RecentCommands(ctx, visitorID, h.opts.RecallSize)
	if err != nil {
		slog.Warn("Failed to load command history", "error", err, "visitor_id", visitorID)
		return recall
	}
	for _, rec := range records {
		recall.Push(rec.Normalized)
	}
	return recall
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.opts.IsDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigin {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.opts.AllowedOrigin)
	return false
}

func (h *WebSocketHandler) inputLoop(ctx context.Context, ws *websocket.Conn, shell *Shell, log *slog.Logger, visitorID, sessionID string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Debug("WebSocket closed by client")
			} else if ctx.Err() == nil {
				log.Warn("WebSocket read error", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.send(ctx, ws, log, serverMessage{Type: MsgError, Error: "invalid message"})
			continue
		}

		switch msg.Type {
		case MsgExec:
			if h.opts.MaxInputLength > 0 && len(msg.Input) > h.opts.MaxInputLength {
				h.send(ctx, ws, log, serverMessage{Type: MsgError, Error: "input too long"})
				continue
			}
			exec := shell.Submit(msg.Input)
			h.persist(visitorID, sessionID, msg.Input)
			h.send(ctx, ws, log, serverMessage{Type: MsgResult, Input: msg.Input, Result: &exec.Result, Clear: exec.Cleared})
		case MsgHistory:
			var line string
			switch msg.Direction {
			case "down":
				line = shell.Recall().Down()
			case "reset":
				shell.Recall().Reset()
			default:
				line = shell.Recall().Up()
			}
			h.send(ctx, ws, log, serverMessage{Type: MsgRecall, Input: line})
		case MsgClear:
			exec := shell.Submit(ClearCommand)
			h.send(ctx, ws, log, serverMessage{Type: MsgResult, Input: ClearCommand, Result: &exec.Result, Clear: true})
		case MsgPing:
			h.send(ctx, ws, log, serverMessage{Type: MsgPong})
		default:
			h.send(ctx, ws, log, serverMessage{Type: MsgError, Error: "unknown message type"})
		}
	}
}

// persist stores a non-empty line and touches the visitor asynchronously.
func (h *WebSocketHandler) persist(visitorID, sessionID, input string) {
	if domain.NormalizeCommand(input) == "" {
		return
	}
	rec := domain.NewCommandRecord(visitorID, sessionID, input, time.Now())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.repo.AppendCommand(ctx, rec); err != nil {
			slog.Warn("Failed to record command", "error", err, "visitor_id", visitorID)
		}
		if err := h.repo.UpdateLastSeen(ctx, visitorID, rec.CreatedAt); err != nil {
			slog.Warn("Failed to update last seen", "error", err, "visitor_id", visitorID)
		}
	}()
}

func (h *WebSocketHandler) send(ctx context.Context, ws *websocket.Conn, log *slog.Logger, msg serverMessage) {
	if err := h.writeJSON(ctx, ws, msg); err != nil {
		log.Debug("Failed to send message", "type", msg.Type, "error", err)
	}
}

func (h *WebSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return ws.Write(writeCtx, websocket.MessageText, data)
}
