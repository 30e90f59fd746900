package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"pairpad/internal/events"
	"pairpad/internal/metrics"
	"pairpad/internal/models"
	"pairpad/internal/session"
	"pairpad/internal/snippets"
	"pairpad/internal/utils"
)

// runTimeout caps one sandbox execution end to end.
const runTimeout = 12 * time.Second

type runner interface {
	Run(ctx context.Context, lang models.Language, code string) models.RunResult
}

// Handlers is the composition root: REST CRUD over the registry plus the
// WebSocket gateway that drives joins, mutations and departures.
type Handlers struct {
	log      *utils.Logger
	registry *session.Registry
	runner   runner
	events   *events.Publisher
}

func NewHandlers(log *utils.Logger, registry *session.Registry, r runner, publisher *events.Publisher) *Handlers {
	return &Handlers{
		log:      log,
		registry: registry,
		runner:   r,
		events:   publisher,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) ListLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, snippets.Supported())
}

func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	s := h.registry.Create(req.Language)
	language, code := s.Snapshot()

	metrics.SessionsCreated.Inc()
	metrics.SessionsActive.Set(float64(h.registry.Count()))
	h.events.SessionCreated(r.Context(), s.ID, language)
	h.log.Info("session created", "session", s.ID, "language", string(language))

	writeJSON(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: s.ID,
		Language:  language,
		Code:      code,
	})
}

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return
	}
	language, code := s.Snapshot()
	writeJSON(w, http.StatusOK, models.SessionResponse{
		SessionID: s.ID,
		Language:  language,
		Code:      code,
		Users:     s.Users(),
	})
}

func (h *Handlers) RunOnce(w http.ResponseWriter, r *http.Request) {
	var req models.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), runTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, h.runner.Run(ctx, req.Language, req.Code))
}

/*** WebSocket gateway ***/

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// SessionWS runs the per-connection state machine: Connected until a valid
// join, then Joined until the connection drops. A failed join leaves the
// connection untouched and joinable.
func (h *Handlers) SessionWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()

	client := session.NewClient(conn)
	var joined *session.Session
	defer func() {
		if joined != nil {
			h.leave(client, joined)
		}
	}()

	for {
		var frame models.WSFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		metrics.EventsTotal.WithLabelValues(frame.Type).Inc()

		switch frame.Type {
		case "join":
			var req models.JoinRequest
			decode(frame.Data, &req)
			if req.SessionID == "" || req.UserName == "" {
				client.Send(errFrame("Session ID and user name are required"))
				continue
			}
			if joined != nil {
				client.Send(errFrame("already joined a session"))
				continue
			}
			// AddParticipant fails on a session whose last participant
			// departed between the lookup and the admit
			s, ok := h.registry.Get(req.SessionID)
			if !ok || !s.AddParticipant(client, req.UserName) {
				client.Send(errFrame("Session not found"))
				continue
			}
			joined = s
			h.log.Info("participant joined", "session", s.ID, "participant", client.ID)

		case "code-change":
			var req models.CodeChange
			decode(frame.Data, &req)
			if req.SessionID == "" {
				continue
			}
			code, ok := req.Code.(string)
			if !ok {
				// wrong-shaped code payloads are dropped without an error
				continue
			}
			s, ok := h.registry.Get(req.SessionID)
			if !ok {
				client.Send(errFrame("Session not found"))
				continue
			}
			s.ApplyCode(client, code)

		case "language-change":
			var req models.LanguageChange
			decode(frame.Data, &req)
			if req.SessionID == "" || req.Language == "" {
				continue
			}
			s, ok := h.registry.Get(req.SessionID)
			if !ok {
				client.Send(errFrame("Session not found"))
				continue
			}
			s.ApplyLanguage(req.Language, snippets.Default(req.Language))

		case "run":
			var req models.RunRequest
			decode(frame.Data, &req)
			// executes outside any session lock; result goes to the requester only
			go h.runForClient(client, req)

		default:
			client.Send(errFrame("unknown event type"))
		}
	}
}

func (h *Handlers) leave(c *session.Client, s *session.Session) {
	remaining := s.RemoveParticipant(c)
	h.log.Info("participant left", "session", s.ID, "participant", c.ID, "remaining", remaining)
	if remaining > 0 {
		return
	}

	h.registry.Delete(s.ID)
	metrics.SessionsActive.Set(float64(h.registry.Count()))
	language, _ := s.Snapshot()
	h.events.SessionEnded(context.Background(), s.ID, language, s.CreatedAt())
	h.log.Info("session ended", "session", s.ID)
}

func (h *Handlers) runForClient(c *session.Client, req models.RunRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	res := h.runner.Run(ctx, req.Language, req.Code)
	c.Send(models.WSFrame{Type: "run-result", Data: res})
}

func decode(in any, out any) {
	b, _ := json.Marshal(in)
	_ = json.Unmarshal(b, out)
}

func errFrame(msg string) models.WSFrame { return models.WSFrame{Type: "error", Data: msg} }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
