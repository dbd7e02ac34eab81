package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Live message types
const (
	liveConnected = "connected"
	liveQuery     = "query"
	liveSubmit    = "submit"
	liveResults   = "results"
	liveError     = "error"
)

// LiveRequest is sent by the client for every edit of the search form.
// "query" evaluates only; "submit" also records the term as a recent search.
type LiveRequest struct {
	Type  string       `json:"type"`
	Seq   int64        `json:"seq"`
	Query models.Query `json:"query"`
}

// LiveResponse answers one LiveRequest. Responses are written in request
// order; clients keep the one with the highest seq.
type LiveResponse struct {
	Type     string            `json:"type"`
	Seq      int64             `json:"seq,omitempty"`
	Session  string            `json:"session,omitempty"`
	Active   bool              `json:"active"`
	Total    int               `json:"total"`
	Projects []*models.Project `json:"projects"`
	Message  string            `json:"message,omitempty"`
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	session := uuid.New().String()
	slog.Info("live search connected", "session", session, "remote_addr", r.RemoteAddr)

	if err := s.sendLive(conn, LiveResponse{Type: liveConnected, Session: session}); err != nil {
		return
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "session", session, "error", err)
			}
			break
		}

		req := LiveRequest{Query: models.NewQuery()}
		if err := json.Unmarshal(message, &req); err != nil {
			if s.sendLive(conn, LiveResponse{Type: liveError, Message: "invalid message format"}) != nil {
				break
			}
			continue
		}

		if s.sendLive(conn, s.answerLive(r, req)) != nil {
			break
		}
	}

	slog.Info("live search disconnected", "session", session)
}

func (s *Server) answerLive(r *http.Request, req LiveRequest) LiveResponse {
	if req.Type != liveQuery && req.Type != liveSubmit {
		return LiveResponse{Type: liveError, Seq: req.Seq, Message: "unknown message type: " + req.Type}
	}

	q, err := req.Query.Normalize()
	if err != nil {
		return LiveResponse{Type: liveError, Seq: req.Seq, Message: err.Error()}
	}

	var result models.Result
	if req.Type == liveSubmit {
		result, err = s.service.Search(r.Context(), q)
	} else {
		result, err = s.service.Evaluate(q)
	}
	if err != nil {
		return LiveResponse{Type: liveError, Seq: req.Seq, Message: err.Error()}
	}

	return LiveResponse{
		Type:     liveResults,
		Seq:      req.Seq,
		Active:   result.Active,
		Total:    result.Total,
		Projects: result.Projects,
	}
}

func (s *Server) sendLive(conn *websocket.Conn, msg LiveResponse) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal live message", "error", err)
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send live message", "error", err)
		return err
	}
	return nil
}
