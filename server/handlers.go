package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/journeyworks/reagent"
)

// researchPayload is a ResearchRequest plus transport-level fields.
type researchPayload struct {
	reagent.ResearchRequest
	// ConversationID selects a stored conversation. When set and the
	// request carries no explicit history, the stored history is injected,
	// and the question and answer are appended afterwards.
	ConversationID string `json:"conversationId,omitempty"`
}

type researchResult struct {
	*reagent.ResearchResponse
	ConversationID string `json:"conversationId,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"activeSessions": s.sessions.Active(),
	})
}

// handleResearch runs a research request to completion and returns the
// full response as JSON.
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	response, err := s.executor.Execute(r.Context(), &payload.ResearchRequest)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.recordTurn(payload, response)
	writeJSON(w, http.StatusOK, researchResult{
		ResearchResponse: response,
		ConversationID:   payload.ConversationID,
	})
}

// handleResearchStream runs a research request while streaming progress as
// Server-Sent Events. The run is detached from the request context: if the
// client disconnects mid-run, the session is cancelled (silencing further
// events) but the run finishes in the background so its conversation turn
// is still recorded.
func (s *Server) handleResearchStream(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		s.writeError(w, reagent.ErrStreamingUnsupported)
		return
	}

	sessionID := uuid.NewString()
	s.sessions.Register(sessionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events := newEventBuffer()
	events.Push(reagent.ConnectedEvent{
		BaseEvent: reagent.NewBaseEvent(reagent.EventConnected, sessionID),
	})

	runCtx := context.WithoutCancel(r.Context())
	go func() {
		defer events.Close()
		defer s.sessions.Remove(sessionID)
		response, err := s.executor.ExecuteStreaming(
			runCtx, &payload.ResearchRequest, sessionID, events)
		if err != nil {
			s.logger.Warn("streaming research rejected", "sessionId", sessionID, "error", err)
			return
		}
		s.recordTurn(payload, response)
	}()

	disconnected := r.Context().Done()
	for {
		select {
		case ev, open := <-events.Out():
			if !open {
				return
			}
			if err := writeSSE(w, ev); err != nil {
				s.sessions.Cancel(sessionID)
				events.discard()
				return
			}
			flusher.Flush()
		case <-disconnected:
			s.sessions.Cancel(sessionID)
			events.discard()
			return
		}
	}
}

// handleCancel cancels an in-flight streaming session. The stream stops
// emitting; the underlying run finishes on its own.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !s.sessions.Cancel(sessionID) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: fmt.Sprintf("unknown session %q", sessionID),
			Code:  reagent.CodeValidation,
		})
		return
	}
	s.logger.Info("session cancelled", "sessionId", sessionID)
	writeJSON(w, http.StatusOK, map[string]any{"cancelled": true})
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if !s.history.Clear(conversationID) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: fmt.Sprintf("unknown conversation %q", conversationID),
			Code:  reagent.CodeValidation,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*researchPayload, bool) {
	var payload researchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid JSON body: " + err.Error(),
			Code:  reagent.CodeValidation,
		})
		return nil, false
	}
	if payload.ConversationID != "" && len(payload.ConversationHistory) == 0 {
		payload.ConversationHistory = s.history.Get(payload.ConversationID)
	}
	return &payload, true
}

// recordTurn appends the question and answer to the conversation, if one
// was named.
func (s *Server) recordTurn(payload *researchPayload, response *reagent.ResearchResponse) {
	if payload.ConversationID == "" || response == nil {
		return
	}
	s.history.Append(payload.ConversationID, reagent.RoleUser, payload.Query)
	s.history.Append(payload.ConversationID, reagent.RoleAssistant, response.Answer)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := reagent.CodeOf(err)
	status := http.StatusInternalServerError
	if code == reagent.CodeValidation {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSSE(w http.ResponseWriter, ev reagent.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind(), data)
	return err
}
