package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	apperrors "ransomsim/internal/errors"
	"ransomsim/internal/models"
	"ransomsim/internal/service"
	"ransomsim/internal/tracing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate = validator.New()

// submitMessageRequest is the victim chat submission payload
type submitMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

// createConversationRequest is the admin create payload. ID is
// optional; a UUID is minted server-side when absent.
type createConversationRequest struct {
	ID           string     `json:"id"`
	Name         string     `json:"name" validate:"required,max=200"`
	DemandAmount int64      `json:"demandAmount" validate:"required,gt=0"`
	Deadline     *time.Time `json:"deadline"`
	AutoRespond  bool       `json:"autoRespond"`
	Locale       string     `json:"locale" validate:"omitempty,oneof=UK FR DE"`
}

// updateConversationRequest is the admin patch payload
type updateConversationRequest struct {
	AutoRespond   *bool      `json:"autoRespond"`
	Deadline      *time.Time `json:"deadline"`
	ClearDeadline bool       `json:"clearDeadline"`
}

type messageResponse struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         string    `json:"sender"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"createdAt"`
}

type messagesResponse struct {
	Messages []messageResponse `json:"messages"`
	Typing   bool              `json:"typing"`
}

type presenceResponse struct {
	Typing bool `json:"typing"`
}

func toMessageResponse(msg models.ChatMessage) messageResponse {
	return messageResponse{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Sender:         string(msg.Sender),
		Body:           msg.Body,
		CreatedAt:      msg.CreatedAt,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := tracing.GetRequestID(r.Context())
	status := apperrors.HTTPStatusCode(err)

	if status >= 500 {
		apperrors.LogError(s.logger, err, "Request failed")
	}

	s.writeJSON(w, status, apperrors.ToHTTPResponse(err, requestID))
}

func (s *Server) handleSubmitMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := mux.Vars(r)["conversationID"]

		var req submitMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, apperrors.NewValidationError("body", "invalid JSON payload"))
			return
		}
		if err := validate.Struct(req); err != nil {
			s.writeError(w, r, apperrors.NewValidationError("body", err.Error()))
			return
		}

		msg, err := s.chatService.SubmitVictimMessage(r.Context(), conversationID, req.Body)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.writeJSON(w, http.StatusCreated, toMessageResponse(*msg))
	}
}

func (s *Server) handleGetMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := mux.Vars(r)["conversationID"]

		var (
			msgs []models.ChatMessage
			err  error
		)
		if after := r.URL.Query().Get("after"); after != "" {
			afterID, parseErr := strconv.ParseInt(after, 10, 64)
			if parseErr != nil {
				s.writeError(w, r, apperrors.NewValidationError("after", "must be an integer message ID"))
				return
			}
			msgs, err = s.chatService.GetHistoryAfter(r.Context(), conversationID, afterID)
		} else {
			msgs, err = s.chatService.GetHistory(r.Context(), conversationID)
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		resp := messagesResponse{
			Messages: make([]messageResponse, 0, len(msgs)),
			Typing:   s.chatService.IsTyping(conversationID),
		}
		for _, msg := range msgs {
			resp.Messages = append(resp.Messages, toMessageResponse(msg))
		}

		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleGetPresence() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := mux.Vars(r)["conversationID"]
		s.writeJSON(w, http.StatusOK, presenceResponse{
			Typing: s.chatService.IsTyping(conversationID),
		})
	}
}

func (s *Server) handleCreateConversation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, apperrors.NewValidationError("body", "invalid JSON payload"))
			return
		}
		if err := validate.Struct(req); err != nil {
			s.writeError(w, r, apperrors.NewValidationError("body", err.Error()))
			return
		}

		conv, err := s.chatService.CreateConversation(r.Context(), service.CreateConversationParams{
			ID:           req.ID,
			Name:         req.Name,
			DemandAmount: req.DemandAmount,
			Deadline:     req.Deadline,
			AutoRespond:  req.AutoRespond,
			Locale:       models.Locale(req.Locale),
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.writeJSON(w, http.StatusCreated, conv)
	}
}

func (s *Server) handleListConversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := s.chatService.ListConversations(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if summaries == nil {
			summaries = []models.ConversationSummary{}
		}
		s.writeJSON(w, http.StatusOK, summaries)
	}
}

func (s *Server) handleGetConversation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := mux.Vars(r)["conversationID"]

		conv, err := s.chatService.GetConversation(r.Context(), conversationID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, conv)
	}
}

func (s *Server) handleUpdateConversation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := mux.Vars(r)["conversationID"]

		var req updateConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, apperrors.NewValidationError("body", "invalid JSON payload"))
			return
		}

		err := s.chatService.UpdateConversation(r.Context(), conversationID, service.UpdateConversationParams{
			AutoRespond:   req.AutoRespond,
			Deadline:      req.Deadline,
			ClearDeadline: req.ClearDeadline,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
