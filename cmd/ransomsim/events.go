package main

import (
	"net/http"
	"strconv"
	"time"

	"ransomsim/internal/constants"
	apperrors "ransomsim/internal/errors"
	"ransomsim/internal/metrics"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/mux"
)

// chatEvent is one frame on the live event stream. Type is either
// "message" or "presence".
type chatEvent struct {
	Type    string           `json:"type"`
	Message *messageResponse `json:"message,omitempty"`
	Typing  *bool            `json:"typing,omitempty"`
}

// handleEvents upgrades to a websocket and streams new messages and
// typing-state changes for one conversation. The stream is poll-backed:
// the store is the single source of truth, so a frame is only sent for
// rows already durable in the message log.
func (s *Server) handleEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := mux.Vars(r)["conversationID"]

		// Reject unknown conversations before upgrading
		if _, err := s.chatService.GetConversation(r.Context(), conversationID); err != nil {
			s.writeError(w, r, err)
			return
		}

		lastID := int64(0)
		if after := r.URL.Query().Get("after"); after != "" {
			parsed, err := strconv.ParseInt(after, 10, 64)
			if err != nil {
				s.writeError(w, r, apperrors.NewValidationError("after", "must be an integer message ID"))
				return
			}
			lastID = parsed
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			s.logger.WithError(err).Warn("Websocket upgrade failed")
			return
		}
		defer conn.Close(websocket.StatusInternalError, "stream closed")

		metrics.IncrementCounter("event_streams_total", nil, "Websocket event streams opened")

		// Reads are discarded; the stream is one-way. CloseRead gives
		// us a context that ends when the client goes away.
		ctx := conn.CloseRead(r.Context())

		logger := s.logger.WithField("conversation_id", conversationID)
		logger.Debug("Event stream opened")

		ticker := time.NewTicker(time.Duration(constants.DefaultEventPollIntervalMs) * time.Millisecond)
		defer ticker.Stop()

		lastTyping := false

		for {
			select {
			case <-ctx.Done():
				logger.Debug("Event stream closed")
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case <-ticker.C:
			}

			msgs, err := s.chatService.GetHistoryAfter(ctx, conversationID, lastID)
			if err != nil {
				logger.WithError(err).Warn("Event stream poll failed")
				conn.Close(websocket.StatusInternalError, "poll failed")
				return
			}

			for _, msg := range msgs {
				resp := toMessageResponse(msg)
				if err := wsjson.Write(ctx, conn, chatEvent{Type: "message", Message: &resp}); err != nil {
					logger.WithError(err).Debug("Event stream write failed")
					return
				}
				lastID = msg.ID
			}

			typing := s.chatService.IsTyping(conversationID)
			if typing != lastTyping {
				lastTyping = typing
				if err := wsjson.Write(ctx, conn, chatEvent{Type: "presence", Typing: &typing}); err != nil {
					logger.WithError(err).Debug("Event stream write failed")
					return
				}
			}
		}
	}
}
