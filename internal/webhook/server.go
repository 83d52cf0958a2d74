// internal/webhook/server.go
package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/user/cartbot/internal/types"
)

// DefaultBudget bounds the processing of one inbound callback, outbound
// sub-requests included.
const DefaultBudget = 30 * time.Second

// Handler processes one parsed callback.
type Handler func(ctx context.Context, ev *types.WebhookEvent) error

// Server is a lightweight HTTP handler for the platform callback endpoint.
// Callbacks are acknowledged with 200 no matter what happens downstream;
// any other status would make the platform redeliver and produce
// duplicates.
type Server struct {
	handler Handler
	sem     *semaphore.Weighted
	budget  time.Duration
	mux     *http.ServeMux
}

// NewServer creates a Server that allows up to maxConcurrent callbacks to
// be processed simultaneously.
func NewServer(handler Handler, maxConcurrent int64) *Server {
	if maxConcurrent <= 0 {
		maxConcurrent = 16
	}
	s := &Server{
		handler: handler,
		sem:     semaphore.NewWeighted(maxConcurrent),
		budget:  DefaultBudget,
		mux:     http.NewServeMux(),
	}
	// Method-restricted registration compatible with Go 1.21 ServeMux,
	// matching the semantics of "GET /health" / "POST /callback" patterns.
	s.mux.HandleFunc("/health", requireMethod(http.MethodGet, s.handleHealth))
	s.mux.HandleFunc("/callback", requireMethod(http.MethodPost, s.handleCallback))
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// callbackPayload mirrors the platform's webhook JSON.
type callbackPayload struct {
	ConversationID string `json:"conversationId"`
	RequestID      string `json:"requestId"`
	Message        *struct {
		MessageID string `json:"messageId"`
		Text      string `json:"text"`
	} `json:"message"`
	SuggestionResponse *struct {
		PostbackData string `json:"postbackData"`
	} `json:"suggestionResponse"`
	UserStatus *struct {
		IsTyping *bool `json:"isTyping"`
	} `json:"userStatus"`
	Receipts *struct {
		Receipts []struct {
			ReceiptType string `json:"receiptType"`
			Message     string `json:"message"`
		} `json:"receipts"`
	} `json:"receipts"`
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	var payload callbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Warn("malformed webhook body", "error", err)
		ack(w)
		return
	}
	if payload.ConversationID == "" {
		slog.Warn("webhook missing conversationId")
		ack(w)
		return
	}

	ev := parseEvent(&payload)

	// The budget is detached from the request context: once received, a
	// callback is processed to completion even if the platform hangs up.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.budget)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		slog.Error("webhook backlog saturated", "conversation_id", ev.ConversationID, "error", err)
		ack(w)
		return
	}
	defer s.sem.Release(1)

	if err := s.handler(ctx, ev); err != nil {
		slog.Error("webhook handler failed", "conversation_id", ev.ConversationID, "error", err)
	}
	ack(w)
}

func parseEvent(p *callbackPayload) *types.WebhookEvent {
	ev := &types.WebhookEvent{
		ConversationID: types.ConversationID(p.ConversationID),
		RequestID:      p.RequestID,
	}
	switch {
	case p.Message != nil:
		ev.Message = &types.InboundMessage{MessageID: p.Message.MessageID, Text: p.Message.Text}
	case p.SuggestionResponse != nil:
		ev.Suggestion = &types.SuggestionResponse{PostbackData: p.SuggestionResponse.PostbackData}
	case p.UserStatus != nil:
		ev.UserStatus = &types.UserStatus{IsTyping: p.UserStatus.IsTyping != nil && *p.UserStatus.IsTyping}
	case p.Receipts != nil:
		for _, r := range p.Receipts.Receipts {
			ev.Receipts = append(ev.Receipts, types.Receipt{ReceiptType: r.ReceiptType, MessageID: r.Message})
		}
	}
	return ev
}

func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("{}"))
}
