package agent

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finnychat/internal/agent"
	"github.com/MrJamesThe3rd/finnychat/internal/http/auth"
)

type Handler struct {
	svc *agent.Agent
}

func NewHandler(svc *agent.Agent) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/chat", h.chat)
	r.Post("/chat/reset", h.reset)
	r.Get("/history", h.history)
}

type chatRequest struct {
	Content string `json:"content"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, agent.Response{
			Reply: "Please type a command.",
			Error: agent.ErrEmptyCommand.Error(),
		})

		return
	}

	writeJSON(w, http.StatusOK, h.svc.Handle(r.Context(), userID, req.Content))
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.svc.Reset(r.Context(), userID); err != nil {
		slog.Error("failed to reset conversation", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 0

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = n
	}

	items, err := h.svc.History(r.Context(), userID, limit)
	if err != nil {
		slog.Error("failed to load history", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, items)
}
