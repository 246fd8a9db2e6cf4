// Package api exposes the chat operations over HTTP with JSON bodies.
// Routes mirror the historical front-end contract: /chats/attend,
// /chats/post (alias /messages/post), /chats/get (alias /messages/get)
// and /chats/people, all keyed by the chatId query parameter.
package api

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"messenger/domain"
	"messenger/errors"
	"messenger/services"

	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  services.IChatService
	log      *slog.Logger
	validate *validator.Validate
}

func NewHandler(service services.IChatService, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log, validate: validator.New()}
}

// Routes assembles the mux with the request-id logging middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /chats/attend", h.attend)
	mux.HandleFunc("POST /chats/post", h.post)
	mux.HandleFunc("POST /messages/post", h.post)
	mux.HandleFunc("GET /chats/get", h.listMessages)
	mux.HandleFunc("GET /messages/get", h.listMessages)
	mux.HandleFunc("GET /chats/people", h.listPeople)

	return withRequestLogging(h.log, mux)
}

type attendRequest struct {
	Person string `json:"person" validate:"required"`
}

type postRequest struct {
	Author   string `json:"author" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Timecode int64  `json:"timecode"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) attend(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.roomID(w, r)
	if !ok {
		return
	}
	var req attendRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.Join(r.Context(), domain.JoinCommand{Room: int(roomID), Person: req.Person})
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.roomID(w, r)
	if !ok {
		return
	}
	var req postRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.Post(r.Context(), domain.PostCommand{
		Room:     int(roomID),
		Author:   req.Author,
		Content:  req.Content,
		Timecode: req.Timecode,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.roomID(w, r)
	if !ok {
		return
	}
	messages, err := h.service.ListMessages(roomID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	h.writeJSON(w, http.StatusOK, messages)
}

func (h *Handler) listPeople(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.roomID(w, r)
	if !ok {
		return
	}
	people, err := h.service.ListPeople(roomID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if people == nil {
		people = []string{}
	}
	h.writeJSON(w, http.StatusOK, people)
}

// roomID extracts and validates the chatId query parameter. A missing
// or non-integer id is malformed input, not an unknown room: rooms
// exist implicitly and reads of untouched ids return empty collections.
func (h *Handler) roomID(w http.ResponseWriter, r *http.Request) (domain.RoomID, bool) {
	raw := r.URL.Query().Get("chatId")
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chatId must be an integer"})
		return 0, false
	}
	return domain.RoomID(id), true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": errors.ErrMalformedInput.Error()})
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var storageErr *errors.StorageError
	switch {
	case stderrors.Is(err, errors.ErrNotMember):
		h.writeJSON(w, http.StatusForbidden, map[string]string{"error": "User not in chat"})
	case stderrors.As(err, &storageErr):
		h.log.Error("Storage failure", "op", storageErr.Op, "error", storageErr.Err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
	default:
		h.log.Error("Unexpected failure", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("Response encoding failed", "error", err)
	}
}
