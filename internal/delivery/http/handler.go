package http

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"gigtalk/infrastructure/storage"
	"gigtalk/internal/entity"
	"gigtalk/internal/repository"
	"gigtalk/internal/usecase"

	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 32 << 20 // per request, all parts

type HttpHandler struct {
	conversationUc usecase.ConversationUsecase
	messageUc      usecase.MessageUsecase
	files          storage.FileStore
}

func NewHttpHandler(conversationUc usecase.ConversationUsecase, messageUc usecase.MessageUsecase, files storage.FileStore) *HttpHandler {
	return &HttpHandler{
		conversationUc: conversationUc,
		messageUc:      messageUc,
		files:          files,
	}
}

// Method Get /api/conversations
func (h *HttpHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conversations, err := h.conversationUc.Index(r.Context(), claims.UserId)
	if err != nil {
		log.Printf("List conversations error: %v", err)
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conversations)
}

// Method Post /api/conversations
func (h *HttpHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		RecipientId entity.UserID `json:"recipientId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RecipientId == "" {
		writeError(w, http.StatusBadRequest, "Recipient ID is required")
		return
	}

	conversation, created, err := h.conversationUc.FindOrCreate(r.Context(), claims.UserId, req.RecipientId)
	if err != nil {
		log.Printf("Create conversation error: %v", err)
		h.respondError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, conversation)
}

// Method Get /api/conversations/{conversationId}/messages
//
// Listing doubles as acknowledgment: the requester's unread messages flip to
// read and their counter resets. A GET with a side effect, kept as one
// operation so the two writes can never drift apart.
func (h *HttpHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conversationId := chi.URLParam(r, "conversationId")
	messages, err := h.messageUc.GetMessages(r.Context(), conversationId, claims.UserId)
	if err != nil {
		log.Printf("Get messages error: %v", err)
		h.respondError(w, err)
		return
	}

	if messages == nil {
		messages = []entity.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// Method Post /api/conversations/{conversationId}/messages
//
// Multipart form: "content" plus zero or more "files". Every file is stored
// before the message record is created; a storage failure aborts the send.
func (h *HttpHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conversationId := chi.URLParam(r, "conversationId")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	content := r.FormValue("content")

	var fileHeaders []*multipart.FileHeader
	if r.MultipartForm != nil {
		fileHeaders = r.MultipartForm.File["files"]
		if len(fileHeaders) == 0 {
			fileHeaders = r.MultipartForm.File["files[]"]
		}
	}

	if content == "" && len(fileHeaders) == 0 {
		h.respondError(w, usecase.ErrEmptyMessage)
		return
	}

	// A denied or dangling request must leave nothing behind, so access is
	// checked before any upload reaches disk.
	if err := h.messageUc.VerifyParticipant(r.Context(), conversationId, claims.UserId); err != nil {
		log.Printf("Send message error: %v", err)
		h.respondError(w, err)
		return
	}

	var attachments []string
	for _, header := range fileHeaders {
		url, err := h.files.Save(header)
		if err != nil {
			log.Printf("Save attachment error: %v", err)
			h.removeAttachments(attachments)
			writeError(w, http.StatusInternalServerError, "failed to store attachment")
			return
		}
		attachments = append(attachments, url)
	}

	message, err := h.messageUc.Send(r.Context(), conversationId, claims.UserId, content, attachments)
	if err != nil {
		log.Printf("Send message error: %v", err)
		h.removeAttachments(attachments)
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

// Method Get /api/messages/unread-count
func (h *HttpHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	claims, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	total, err := h.conversationUc.UnreadTotal(r.Context(), claims.UserId)
	if err != nil {
		log.Printf("Unread count error: %v", err)
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": total})
}

func (h *HttpHandler) removeAttachments(urls []string) {
	for _, url := range urls {
		if err := h.files.Remove(url); err != nil {
			log.Printf("Remove attachment error: %v", err)
		}
	}
}

func (h *HttpHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmptyMessage),
		errors.Is(err, usecase.ErrSelfConversation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrNotParticipant):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrConversationNotFound),
		errors.Is(err, usecase.ErrRecipientNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
