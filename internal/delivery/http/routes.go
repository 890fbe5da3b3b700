package http

import (
	"net/http"

	wsDelivery "gigtalk/internal/delivery/ws"

	"github.com/go-chi/chi/v5"
)

func MapHttpRoutes(r *chi.Mux, httpHandler *HttpHandler, wsHandler *wsDelivery.Handler, authMiddleware *AuthMiddleware, uploadDir string) {
	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			claims, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			wsHandler.ServeWS(w, r, claims.UserId)
		})

		r.Route("/api", func(r chi.Router) {
			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", http.HandlerFunc(httpHandler.ListConversations))
				r.Post("/", http.HandlerFunc(httpHandler.CreateConversation))
				r.Get("/{conversationId}/messages", http.HandlerFunc(httpHandler.GetMessages))
				r.Post("/{conversationId}/messages", http.HandlerFunc(httpHandler.SendMessage))
			})

			r.Get("/messages/unread-count", http.HandlerFunc(httpHandler.GetUnreadCount))
		})
	})

	// Stored attachments are served directly from disk.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	})
}
