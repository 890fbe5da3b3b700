package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"gigtalk/infrastructure/db"
	"gigtalk/infrastructure/storage"
	"gigtalk/infrastructure/ws"
	httpDelivery "gigtalk/internal/delivery/http"
	wsDelivery "gigtalk/internal/delivery/ws"
	"gigtalk/internal/repository"
	"gigtalk/internal/usecase"
	"gigtalk/pkg/jwt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("godotenv: error loading .env file")
	}

	ctx := context.Background()

	mongoDbHost := os.Getenv("MONGODB_URI")
	mongoDbName := os.Getenv("MONGODB_DATABASE")
	mongoDb, err := db.NewMongoStore(ctx, mongoDbHost, mongoDbName)
	if err != nil {
		panic(err)
	}

	if err := mongoDb.EnsureIndexes(ctx); err != nil {
		panic(err)
	}

	log.Println("Connected to MongoDB")

	// Initialize repositories
	userRepo := repository.NewUserRepository(*mongoDb.DB)
	conversationRepo := repository.NewConversationRepository(*mongoDb.DB)
	messageRepo := repository.NewMessageRepository(*mongoDb.DB)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-this-in-production" // Default for development
		log.Println("Warning: Using default JWT secret. Set JWT_SECRET in .env for production")
	}
	tokens := jwt.NewManager(jwtSecret, 15*time.Minute)

	// Initialize use cases
	conversationUc := usecase.NewConversationUsecase(conversationRepo, userRepo)
	messageUc := usecase.NewMessageUsecase(messageRepo, conversationRepo)

	// Attachment storage
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	fileStore, err := storage.NewLocalStore(uploadDir, "/uploads")
	if err != nil {
		panic(err)
	}

	// Check if Redis is enabled
	redisAddr := os.Getenv("REDIS_ADDR")
	useRedis := redisAddr != ""

	var hub ws.IHub
	if useRedis {
		serverID := os.Getenv("SERVER_ID")
		if serverID == "" {
			serverID = "server-1" // Default
		}

		log.Printf("Using Redis hub at %s with server ID: %s", redisAddr, serverID)
		hub = ws.NewRedisHub(redisAddr, serverID)
	} else {
		log.Println("Using in-memory hub (single server)")
		hub = ws.NewHub()
	}

	go hub.Run()

	messageUc.SetNotifier(wsDelivery.NewHubNotifier(hub))

	log.Println("Websocket is running")

	// CORS middleware
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "http://localhost:3000")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			// Handle preflight requests
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Initialize handlers
	wsH := wsDelivery.NewHandler(hub)
	httpH := httpDelivery.NewHttpHandler(conversationUc, messageUc, fileStore)
	authMiddleware := httpDelivery.NewAuthMiddleware(tokens)

	// Map routes
	httpDelivery.MapHttpRoutes(router, httpH, wsH, authMiddleware, uploadDir)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP server is running on :%s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
