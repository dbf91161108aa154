package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/generalink/backend/internal/config"
	"github.com/generalink/backend/internal/handlers"
	appMiddleware "github.com/generalink/backend/internal/middleware"
	"github.com/generalink/backend/internal/realtime"
	"github.com/generalink/backend/internal/services"
	"github.com/generalink/backend/internal/storage"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		userService         services.UserService
		matchService        services.MatchService
		conversationService services.ConversationService
		storyService        services.StoryService
		flagService         *services.MongoUserFlagService
		memory              *services.MemoryStores
		snapshot            *storage.JSONStore
	)

	if cfg.UseMongo() {
		users, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB (users): %v", err)
		}
		matches, err := services.NewMongoMatchService(ctx, cfg.MongoURI, cfg.MongoDBName, users)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB (matches): %v", err)
		}
		conversations, err := services.NewMongoConversationService(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB (conversations): %v", err)
		}
		stories, err := services.NewMongoStoryService(ctx, cfg.MongoURI, cfg.MongoDBName, users)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB (stories): %v", err)
		}
		flags, err := services.NewMongoUserFlagService(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Printf("Warning: user flag store unavailable: %v", err)
		}

		if err := users.SeedIfEmpty(ctx, stories); err != nil {
			log.Printf("Warning: seeding failed: %v", err)
		}

		userService = users
		matchService = matches
		conversationService = conversations
		storyService = stories
		flagService = flags
	} else {
		log.Println("MONGO_URI not set, using in-memory storage with JSON snapshots")

		memory = services.NewMemoryStores()

		store, err := storage.NewJSONStore(cfg.DataDir, "devstate.json")
		if err != nil {
			log.Fatalf("Failed to prepare data directory: %v", err)
		}
		snapshot = store
		if err := memory.Load(snapshot); err != nil {
			log.Printf("Warning: failed to load snapshot: %v", err)
		}
		memory.SeedIfEmpty()

		userService = memory.Users
		matchService = memory.Matches
		conversationService = memory.Conversations
		storyService = memory.Stories
	}

	photoService := services.NewPhotoService(cfg.UploadDir)

	var moderationService *services.ModerationService
	if cfg.PhotoModeration {
		moderationService = services.NewModerationService(flagService)
	}

	var recaptcha *services.RecaptchaVerifier
	if cfg.RecaptchaSecret != "" {
		recaptcha = services.NewRecaptchaVerifier(cfg.RecaptchaSecret)
	}

	reportMailer := services.NewReportMailer(cfg.SendGridAPIKey, cfg.ReportEmailFrom, cfg.ReportEmailTo)

	hub := realtime.NewHub()

	authHandler := handlers.NewAuthHandler(userService, recaptcha, cfg.JWTSecret, cfg.JWTExpiration)
	profileHandler := handlers.NewProfileHandler(userService, photoService, moderationService, cfg.MaxUploadSizeMB)
	matchHandler := handlers.NewMatchHandler(matchService)
	messageHandler := handlers.NewMessageHandler(conversationService, hub)
	reportHandler := handlers.NewReportHandler(conversationService, reportMailer)
	storyHandler := handlers.NewStoryHandler(storyService)
	userHandler := handlers.NewUserHandler(userService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)

		r.Get("/profile", profileHandler.GetProfile)
		r.Post("/profile", profileHandler.UpdateProfile)
		r.Post("/profile/photo", profileHandler.UploadPhoto)

		r.Get("/matches/potential", matchHandler.GetPotentialMatches)
		r.Get("/matches", matchHandler.GetMatches)
		r.Post("/matches", matchHandler.CreateMatch)
		r.Delete("/matches", matchHandler.RemoveMatch)

		r.Get("/messages/{conversationId}", messageHandler.GetMessages)
		r.Post("/messages", messageHandler.SendMessage)

		r.Post("/report", reportHandler.SubmitReport)

		r.Get("/stories", storyHandler.ListStories)
		r.Post("/stories", storyHandler.CreateStory)
		r.Post("/stories/{storyId}/like", storyHandler.LikeStory)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))
			r.Use(appMiddleware.RequireAdmin)

			r.Get("/users", userHandler.ListUsers)
			r.Get("/admin/reports", reportHandler.ListReports)
		})
	})

	r.Get("/ws", realtime.ServeWS(hub))

	// Serve uploaded files
	workDir, _ := os.Getwd()
	filesDir := http.Dir(workDir + "/" + cfg.UploadDir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesDir)))

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: r,
	}

	go func() {
		log.Printf("GeneraLink API server starting on %s", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	if memory != nil && snapshot != nil {
		if err := memory.Save(snapshot); err != nil {
			log.Printf("Warning: failed to save snapshot: %v", err)
		}
	}
}
