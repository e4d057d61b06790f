package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/naimatofficial/linkmood-app/cache"
	"github.com/naimatofficial/linkmood-app/config"
	"github.com/naimatofficial/linkmood-app/database"
	"github.com/naimatofficial/linkmood-app/handlers"
	"github.com/naimatofficial/linkmood-app/routes"
	"github.com/naimatofficial/linkmood-app/social"
	"github.com/naimatofficial/linkmood-app/storage"
	"github.com/naimatofficial/linkmood-app/websocket"
)

func main() {
	log.Println("Starting Linkmood backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error: ", err)
	}

	// Connect to MongoDB with retry; Atlas cold starts are slow.
	var db *database.DB
	for i := 1; i <= 3; i++ {
		db, err = database.Connect(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
		if err == nil {
			break
		}
		log.Printf("MongoDB connection attempt %d failed: %v", i, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("failed to connect to MongoDB: ", err)
	}
	defer db.Disconnect()

	files, err := storage.New(cfg.CloudinaryURL, cfg.UploadFolder)
	if err != nil {
		log.Fatal("cloudinary configuration error: ", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	queryCache := cache.New()

	svc := social.New(social.Deps{
		Accounts:   database.NewAccountStore(db),
		Sessions:   database.NewSessionStore(db),
		Users:      database.NewUserStore(db),
		Posts:      database.NewPostStore(db),
		Saves:      database.NewSaveStore(db),
		Files:      files,
		Cache:      queryCache,
		AvatarURL:  cfg.AvatarURL,
		SessionTTL: cfg.SessionTTL,
	})

	hub := websocket.NewHub()
	go hub.Start()
	queryCache.OnInvalidate(hub.BroadcastInvalidation)

	push := handlers.NewPushNotifier(database.NewPushSubStore(db), cfg)
	h := handlers.New(svc, push, cfg)
	router := routes.Setup(h, hub, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("forced shutdown: ", err)
	}
	log.Println("Server stopped")
}
