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

	"github.com/redis/go-redis/v9"

	"github.com/pedl/portfolio-backend/config"
	authservice "github.com/pedl/portfolio-backend/internal/auth/service"
	"github.com/pedl/portfolio-backend/internal/bootstrap"
	"github.com/pedl/portfolio-backend/internal/database"
	"github.com/pedl/portfolio-backend/internal/integrity"
	"github.com/pedl/portfolio-backend/internal/locks"
	partnersrepo "github.com/pedl/portfolio-backend/internal/partners/repository"
	partnersservice "github.com/pedl/portfolio-backend/internal/partners/service"
	"github.com/pedl/portfolio-backend/internal/platform/firebase"
	projectsordering "github.com/pedl/portfolio-backend/internal/projects/ordering"
	projectsrepo "github.com/pedl/portfolio-backend/internal/projects/repository"
	projectsservice "github.com/pedl/portfolio-backend/internal/projects/service"
	"github.com/pedl/portfolio-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	clients, err := firebase.Initialize(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("failed to initialize Firebase: %v", err)
	}
	defer clients.Firestore.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	store := database.NewFirestoreStore(clients.Firestore)
	blobs := storage.NewFirebaseStorage(clients.Bucket, cfg.Firebase.StorageBucket)
	locker := locks.NewRedisLocker(redisClient)

	projectRepo := projectsrepo.NewProjectRepository(store)
	orderSvc := projectsordering.NewService(projectRepo, locker, cfg.App.Sequences)
	projectSvc := projectsservice.NewProjectService(projectRepo, orderSvc, blobs)

	partnerRepo := partnersrepo.NewPartnerRepository(store)
	partnerSvc := partnersservice.NewPartnerService(partnerRepo)

	authSvc := authservice.NewAuthService(clients.Auth, cfg.Firebase.AdminEmail)

	auditor := integrity.NewAuditor(orderSvc, cfg.App.IntegrityCron)
	scheduler, err := auditor.Start()
	if err != nil {
		log.Fatalf("failed to start integrity audit: %v", err)
	}
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "portfolio-backend",
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		WriteRPS:       cfg.App.WriteRPS,
		WriteBurst:     cfg.App.WriteBurst,
		Redis:          redisClient,
		Auth:           authSvc,
		Projects:       projectSvc,
		Partners:       partnerSvc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
