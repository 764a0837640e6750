package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-gallery-backend/internal/config"
	"photo-gallery-backend/internal/database"
	"photo-gallery-backend/internal/handlers"
	"photo-gallery-backend/internal/middleware"
	"photo-gallery-backend/internal/repository"
	"photo-gallery-backend/internal/services"
	"photo-gallery-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Run starts the HTTP server and blocks until shutdown.
func Run(configPath string) {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize file storage
	store, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize file storage")
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("File storage initialized")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewImageRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	tagRepo := repository.NewTagRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	tagService := services.NewTagService(tagRepo)
	imageService := services.NewImageService(imageRepo, tagRepo, store)
	albumService := services.NewAlbumService(albumRepo, imageRepo, tagRepo, imageService)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	dashboardHandler := handlers.NewDashboardHandler(userService)
	imageHandler := handlers.NewImageHandler(imageService, tagService)
	albumHandler := handlers.NewAlbumHandler(albumService, tagService)
	tagHandler := handlers.NewTagHandler(tagService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.CreateUser)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/dashboard", dashboardHandler.GetStats)

			r.Get("/images", imageHandler.ListImages)
			r.Post("/images", imageHandler.UploadImages)
			r.Get("/images/{image_id}", imageHandler.GetImage)
			r.Patch("/images/{image_id}", imageHandler.UpdateImage)
			r.Delete("/images/{image_id}", imageHandler.DeleteImage)

			r.Get("/tags", tagHandler.ListTags)
			r.Post("/tags", tagHandler.CreateTag)
			r.Patch("/tags/{tag_id}", tagHandler.UpdateTag)
			r.Delete("/tags/{tag_id}", tagHandler.DeleteTag)

			r.Get("/albums", albumHandler.ListAlbums)
			r.Post("/albums", albumHandler.CreateAlbum)
			r.Get("/albums/{album_id}", albumHandler.GetAlbum)
			r.Patch("/albums/{album_id}", albumHandler.UpdateAlbum)
			r.Delete("/albums/{album_id}", albumHandler.DeleteAlbum)
			r.Post("/albums/{album_id}/images", albumHandler.UploadToAlbum)
			r.Put("/albums/{album_id}/images", albumHandler.SyncImages)
		})
	})

	// Serve stored files directly when using local storage
	if fs, ok := store.(*storage.FileSystemStore); ok {
		r.Handle("/storage/*", http.StripPrefix("/storage/", http.FileServer(http.Dir(fs.Root()))))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// Migrate applies pending database migrations and exits.
func Migrate(configPath string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log.Level)

	if err := database.Migrate(cfg.Database.URL()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Migrations applied")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
