package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"wanderplan/config"
	"wanderplan/database"
	"wanderplan/handlers"
	"wanderplan/keystore"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()

	setupLogging(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to document store")
	}
	defer db.Close(context.Background())

	var mirror keystore.Mirror
	if db != nil {
		mirror = db
	}
	sessions := keystore.NewSessions(mirror)

	h := handlers.New(cfg, db, sessions, &http.Client{Timeout: cfg.HTTPTimeout})

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURLs,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "x-hotelbeds-key", "x-hotelbeds-secret"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		api.POST("/generate", h.OptionalAuth(), h.Generate)

		itineraries := api.Group("/itineraries", h.RequireAuth())
		{
			itineraries.POST("", h.SaveItinerary)
			itineraries.GET("", h.ListItineraries)
			itineraries.GET("/:id", h.GetItinerary)
			itineraries.PATCH("/:id", h.UpdateItinerary)
			itineraries.POST("/:id/favorite", h.SetFavorite)
			itineraries.DELETE("/:id", h.DeleteItinerary)
			itineraries.GET("/:id/pdf", h.DownloadItineraryPDF)
		}

		keys := api.Group("/keys", h.OptionalAuth())
		{
			keys.GET("", h.KeyStatus)
			keys.PUT("/:kind", h.SetKey)
			keys.DELETE("/:kind", h.ClearKey)
			keys.POST("/load", h.LoadKeys)
		}

		hotelbeds := api.Group("/hotelbeds")
		{
			hotelbeds.POST("/availability", h.HotelbedsAvailability)
			hotelbeds.GET("/destinations", h.HotelbedsDestinations)
			hotelbeds.GET("/status", h.HotelbedsStatus)
		}
	}

	log.WithField("port", cfg.Port).Info("wanderplan API starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
