package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-events/config"
	"campus-events/database"
	"campus-events/middleware"
	"campus-events/rules"
	"campus-events/util"
	"campus-events/util/api"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

const (
	sweepInterval  = 10 * time.Minute
	limiterMaxIdle = 30 * time.Minute
)

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.SetupLogging(); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	log.Println("Initializing application...")

	pointRules, err := config.LoadRulesOrDefault(cfg.RulesFile)
	if err != nil {
		log.Fatalf("Failed to load rules from %s: %v", cfg.RulesFile, err)
	}
	log.WithFields(log.Fields{"file": cfg.RulesFile, "points": pointRules.Points, "flags": pointRules.Flags}).Info("Rules loaded")

	log.Printf("Using database at: %s", cfg.DBPath)
	store, err := database.Open(cfg.DBPath, cfg.StoreTimeout)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	hub := api.NewHub()
	sessions := util.NewSessionStore(cfg.SessionTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	handlers := &api.Handlers{
		Engine:   rules.New(store, pointRules, hub),
		Store:    store,
		Sessions: sessions,
		Hub:      hub,

		AllowedOrigins: cfg.AllowedOrigins(),
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.RequestLogger(c.Handler(api.NewRouter(handlers, limiter))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					log.Debugf("Swept %d expired sessions", n)
				}
				limiter.Cleanup(limiterMaxIdle)
			}
		}
	}()

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
