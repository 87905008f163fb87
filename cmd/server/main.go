package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	ww "github.com/panyam/whisperwall"
	"github.com/panyam/whisperwall/stores"
	gormstore "github.com/panyam/whisperwall/stores/gorm"
)

func main() {
	cfg, err := ww.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	users, err := openUserStore(cfg)
	if err != nil {
		log.Fatalf("opening user store: %v", err)
	}

	srv := ww.NewServer(
		ww.NewLocalAuth(users),
		ww.NewGoogleAuth(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL, users),
		ww.NewSessionManager(cfg.SessionCookie, cfg.SessionLifetime),
		users,
	)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server started on %s", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func openUserStore(cfg ww.Config) (ww.UserStore, error) {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, using in-memory user store")
		return stores.NewMemoryUserStore(), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := gormstore.AutoMigrate(db); err != nil {
		return nil, err
	}
	return gormstore.NewUserStore(db), nil
}
