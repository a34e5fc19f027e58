package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dfryer1193/markblog/blog/application"
	"github.com/dfryer1193/markblog/blog/persistence"
	"github.com/dfryer1193/markblog/internal/config"
	"github.com/dfryer1193/markblog/internal/rest"
	"github.com/dfryer1193/markblog/shared/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	shutdownTimeout = 5 * time.Second
	postURLPrefix   = "/blog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg)

	authn, err := auth.NewAuthenticator(auth.Config{
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		Secret:       cfg.SessionSecret,
		TTL:          cfg.SessionTTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up authentication")
	}

	postRepo := persistence.NewPostRepository(cfg.PostsDir)
	imageRepo := persistence.NewImageRepository(cfg.UploadDir, cfg.UploadURLPrefix)
	markdownRenderer := application.NewMarkdownRenderer(
		application.WithImagePrefix(cfg.UploadURLPrefix),
		application.WithPostPrefix(postURLPrefix),
	)

	postService := application.NewPostService(postRepo, markdownRenderer)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := rest.NewRouter(cfg.AllowedOrigins)
	rest.NewApi(r, postService, imageRepo, authn)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("posts_dir", postRepo.Dir()).
			Str("upload_dir", imageRepo.Dir()).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
