package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/storycards/internal/api"
	"github.com/youruser/storycards/internal/cards"
	imagepkg "github.com/youruser/storycards/internal/image"
	"github.com/youruser/storycards/internal/logging"
	"github.com/youruser/storycards/internal/session"
	"github.com/youruser/storycards/internal/story"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	illustrations, err := cfg.Illustrations()
	if err != nil {
		return err
	}
	policy, err := cards.ParsePolicy(cfg.Cards.RevealPolicy)
	if err != nil {
		return err
	}
	registry := session.NewRegistry(session.Options{
		Counts: cfg.Cards.Count,
		Policy: policy,
		TTL:    cfg.SessionTTL(),
		NewAllocator: func() *imagepkg.Allocator {
			a := imagepkg.NewAllocator(illustrations, nil)
			a.PhotoPoolSize = cfg.Images.PhotoPoolSize
			a.PhotoURLTemplate = cfg.Images.PhotoURLTemplate
			return a
		},
	}, logger.Named("session"))

	handlers := &api.Handlers{
		Sessions:     registry,
		Stories:      story.NewStore(),
		Photos:       imagepkg.NewPhotoSource(cfg.Images.PicsumBaseURL, cfg.ProxyTimeout()),
		Logger:       logger.Named("api"),
		BaseURL:      cfg.BaseURL(),
		CacheMaxAge:  cfg.Images.CacheMaxAgeSeconds,
		AssetsDir:    cfg.Images.AssetsDir,
		AssetsPrefix: cfg.Images.AssetsPrefix,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(logging.Middleware(logger), logging.Recovery(logger))
	api.RegisterRoutes(r, handlers)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.Int("illustrations", len(illustrations)),
			zap.Int("photo_pool", cfg.Images.PhotoPoolSize))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
