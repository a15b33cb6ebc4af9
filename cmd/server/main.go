package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-builder/internal/adapter/http"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"
	infra "resume-builder/pkg/infrastructure"
	"resume-builder/templates"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	setupLogger(cfg)

	pool, err := infra.NewPool(rootCtx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres init failed")
	}
	defer pool.Close()

	if err := migration.RunMigrations(rootCtx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	tpl, err := usecase.NewTemplateRenderer(templates.Dir(cfg.Render.TemplateDir))
	if err != nil {
		log.Fatal().Err(err).Msg("template load failed")
	}
	renderer, err := infra.NewRenderer(cfg.Render.Engine, infra.RenderOptions{
		ExecPath:      cfg.Render.ExecPath,
		Timeout:       cfg.Render.Timeout,
		IdleQuiet:     cfg.Render.IdleQuiet,
		MaxConcurrent: cfg.Render.MaxConcurrent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("renderer init failed")
	}
	if c, ok := renderer.(io.Closer); ok {
		defer c.Close()
	}

	resumesRepo := repo.NewResumesRepo(pool)
	usersRepo := repo.NewUsersRepo(pool)

	var aiClient *ai.Client
	if cfg.AI.ServiceURL != "" {
		aiClient = ai.NewClient(cfg.AI.ServiceURL, cfg.AI.Timeout)
	}

	h := httpadapter.NewHandler(
		usecase.NewAuthService(usersRepo, usecase.AuthConfig{
			Secret:     cfg.Auth.JWTSecret,
			TokenTTL:   cfg.Auth.TokenTTL,
			BcryptCost: cfg.Auth.BcryptCost,
		}),
		usecase.NewResumeService(resumesRepo),
		usecase.NewExporter(resumesRepo, tpl, renderer),
		ai.NewImprover(aiClient, nil),
	)
	app := httpadapter.NewApp(h, cfg.Server.BodyLimit)

	g, ctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Str("engine", cfg.Render.Engine).Msg("server listening")
		return app.Listen(":" + cfg.Server.Port)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(cfg.Render.Timeout + 5*time.Second)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
