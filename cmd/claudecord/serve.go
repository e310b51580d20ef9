package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/claudecord/claudecord/internal/bot"
	"github.com/claudecord/claudecord/internal/completion"
	"github.com/claudecord/claudecord/internal/config"
	"github.com/claudecord/claudecord/internal/content"
	"github.com/claudecord/claudecord/internal/convo"
	"github.com/claudecord/claudecord/internal/logger"
	"github.com/claudecord/claudecord/internal/server"
)

func runServe(cfgPath string) {
	fx.New(
		fx.Supply(configPath(cfgPath)),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideFetcher,
			provideAssembler,
			provideCompletionClient,
			provideStore,
			provideBot,
			provideServer,
		),
		fx.Invoke(
			startBot,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

type configPath string

func provideConfig(path configPath) (config.Config, error) {
	cfg, err := config.Load(string(path))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideFetcher(lc fx.Lifecycle) *content.Fetcher {
	fetcher := content.NewFetcher()
	lc.Append(fx.Hook{OnStop: func(context.Context) error { fetcher.Close(); return nil }})
	return fetcher
}

func provideAssembler(log *slog.Logger, fetcher *content.Fetcher) *content.Assembler {
	return content.NewAssembler(log, fetcher)
}

func provideCompletionClient(log *slog.Logger, cfg config.Config) (completion.Client, error) {
	return completion.NewAnthropicClient(log, cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL)
}

func provideStore(log *slog.Logger, client completion.Client) *convo.Store {
	return convo.NewStore(log, client)
}

func provideBot(log *slog.Logger, cfg config.Config, store *convo.Store, assembler *content.Assembler) (*bot.Bot, error) {
	return bot.New(log, cfg.Discord, store, assembler)
}

func provideServer(log *slog.Logger, cfg config.Config, store *convo.Store) *server.Server {
	return server.NewServer(log, cfg.Server.Addr, store)
}

func startBot(lc fx.Lifecycle, b *bot.Bot) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return b.Start(ctx) },
		OnStop:  func(context.Context) error { return b.Stop() },
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server exited", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error { return srv.Shutdown(ctx) },
	})
}
