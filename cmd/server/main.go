package main

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Lbugz/PubCo-Live-sub004/internal/config"
	"github.com/Lbugz/PubCo-Live-sub004/internal/infra/crawler/chrome"
	"github.com/Lbugz/PubCo-Live-sub004/internal/server"
	"github.com/Lbugz/PubCo-Live-sub004/internal/service/scrape"
)

//go:embed appconfig/appconfig.json
var appConfig []byte

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	app := &cli.Command{
		Name:  "playlist-scraper",
		Usage: "Capture playlist track listings off the wire with a real browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a JSON config file (defaults to the embedded config)",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address override",
			},
			&cli.StringFlag{
				Name:  "engine",
				Usage: "Browser engine: chromedp or rod",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: "info",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if level, err := log.ParseLevel(cmd.String("log-level")); err == nil {
				logger.SetLevel(level)
			}

			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			if addr := cmd.String("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			if engine := cmd.String("engine"); engine != "" {
				cfg.Engine = engine
			}

			svc := scrape.InitService(cfg, logger, browserFactory(cfg.Engine))
			return run(ctx, cfg, logger, svc)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	raw := appConfig
	if path != "" {
		fileCfg, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = fileCfg
	}
	return config.ParseConfig(raw)
}

func browserFactory(engine string) scrape.BrowserFactory {
	if engine == "rod" {
		return func(_ context.Context, cfg *config.Config, logger *log.Logger) (chrome.PlaylistBrowser, error) {
			return chrome.InitRodBrowser(cfg, logger)
		}
	}
	return chrome.InitChromedpBrowser
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, svc scrape.Service) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger, svc)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
