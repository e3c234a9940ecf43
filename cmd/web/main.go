package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"snix.ai/snix-web/internal/config"
	"snix.ai/snix-web/internal/contact"
	"snix.ai/snix-web/internal/content"
	"snix.ai/snix-web/internal/i18n"
	"snix.ai/snix-web/internal/observability"
)

func main() {
	var (
		addr     string
		tmplPath string
		pubPath  string
		contPath string
		envFile  string
	)
	flag.StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	flag.StringVar(&addr, "addr", "", "HTTP listen address (default from SNIX_WEB_PORT)")
	flag.StringVar(&tmplPath, "templates", "", "templates directory")
	flag.StringVar(&pubPath, "public", "", "public assets directory")
	flag.StringVar(&contPath, "content", "", "content directory")
	flag.Parse()

	cfg, err := config.Load(envFile)
	if err != nil {
		// logger is not configured yet
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	if tmplPath != "" {
		cfg.TemplatesDir = tmplPath
	}
	if pubPath != "" {
		cfg.PublicDir = pubPath
	}
	if contPath != "" {
		cfg.ContentDir = contPath
	}
	if addr == "" {
		addr = cfg.Addr()
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, addr, logger); err != nil {
		logger.Fatal("web server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, addr string, logger *zap.Logger) error {
	metrics := observability.NewMetrics()

	store := content.NewStore(cfg.ContentDir, cfg.ContentTTL)
	if _, err := store.Catalog(ctx); err != nil {
		return err
	}
	if cfg.DevReload {
		go func() {
			if err := store.Watch(ctx, logger); err != nil {
				logger.Warn("content watch stopped", zap.Error(err))
			}
		}()
	}

	bundle, err := i18n.Load(cfg.LocalesDir, "en", nil)
	if err != nil {
		return err
	}

	settings := cfg.ContactSettings()
	submitter, closeSubmitter, err := contact.Open(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = closeSubmitter() }()
	via := settings.Kind
	if via == "" {
		via = contact.KindSimulated
	}
	submitter = contact.Instrument(submitter, via, logger, metrics.ContactSubmissions)

	a, err := newApp(appOptions{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics,
		Store:     store,
		Bundle:    bundle,
		Submitter: submitter,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConnections)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening",
			zap.String("addr", addr),
			zap.String("env", cfg.Environment),
			zap.Bool("dev_reload", cfg.DevReload),
			zap.String("submitter", via),
		)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	a.live.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
