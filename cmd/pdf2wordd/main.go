// Command pdf2wordd runs the PDF to Word conversion service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docmill/pdf2word/config"
	"github.com/docmill/pdf2word/convert"
	"github.com/docmill/pdf2word/janitor"
	"github.com/docmill/pdf2word/jobs"
	"github.com/docmill/pdf2word/observability"
	"github.com/docmill/pdf2word/ocr"
	"github.com/docmill/pdf2word/ocr/tesseract"
	"github.com/docmill/pdf2word/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := observability.NewProduction(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	for _, dir := range []string{cfg.Storage.UploadDir, cfg.Storage.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	var engine ocr.Engine
	if cfg.Convert.OCREnabled {
		engine = tesseract.New()
		log.Info("OCR enabled", observability.String("engine", engine.Name()))
	} else {
		log.Info("OCR disabled, scanned pages will carry a placeholder")
	}

	converter := convert.New(convert.Options{
		Engine:        engine,
		Languages:     cfg.Convert.Languages,
		ExtractImages: cfg.Convert.ExtractImages,
		MinImagePx:    cfg.Convert.MinImagePx,
		Logger:        log,
	})

	registry := jobs.NewRegistry()
	manager := jobs.NewManager(registry, converter, cfg.Storage.OutputDir, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jan := janitor.New(
		[]string{cfg.Storage.UploadDir, cfg.Storage.OutputDir},
		cfg.Janitor.Retention.Std(),
		cfg.Janitor.Interval.Std(),
		log,
	)
	go jan.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(manager, cfg.Storage.UploadDir, cfg.Storage.MaxUploadMB, log)
	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", observability.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
