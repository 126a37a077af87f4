package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mostafa12599/GreenFuture-Innovation/config"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/events"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/global"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/logger"
	"github.com/mostafa12599/GreenFuture-Innovation/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// resolvePath đổi đường dẫn tương đối thành đường dẫn tính từ thư mục chứa config/env
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	currentDir, err := os.Getwd()
	if err != nil {
		return path
	}
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "config", "env")); err == nil {
			return filepath.Join(currentDir, path)
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return path
		}
		currentDir = parentDir
	}
}

// listen chạy server HTTP hoặc HTTPS, trả về khi server dừng
func listen(app *fiber.App, cfg *config.Configuration) error {
	log := logger.GetAppLogger()
	listenConfig := fiber.ListenConfig{DisableStartupMessage: true}

	if !cfg.EnableTLS {
		log.WithFields(map[string]interface{}{
			"address":  cfg.Address,
			"protocol": "HTTP",
		}).Info("Starting server with HTTP")
		return app.Listen(cfg.Address, listenConfig)
	}

	certPath := resolvePath(cfg.TLSCertFile)
	keyPath := resolvePath(cfg.TLSKeyFile)
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return fmt.Errorf("load TLS certificate: %w", err)
	}
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("create listener: %w", err)
	}
	tlsListener := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})

	log.WithFields(map[string]interface{}{
		"address": cfg.Address,
		"cert":    certPath,
		"key":     keyPath,
	}).Info("Starting server with HTTPS/TLS")
	return app.Listener(tlsListener, listenConfig)
}

func run() error {
	cfg := initConfig()
	initLogger()
	defer logger.Close()
	log := logger.GetAppLogger()

	global.InitValidator()
	log.Info("Initialized validator")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := initDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	sessions, err := initSession(ctx, cfg)
	if err != nil {
		_ = store.Close(context.Background())
		return fmt.Errorf("init session store: %w", err)
	}
	files, err := initStorage(ctx, cfg)
	if err != nil {
		_ = sessions.Close()
		_ = store.Close(context.Background())
		return fmt.Errorf("init storage: %w", err)
	}

	bus := events.NewBus()
	svc := InitServices(cfg, Infra{
		Store:    store,
		Sessions: sessions,
		Storage:  files,
		Mailer:   initMailer(cfg),
		Bus:      bus,
	})
	InitDefaultData(ctx, cfg, svc)

	app, err := InitFiberApp(cfg, svc, files)
	if err != nil {
		_ = sessions.Close()
		_ = store.Close(context.Background())
		return fmt.Errorf("init fiber app: %w", err)
	}

	var workers sync.WaitGroup
	if cfg.MonitorInterval > 0 {
		monitor := worker.NewSystemMonitorWorker(svc.Support, svc.Stats,
			time.Duration(cfg.MonitorInterval)*time.Second, svc.Probes...)
		workers.Add(1)
		go func() {
			defer workers.Done()
			monitor.Start(ctx)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listen(app, cfg)
	}()

	select {
	case err = <-serveErr:
		if err != nil {
			log.WithError(err).Error("Server stopped unexpectedly")
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
		if shutdownErr := app.ShutdownWithTimeout(shutdownTimeout); shutdownErr != nil {
			log.WithError(shutdownErr).Error("Fiber shutdown failed")
		}
	}

	// Thứ tự đóng: HTTP đã dừng, dừng worker, chờ handler của event bus, rồi MongoDB, rồi Redis
	stop()
	workers.Wait()
	bus.Wait()
	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if closeErr := store.Close(closeCtx); closeErr != nil {
		log.WithError(closeErr).Error("Failed to disconnect MongoDB")
	}
	if closeErr := sessions.Close(); closeErr != nil {
		log.WithError(closeErr).Error("Failed to close session store")
	}
	log.Info("Server stopped")

	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		logger.GetAppLogger().Errorf("Server exited: %v", err)
		logger.Close()
		os.Exit(1)
	}
}
