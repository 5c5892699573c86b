package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/inklab/canvasbridge/internal/config"
	"github.com/inklab/canvasbridge/internal/logging"
	"github.com/inklab/canvasbridge/internal/relay"
)

func main() {
	cfg := config.LoadOrDefault()

	host := flag.String("host", cfg.Relay.Host, "Bind host")
	port := flag.String("port", cfg.Relay.Port, "Bind port")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development logging")
	flag.Parse()

	var logger *logging.Logger
	if *dev {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}
	defer logger.Sync()

	srv := relay.NewServer(cfg, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(net.JoinHostPort(*host, *port)); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutting down")
		if err := srv.Close(); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	case err := <-errChan:
		log.Fatalf("relay error: %v", err)
	}
}
