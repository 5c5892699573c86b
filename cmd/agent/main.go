// The agent stands in for the sandboxed execution context: it hosts an
// in-memory document, connects to the relay's plugin leg, and dispatches
// relayed commands against the document.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/inklab/canvasbridge/internal/config"
	"github.com/inklab/canvasbridge/internal/dispatch"
	"github.com/inklab/canvasbridge/internal/document"
	"github.com/inklab/canvasbridge/internal/logging"
	"github.com/inklab/canvasbridge/internal/transport"
)

func main() {
	cfg := config.LoadOrDefault()

	relayURL := flag.String("relay", cfg.Agent.RelayURL, "Relay plugin-leg URL")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development logging")
	flag.Parse()

	var logger *logging.Logger
	if *dev {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	doc := document.NewContext()
	dispatcher := dispatch.New(doc)
	t := transport.New(*relayURL, dispatcher, logger)

	logger.Info("agent starting", zap.String("relay", *relayURL))
	t.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutting down")
}
