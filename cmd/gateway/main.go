// The gateway serves MCP over stdio, forwarding every tool call through the
// relay to the execution context. Logs go to stderr so stdout stays clean
// for the protocol stream.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/inklab/canvasbridge/internal/client"
	"github.com/inklab/canvasbridge/internal/config"
	"github.com/inklab/canvasbridge/internal/gateway"
	"github.com/inklab/canvasbridge/internal/logging"
)

func main() {
	cfg := config.LoadOrDefault()

	relayURL := flag.String("relay", cfg.Gateway.RelayURL, "Relay client-leg URL")
	timeout := flag.Int("timeout", cfg.Gateway.CallTimeoutSec, "Per-call timeout in seconds")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development logging")
	flag.Parse()

	logCfg := logging.DefaultConfig()
	if *dev {
		logCfg = logging.DevelopmentConfig()
	}
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := client.Dial(ctx, *relayURL, logger,
		client.WithCallTimeout(time.Duration(*timeout)*time.Second))
	if err != nil {
		logger.Fatal("failed to connect to relay", zap.Error(err))
	}
	defer c.Close()

	gw, err := gateway.New(ctx, c, logger)
	if err != nil {
		logger.Fatal("failed to build gateway", zap.Error(err))
	}

	if err := gw.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("gateway stopped", zap.Error(err))
	}
}
