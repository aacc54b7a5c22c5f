package main

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/app"
	"github.com/kubev2v/pipeline-verifier/internal/config"
	"github.com/kubev2v/pipeline-verifier/internal/logger"
)

var (
	cfg     *config.Configuration
	harness *app.Harness
)

func main() {
	var err error
	cfg, err = config.NewConfigurationWithDefaults()
	if err != nil {
		log.Fatalf("failed to apply configuration defaults: %v", err)
	}

	flag.StringVar(&cfg.Fleet.PodmanSocket, "podman-socket", cfg.Fleet.PodmanSocket, "Podman socket path")
	flag.StringVar(&cfg.Fleet.ComposeCommand, "compose-command", cfg.Fleet.ComposeCommand, "Command that brings the fleet up")
	flag.StringVar(&cfg.Fleet.ComposeDir, "compose-dir", cfg.Fleet.ComposeDir, "Working directory of the compose command")
	flag.DurationVar(&cfg.Fleet.ProvisionTimeout, "provision-timeout", cfg.Fleet.ProvisionTimeout, "Deadline of the compose command (0 means none)")
	flag.StringVar(&cfg.Paths.InputArtifact, "input", cfg.Paths.InputArtifact, "Input artifact fed into the agent")
	flag.StringVar(&cfg.Paths.EventLog, "event-log", cfg.Paths.EventLog, "Event log written by the targets")
	flag.StringVar(&cfg.Paths.ConfigRoot, "config-root", cfg.Paths.ConfigRoot, "Directory holding the role directories")
	flag.StringVar(&cfg.Settle.Mode, "settle-mode", cfg.Settle.Mode, "How to wait for the pipeline to drain: 'fixed' or 'stable'")
	flag.DurationVar(&cfg.Settle.Period, "settle-period", cfg.Settle.Period, "Wait used in fixed mode")
	flag.DurationVar(&cfg.Settle.MaxWait, "settle-max-wait", cfg.Settle.MaxWait, "Give up waiting after this long in stable mode")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("failed to validate configuration: %v", err)
	}

	l, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync()

	harness, err = app.New(context.Background(), cfg, l)
	if err != nil {
		log.Fatalf("failed to create harness: %v", err)
	}

	RegisterFailHandler(Fail)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}
