package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/config"
	"github.com/kubev2v/pipeline-verifier/internal/fleet"
	"github.com/kubev2v/pipeline-verifier/internal/integrity"
	"github.com/kubev2v/pipeline-verifier/internal/logs"
	"github.com/kubev2v/pipeline-verifier/internal/session"
	"github.com/kubev2v/pipeline-verifier/internal/validator"
	"github.com/kubev2v/pipeline-verifier/pkg/podman"
)

// Harness holds the components built from one configuration.
type Harness struct {
	Controller *fleet.Controller
	Checker    *integrity.Checker
	Session    *session.Session
}

// New connects to the container runtime and assembles a verification session.
func New(ctx context.Context, cfg *config.Configuration, logger *zap.Logger) (*Harness, error) {
	rt, err := podman.NewClient(ctx, cfg.Fleet.PodmanSocket, cfg.Fleet.StopTimeout, logger)
	if err != nil {
		return nil, err
	}
	return NewWithRuntime(cfg, rt, fleet.NewCommandProvisioner(cfg.Fleet.ComposeCommand, cfg.Fleet.ComposeDir, cfg.Fleet.ProvisionTimeout), logger)
}

// NewWithRuntime assembles a session on top of an existing runtime and provisioner.
func NewWithRuntime(cfg *config.Configuration, rt fleet.Runtime, p fleet.Provisioner, logger *zap.Logger) (*Harness, error) {
	settler, err := NewSettler(cfg.Settle, logger)
	if err != nil {
		return nil, err
	}

	controller := fleet.NewController(rt, p, logger)
	checker := integrity.NewChecker(cfg.Paths.EventLog, cfg.Paths.InputArtifact, settler, logger)
	s := session.New(
		controller,
		logs.NewRetriever(rt, logger),
		validator.NewValidator(cfg.Paths.ConfigRoot, cfg.Paths.ConfigPatterns, logger),
		checker,
		logger,
	)

	return &Harness{Controller: controller, Checker: checker, Session: s}, nil
}

func NewSettler(cfg config.Settle, logger *zap.Logger) (integrity.Settler, error) {
	switch cfg.Mode {
	case config.SettleModeFixed:
		return integrity.FixedSettle{Period: cfg.Period}, nil
	case config.SettleModeStable:
		return integrity.NewStableSettle(cfg.InitialInterval, cfg.MaxInterval, cfg.MaxWait, logger), nil
	default:
		return nil, fmt.Errorf("unknown settle mode %q", cfg.Mode)
	}
}
