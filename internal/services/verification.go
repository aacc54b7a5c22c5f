package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/models"
	"github.com/kubev2v/pipeline-verifier/internal/verify"
	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

// VerificationService runs a verification pass and records it when a history is configured.
type VerificationService struct {
	runner  *verify.Runner
	history *HistoryService
	log     *zap.SugaredLogger
}

// NewVerificationService accepts a nil history, in which case runs are not persisted.
func NewVerificationService(runner *verify.Runner, history *HistoryService, logger *zap.Logger) *VerificationService {
	return &VerificationService{
		runner:  runner,
		history: history,
		log:     logger.Named("verification_service").Sugar(),
	}
}

// Verify returns the run even when recording it failed.
func (v *VerificationService) Verify(ctx context.Context) (models.Run, error) {
	run, err := v.runner.Run(ctx)
	if err != nil {
		return run, err
	}

	if v.history == nil {
		return run, nil
	}
	if err := v.history.Record(ctx, run); err != nil {
		v.log.Errorw("failed to record run", "run_id", run.ID, "error", err)
		return run, srvErrors.NewInternalError("record run", err)
	}
	v.log.Debugw("run recorded", "run_id", run.ID)
	return run, nil
}
