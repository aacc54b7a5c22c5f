package fleet

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/models"
	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

// Runtime is the container control API the controller drives.
type Runtime interface {
	List(ctx context.Context) ([]models.Container, error)
	Stop(ctx context.Context, id string) error
	Prune(ctx context.Context) ([]string, error)
	Logs(ctx context.Context, id string) (string, error)
}

// Provisioner brings the whole node topology up.
type Provisioner interface {
	Provision(ctx context.Context) (string, error)
}

type TeardownReport struct {
	Stopped []string
	Pruned  []string
}

// Controller provisions and tears down the fleet of one test run.
type Controller struct {
	runtime     Runtime
	provisioner Provisioner
	log         *zap.SugaredLogger
}

func NewController(rt Runtime, p Provisioner, logger *zap.Logger) *Controller {
	return &Controller{
		runtime:     rt,
		provisioner: p,
		log:         logger.Named("fleet").Sugar(),
	}
}

// Provision triggers the deployment and returns what is running afterwards.
// A failed trigger is returned next to the observed fleet, which may be partial or empty.
func (c *Controller) Provision(ctx context.Context) (models.Fleet, error) {
	c.log.Info("provisioning fleet")

	out, provErr := c.provisioner.Provision(ctx)
	if provErr != nil {
		c.log.Errorw("provisioning command failed", "error", provErr)
	} else {
		c.log.Debugw("provisioning command finished", "output", out)
	}

	fleet, err := c.Running(ctx)
	if err != nil {
		return fleet, multierr.Append(provErr, err)
	}

	c.log.Infow("fleet provisioned", "nodes", fleet.List())
	return fleet, provErr
}

// Running lists the nodes currently running.
func (c *Controller) Running(ctx context.Context) (models.Fleet, error) {
	containers, err := c.runtime.List(ctx)
	if err != nil {
		return models.NewFleet(nil), srvErrors.NewInternalError("list containers", err)
	}
	return models.NewFleet(containers), nil
}

// Teardown stops every running node and then prunes stopped resources.
// Pruning is skipped if any node failed to stop.
func (c *Controller) Teardown(ctx context.Context) (TeardownReport, error) {
	var report TeardownReport

	c.log.Info("deleting containers, stopping them first")
	containers, err := c.runtime.List(ctx)
	if err != nil {
		return report, srvErrors.NewInternalError("list containers", err)
	}

	var stopErr error
	for _, ctr := range containers {
		c.log.Infow("stopping container", "id", ctr.ID, "names", ctr.Names)
		if err := c.runtime.Stop(ctx, ctr.ID); err != nil {
			c.log.Errorw("failed to stop container", "id", ctr.ID, "error", err)
			stopErr = multierr.Append(stopErr, srvErrors.NewInternalError("stop container "+ctr.ID, err))
			continue
		}
		report.Stopped = append(report.Stopped, ctr.ID)
	}
	if stopErr != nil {
		return report, stopErr
	}

	c.log.Info("pruning stopped containers")
	pruned, err := c.runtime.Prune(ctx)
	if err != nil {
		return report, srvErrors.NewInternalError("prune containers", err)
	}
	report.Pruned = pruned

	c.log.Infow("fleet torn down", "stopped", len(report.Stopped), "pruned", len(report.Pruned))
	return report, nil
}
