package verify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/models"
	"github.com/kubev2v/pipeline-verifier/internal/session"
	"github.com/kubev2v/pipeline-verifier/pkg/scheduler"
)

// Runner performs one complete verification pass: open, check, tear down.
type Runner struct {
	session *session.Session
	workers int
	log     *zap.SugaredLogger
	logger  *zap.Logger
}

func NewRunner(s *session.Session, workers int, logger *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		session: s,
		workers: workers,
		log:     logger.Named("runner").Sugar(),
		logger:  logger,
	}
}

// Run never stops at the first failing check; every check gets a result.
func (r *Runner) Run(ctx context.Context) (models.Run, error) {
	run := models.Run{StartedAt: time.Now()}

	if err := r.session.Open(ctx); err != nil {
		return run, err
	}
	run.ID = r.session.ID()
	if provErr := r.session.ProvisionError(); provErr != nil {
		run.ProvisionError = provErr.Error()
	}

	sched := scheduler.NewScheduler(r.workers, r.logger)
	checks := Catalog(r.session)
	futures := make([]*scheduler.Future[scheduler.Result[any]], 0, len(checks))
	for _, c := range checks {
		futures = append(futures, sched.AddWork(c.Name, func(ctx context.Context) (any, error) {
			return nil, c.Run(ctx)
		}))
	}

	for i, f := range futures {
		res, err := f.Wait(ctx)
		if err != nil {
			res = scheduler.Result[any]{Name: checks[i].Name, Err: err}
		}
		run.Results = append(run.Results, r.record(checks[i], res))
	}
	sched.Close()

	// destructive, so only once every other check is done
	last := ContainersDeleted(r.session)
	start := time.Now()
	err := last.Run(ctx)
	run.Results = append(run.Results, r.record(last, scheduler.Result[any]{Name: last.Name, Err: err, Duration: time.Since(start)}))

	// the fleet must go away even when the run was interrupted
	if err := r.session.Close(context.WithoutCancel(ctx)); err != nil {
		r.log.Errorw("session teardown failed", "run_id", run.ID, "error", err)
	}
	run.FinishedAt = time.Now()

	r.log.Infow("verification finished",
		"run_id", run.ID,
		"passed", run.Count(models.OutcomePassed),
		"failed", run.Count(models.OutcomeFailed),
		"timed_out", run.Count(models.OutcomeTimedOut),
		"errored", run.Count(models.OutcomeErrored),
	)
	return run, nil
}

func (r *Runner) record(c Check, res scheduler.Result[any]) models.CheckResult {
	result := models.CheckResult{
		Name:     c.Name,
		Aspect:   c.Aspect,
		Outcome:  Classify(res.Err),
		Duration: res.Duration,
	}
	if res.Err != nil {
		result.Detail = res.Err.Error()
		r.log.Errorw("check did not pass", "check", c.Name, "outcome", result.Outcome, "error", res.Err)
	} else {
		r.log.Infow("check passed", "check", c.Name)
	}
	return result
}
