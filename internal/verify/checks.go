package verify

import (
	"context"
	"strings"

	"github.com/kubev2v/pipeline-verifier/internal/models"
	"github.com/kubev2v/pipeline-verifier/internal/session"
	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

const CheckContainersDeleted = "containers-deleted"

// Check is one independent assertion against an open session.
type Check struct {
	Name   string
	Aspect models.Aspect
	Run    func(ctx context.Context) error
}

// Catalog returns the checks that only read the fleet, in reporting order.
func Catalog(s *session.Session) []Check {
	checks := []Check{
		{Name: "containers-created", Aspect: models.AspectContainers, Run: containersCreated(s)},
		{Name: "events-log-created", Aspect: models.AspectLineCount, Run: eventLogCreated(s)},
		{Name: "line-count-parity", Aspect: models.AspectLineCount, Run: lineCountParity(s)},
	}
	for _, role := range models.Roles {
		checks = append(checks, Check{
			Name:   string(role) + "-config-valid",
			Aspect: models.AspectConfig,
			Run:    configValid(s, role),
		})
	}
	for _, node := range models.RequiredNodes {
		checks = append(checks, Check{
			Name:   node.Name + "-ran-correctly",
			Aspect: models.AspectLogs,
			Run:    ranCorrectly(s, node),
		})
	}
	return checks
}

// ContainersDeleted tears the fleet down and expects nothing to be left running.
// It must run after every check of the catalog.
func ContainersDeleted(s *session.Session) Check {
	return Check{
		Name:   CheckContainersDeleted,
		Aspect: models.AspectContainers,
		Run: func(ctx context.Context) error {
			if _, err := s.Teardown(ctx); err != nil {
				return err
			}
			f, err := s.Running(ctx)
			if err != nil {
				return err
			}
			if !f.IsEmpty() {
				return srvErrors.NewCheckFailedError("nodes still running after teardown: %s", strings.Join(f.List(), ", "))
			}
			return nil
		},
	}
}

func containersCreated(s *session.Session) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		f, err := s.Fleet()
		if err != nil {
			return err
		}
		missing := f.Missing(models.RequiredNodes)
		if len(missing) == 0 {
			return nil
		}
		if provErr := s.ProvisionError(); provErr != nil {
			return srvErrors.NewCheckFailedError("missing nodes %s after provisioning failed: %v", strings.Join(missing, ", "), provErr)
		}
		return srvErrors.NewCheckFailedError("missing nodes %s", strings.Join(missing, ", "))
	}
}

func eventLogCreated(s *session.Session) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if !s.OutputExists() {
			return srvErrors.NewCheckFailedError("event log has not been created")
		}
		return nil
	}
}

func lineCountParity(s *session.Session) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		lc, err := s.CompareLineCounts(ctx)
		if err != nil {
			return err
		}
		if !lc.Match() {
			return srvErrors.NewCheckFailedError("event log has %d lines, input has %d", lc.Output, lc.Input)
		}
		return nil
	}
}

func configValid(s *session.Session, role models.Role) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		results, err := s.ValidateConfigs(role)
		if err != nil {
			return err
		}
		var invalid []string
		for _, r := range results {
			if !r.Valid() {
				invalid = append(invalid, r.Err.Error())
			}
		}
		if len(invalid) > 0 {
			return srvErrors.NewCheckFailedError("%s", strings.Join(invalid, "; "))
		}
		return nil
	}
}

func ranCorrectly(s *session.Session, node models.Node) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		text, err := s.FetchLogs(ctx, node.Name)
		if err != nil {
			return err
		}
		marker := node.Role.WorkingMarker()
		if !strings.Contains(strings.ToLower(text), marker) {
			return srvErrors.NewCheckFailedError("%q not found in logs of %s", marker, node.Name)
		}
		return nil
	}
}

// Classify maps the error returned by a check to its outcome.
func Classify(err error) models.Outcome {
	switch {
	case err == nil:
		return models.OutcomePassed
	case srvErrors.IsSettleTimeoutError(err):
		return models.OutcomeTimedOut
	case srvErrors.IsCheckFailedError(err), srvErrors.IsValidationError(err), srvErrors.IsRetrievalMissError(err):
		return models.OutcomeFailed
	default:
		return models.OutcomeErrored
	}
}
