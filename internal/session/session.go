package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/fleet"
	"github.com/kubev2v/pipeline-verifier/internal/integrity"
	"github.com/kubev2v/pipeline-verifier/internal/logs"
	"github.com/kubev2v/pipeline-verifier/internal/models"
	"github.com/kubev2v/pipeline-verifier/internal/validator"
)

var (
	ErrSessionActive  = errors.New("a verification session is already open")
	ErrSessionNotOpen = errors.New("no verification session is open")
)

// Session owns the fleet of one test case, from provisioning to teardown.
//
//	idle ──Open──► provisioned ──query──► verifying ──Close──► torn_down
//	  ▲                                                          │
//	  └──────────────────────────Open────────────────────────────┘
type Session struct {
	controller *fleet.Controller
	retriever  *logs.Retriever
	validator  *validator.Validator
	checker    *integrity.Checker
	logger     *zap.Logger

	mu           sync.Mutex
	id           string
	state        models.SessionState
	openedAt     time.Time
	fleet        models.Fleet
	provisionErr error
	log          *zap.Logger
}

func New(controller *fleet.Controller, retriever *logs.Retriever, v *validator.Validator, checker *integrity.Checker, logger *zap.Logger) *Session {
	return &Session{
		controller: controller,
		retriever:  retriever,
		validator:  v,
		checker:    checker,
		logger:     logger,
		state:      models.SessionStateIdle,
		fleet:      models.NewFleet(nil),
		log:        logger.Named("session"),
	}
}

// Open provisions the fleet. A failed provisioning does not fail Open: it is
// kept in ProvisionError and the observed fleet is recorded as is.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Open() {
		return ErrSessionActive
	}

	s.id = uuid.NewString()
	s.openedAt = time.Now()
	s.log = s.logger.Named("session").With(zap.String("run_id", s.id))
	s.log.Info("opening session")

	f, err := s.controller.Provision(ctx)
	s.fleet = f
	s.provisionErr = err
	if err != nil {
		s.log.Error("provisioning failed", zap.Error(err))
	}

	s.state = models.SessionStateProvisioned
	s.log.Info("session provisioned", zap.Strings("nodes", f.List()))
	return nil
}

// Close tears the fleet down and removes the event log. It runs from any state
// and always leaves the session torn down.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("closing session")

	var result error
	if _, err := s.controller.Teardown(ctx); err != nil {
		s.log.Error("teardown failed", zap.Error(err))
		result = multierr.Append(result, err)
	}
	if _, err := s.checker.RemoveOutput(); err != nil {
		s.log.Error("failed to remove event log", zap.Error(err))
		result = multierr.Append(result, err)
	}

	s.state = models.SessionStateTornDown
	s.fleet = models.NewFleet(nil)
	s.log.Info("session closed", zap.Duration("duration", time.Since(s.openedAt)))
	_ = s.log.Sync()
	return result
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Logger returns the logger scoped to the current session.
func (s *Session) Logger() *zap.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log
}

// ProvisionError is the provisioning failure of the last Open, if any.
func (s *Session) ProvisionError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provisionErr
}

// Fleet returns the node names observed when the session was provisioned.
func (s *Session) Fleet() (models.Fleet, error) {
	if err := s.enter(); err != nil {
		return models.NewFleet(nil), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fleet, nil
}

// Running lists the nodes running right now.
func (s *Session) Running(ctx context.Context) (models.Fleet, error) {
	if err := s.enter(); err != nil {
		return models.NewFleet(nil), err
	}
	return s.controller.Running(ctx)
}

// Teardown stops and prunes the fleet without closing the session.
func (s *Session) Teardown(ctx context.Context) (fleet.TeardownReport, error) {
	if err := s.enter(); err != nil {
		return fleet.TeardownReport{}, err
	}
	return s.controller.Teardown(ctx)
}

func (s *Session) FetchLogs(ctx context.Context, node string) (string, error) {
	if err := s.enter(); err != nil {
		return "", err
	}
	return s.retriever.Fetch(ctx, node)
}

// Logs returns the output of node, or "" when it cannot be read.
func (s *Session) Logs(ctx context.Context, node string) string {
	if err := s.enter(); err != nil {
		return ""
	}
	return s.retriever.LogsOf(ctx, node)
}

func (s *Session) ValidateConfigs(role models.Role) ([]validator.ArtifactResult, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	return s.validator.Validate(role)
}

func (s *Session) ConfigsValid(role models.Role) bool {
	if err := s.enter(); err != nil {
		return false
	}
	return s.validator.AllConfigsValid(role)
}

func (s *Session) OutputExists() bool {
	if err := s.enter(); err != nil {
		return false
	}
	return s.checker.OutputExists()
}

func (s *Session) CompareLineCounts(ctx context.Context) (models.LineCount, error) {
	if err := s.enter(); err != nil {
		return models.LineCount{}, err
	}
	return s.checker.CompareLineCounts(ctx)
}

func (s *Session) LineCountsMatch(ctx context.Context) bool {
	if err := s.enter(); err != nil {
		return false
	}
	return s.checker.LineCountsMatch(ctx)
}

// enter moves an open session to verifying.
func (s *Session) enter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Open() {
		return ErrSessionNotOpen
	}
	s.state = models.SessionStateVerifying
	return nil
}
