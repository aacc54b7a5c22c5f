package models

import "time"

type SessionState string

const (
	SessionStateIdle        SessionState = "idle"
	SessionStateProvisioned SessionState = "provisioned"
	SessionStateVerifying   SessionState = "verifying"
	SessionStateTornDown    SessionState = "torn_down"
)

// Open reports whether the session owns a fleet.
func (s SessionState) Open() bool {
	return s == SessionStateProvisioned || s == SessionStateVerifying
}

// Aspect is the part of the pipeline a check is about.
type Aspect string

const (
	AspectContainers Aspect = "containers"
	AspectConfig     Aspect = "config"
	AspectLogs       Aspect = "logs"
	AspectLineCount  Aspect = "line_count"
)

type Outcome string

const (
	OutcomePassed   Outcome = "passed"
	OutcomeFailed   Outcome = "failed"
	OutcomeTimedOut Outcome = "timed_out"
	OutcomeErrored  Outcome = "errored"
)

func ParseOutcome(s string) Outcome {
	switch Outcome(s) {
	case OutcomePassed, OutcomeFailed, OutcomeTimedOut:
		return Outcome(s)
	default:
		return OutcomeErrored
	}
}

type CheckResult struct {
	Name     string
	Aspect   Aspect
	Outcome  Outcome
	Detail   string
	Duration time.Duration
}

// Run is the record of one verification pass.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	ProvisionError string
	Results        []CheckResult
}

// Passed is true when every check passed.
func (r Run) Passed() bool {
	for _, res := range r.Results {
		if res.Outcome != OutcomePassed {
			return false
		}
	}
	return len(r.Results) > 0
}

func (r Run) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// LineCount holds the non-blank line counts of the event log and the input artifact.
type LineCount struct {
	Output int
	Input  int
}

func (l LineCount) Match() bool {
	return l.Output == l.Input
}
