package integrity

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/models"
	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

// Checker compares the pipeline output against its input.
type Checker struct {
	eventLog string
	input    string
	settler  Settler
	log      *zap.SugaredLogger
}

func NewChecker(eventLog, input string, settler Settler, logger *zap.Logger) *Checker {
	return &Checker{
		eventLog: eventLog,
		input:    input,
		settler:  settler,
		log:      logger.Named("integrity").Sugar(),
	}
}

func (c *Checker) EventLogPath() string {
	return c.eventLog
}

// OutputExists is true once the event log is present.
func (c *Checker) OutputExists() bool {
	_, err := os.Stat(c.eventLog)
	return err == nil
}

// CompareLineCounts waits for the pipeline to drain, then counts the non-blank
// lines of the event log and of the input artifact.
func (c *Checker) CompareLineCounts(ctx context.Context) (models.LineCount, error) {
	var lc models.LineCount

	input, err := CountLines(c.input)
	if err != nil {
		return lc, srvErrors.NewInternalError("count input lines", err)
	}
	lc.Input = input

	if err := c.settler.Settle(ctx, c.eventLog, input); err != nil {
		c.log.Errorw("event log did not settle", "path", c.eventLog, "error", err)
		return lc, err
	}

	output, err := CountLines(c.eventLog)
	if err != nil {
		return lc, srvErrors.NewInternalError("count event log lines", err)
	}
	lc.Output = output

	c.log.Infow("line counts", "output", lc.Output, "input", lc.Input)
	return lc, nil
}

// LineCountsMatch is CompareLineCounts reduced to a boolean.
func (c *Checker) LineCountsMatch(ctx context.Context) bool {
	lc, err := c.CompareLineCounts(ctx)
	if err != nil {
		return false
	}
	return lc.Match()
}

// RemoveOutput deletes the event log. A missing file is not an error.
func (c *Checker) RemoveOutput() (bool, error) {
	err := os.Remove(c.eventLog)
	if errors.Is(err, os.ErrNotExist) {
		c.log.Infow("the event log does not exist", "path", c.eventLog)
		return false, nil
	}
	if err != nil {
		return false, srvErrors.NewInternalError("remove event log", err)
	}
	return true, nil
}
