package logs

import (
	"context"

	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/fleet"
	srvErrors "github.com/kubev2v/pipeline-verifier/pkg/errors"
)

// Retriever reads the captured output of running nodes.
type Retriever struct {
	runtime fleet.Runtime
	log     *zap.SugaredLogger
}

func NewRetriever(rt fleet.Runtime, logger *zap.Logger) *Retriever {
	return &Retriever{runtime: rt, log: logger.Named("logs").Sugar()}
}

// Fetch returns the output of the running node whose name matches name ignoring case.
// It returns a RetrievalMissError when no running node matches.
func (r *Retriever) Fetch(ctx context.Context, name string) (string, error) {
	r.log.Infow("get logs", "node", name)

	containers, err := r.runtime.List(ctx)
	if err != nil {
		return "", srvErrors.NewInternalError("list containers", err)
	}

	for _, c := range containers {
		if !c.HasName(name) {
			continue
		}
		text, err := r.runtime.Logs(ctx, c.ID)
		if err != nil {
			return "", srvErrors.NewInternalError("get logs of "+name, err)
		}
		return text, nil
	}

	return "", srvErrors.NewRetrievalMissError(name)
}

// LogsOf is Fetch with every failure reduced to an empty result.
func (r *Retriever) LogsOf(ctx context.Context, name string) string {
	text, err := r.Fetch(ctx, name)
	if err != nil {
		r.log.Warnw("no logs", "node", name, "error", err)
		return ""
	}
	return text
}
