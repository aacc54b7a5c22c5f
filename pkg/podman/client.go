package podman

import (
	"context"
	"fmt"
	"strings"

	"github.com/containers/podman/v5/pkg/bindings"
	"github.com/containers/podman/v5/pkg/bindings/containers"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kubev2v/pipeline-verifier/internal/models"
)

// Client talks to the Podman REST API over a socket.
type Client struct {
	conn        context.Context
	stopTimeout uint
	log         *zap.SugaredLogger
}

// NewClient connects to the Podman socket, e.g. unix:///run/user/1000/podman/podman.sock.
// stopTimeout is the number of seconds a stop waits before killing the container.
func NewClient(ctx context.Context, socket string, stopTimeout uint, logger *zap.Logger) (*Client, error) {
	conn, err := bindings.NewConnection(ctx, socket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to podman socket %s: %w", socket, err)
	}
	return &Client{
		conn:        conn,
		stopTimeout: stopTimeout,
		log:         logger.Named("podman").Sugar(),
	}, nil
}

// List returns the running containers.
func (c *Client) List(ctx context.Context) ([]models.Container, error) {
	callCtx, done := c.call(ctx)
	defer done()

	list, err := containers.List(callCtx, new(containers.ListOptions).WithAll(false))
	if err != nil {
		return nil, err
	}

	result := make([]models.Container, 0, len(list))
	for _, ctr := range list {
		result = append(result, models.Container{
			ID:    ctr.ID,
			Names: ctr.Names,
			State: ctr.State,
		})
	}
	return result, nil
}

func (c *Client) Stop(ctx context.Context, id string) error {
	callCtx, done := c.call(ctx)
	defer done()

	return containers.Stop(callCtx, id, new(containers.StopOptions).WithTimeout(c.stopTimeout))
}

// Prune removes every stopped container and returns the removed ids.
func (c *Client) Prune(ctx context.Context) ([]string, error) {
	callCtx, done := c.call(ctx)
	defer done()

	reports, err := containers.Prune(callCtx, new(containers.PruneOptions))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		if r.Err != nil {
			c.log.Warnw("failed to prune container", "id", r.Id, "error", r.Err)
			continue
		}
		ids = append(ids, r.Id)
	}
	return ids, nil
}

// Logs returns everything the container wrote to stdout and stderr so far,
// interleaved in the order the frames arrived.
func (c *Client) Logs(ctx context.Context, id string) (string, error) {
	callCtx, done := c.call(ctx)
	defer done()

	stdout := make(chan string)
	stderr := make(chan string)
	finished := make(chan struct{})

	var sb strings.Builder
	g := new(errgroup.Group)

	g.Go(func() error {
		defer close(finished)
		opts := new(containers.LogOptions).WithStdout(true).WithStderr(true).WithFollow(false)
		return containers.Logs(callCtx, id, opts, stdout, stderr)
	})

	// sends are unbuffered, so every frame has been received once finished is closed
	g.Go(func() error {
		for {
			select {
			case line := <-stdout:
				sb.WriteString(line)
			case line := <-stderr:
				sb.WriteString(line)
			case <-finished:
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("failed to read logs of %s: %w", id, err)
	}
	return sb.String(), nil
}

// call derives a context carrying the podman connection that is cancelled with ctx.
func (c *Client) call(ctx context.Context) (context.Context, context.CancelFunc) {
	callCtx, cancel := context.WithCancel(c.conn)
	stop := context.AfterFunc(ctx, cancel)
	return callCtx, func() {
		stop()
		cancel()
	}
}
