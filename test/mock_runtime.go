package test

import (
	"context"
	"strings"
	"sync"

	"github.com/kubev2v/pipeline-verifier/internal/fleet"
	"github.com/kubev2v/pipeline-verifier/internal/models"
)

// MockRuntime is an in-memory container runtime for testing.
// Stopped containers leave the running list and are removed by Prune.
type MockRuntime struct {
	mu      sync.Mutex
	running []models.Container
	stopped []models.Container
	logs    map[string]string

	// Calls records every invocation in order, e.g. "stop:agent", "prune".
	Calls []string

	ListErr  error
	StopErr  map[string]error
	PruneErr error
	LogsErr  error
}

// NewMockRuntime creates a runtime with the given containers running.
func NewMockRuntime(containers ...models.Container) *MockRuntime {
	return &MockRuntime{
		running: containers,
		logs:    make(map[string]string),
		StopErr: make(map[string]error),
	}
}

// NewPipelineRuntime returns a runtime running the four pipeline nodes,
// each one logging its working marker.
func NewPipelineRuntime() *MockRuntime {
	m := NewMockRuntime()
	for _, n := range models.RequiredNodes {
		m.Start(models.Container{ID: n.Name, Names: []string{n.Name}, State: "running"})
		m.SetLogs(n.Name, "starting\nWorking as "+strings.ToUpper(string(n.Role))+"\n")
	}
	return m
}

// Start adds a running container.
func (m *MockRuntime) Start(c models.Container) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = append(m.running, c)
}

func (m *MockRuntime) SetLogs(id, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[id] = text
}

func (m *MockRuntime) List(ctx context.Context) ([]models.Container, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "list")
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]models.Container, len(m.running))
	copy(out, m.running)
	return out, nil
}

func (m *MockRuntime) Stop(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "stop:"+id)
	if err := m.StopErr[id]; err != nil {
		return err
	}
	for i, c := range m.running {
		if c.ID == id {
			m.running = append(m.running[:i], m.running[i+1:]...)
			c.State = "exited"
			m.stopped = append(m.stopped, c)
			return nil
		}
	}
	return nil
}

func (m *MockRuntime) Prune(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "prune")
	if m.PruneErr != nil {
		return nil, m.PruneErr
	}
	ids := make([]string, 0, len(m.stopped))
	for _, c := range m.stopped {
		ids = append(ids, c.ID)
		delete(m.logs, c.ID)
	}
	m.stopped = nil
	return ids, nil
}

func (m *MockRuntime) Logs(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "logs:"+id)
	if m.LogsErr != nil {
		return "", m.LogsErr
	}
	return m.logs[id], nil
}

// Stopped returns the containers stopped but not yet pruned.
func (m *MockRuntime) Stopped() []models.Container {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Container(nil), m.stopped...)
}

// MockProvisioner runs OnProvision and returns Output and Err.
type MockProvisioner struct {
	Output      string
	Err         error
	OnProvision func()
	Calls       int
}

func (p *MockProvisioner) Provision(ctx context.Context) (string, error) {
	p.Calls++
	if p.OnProvision != nil {
		p.OnProvision()
	}
	return p.Output, p.Err
}

var (
	_ fleet.Runtime     = (*MockRuntime)(nil)
	_ fleet.Provisioner = (*MockProvisioner)(nil)
)
