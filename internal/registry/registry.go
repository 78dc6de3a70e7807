package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aiostudio/console/internal/models"
)

var ErrNotFound = errors.New("server not found")

const defaultTestDelay = 1500 * time.Millisecond

// Registry holds the monitored-server list in memory. Nothing persists: a
// process restart resets the registry to its single seed entry.
type Registry struct {
	testDelay time.Duration

	mu      sync.RWMutex
	servers []models.Server
}

func New(testDelay time.Duration) *Registry {
	if testDelay <= 0 {
		testDelay = defaultTestDelay
	}
	return &Registry{
		testDelay: testDelay,
		servers:   []models.Server{seedServer()},
	}
}

func seedServer() models.Server {
	return models.Server{
		ID:      uuid.NewString(),
		Name:    "orchestrator-host",
		Host:    "127.0.0.1",
		Port:    22,
		Type:    models.ServerTypeSSH,
		Status:  models.ServerConnected,
		AddedAt: time.Now().UTC(),
	}
}

func (r *Registry) List() []models.Server {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Server(nil), r.servers...)
}

func (r *Registry) Get(id string) (models.Server, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, server := range r.servers {
		if server.ID == id {
			return server, nil
		}
	}
	return models.Server{}, ErrNotFound
}

// Add validates the descriptor, assigns it an identifier and appends it.
func (r *Registry) Add(server models.Server) (models.Server, error) {
	if err := validate(server); err != nil {
		return models.Server{}, err
	}

	server.ID = uuid.NewString()
	server.Status = models.ServerDisconnected
	server.AddedAt = time.Now().UTC()

	r.mu.Lock()
	r.servers = append(r.servers, server)
	r.mu.Unlock()

	return server, nil
}

func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, server := range r.servers {
		if server.ID == id {
			r.servers = append(r.servers[:i], r.servers[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// TestConnection simulates a connectivity probe: a fixed delay followed by a
// success message. No real network traffic occurs, and Server.Status is left
// untouched.
func (r *Registry) TestConnection(ctx context.Context, id string) (string, error) {
	server, err := r.Get(id)
	if err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(r.testDelay):
	}

	return fmt.Sprintf("Connection to %s (%s:%d) succeeded", server.Name, server.Host, server.Port), nil
}

// Metrics returns placeholder telemetry for a registered server. The values
// are static examples, not live readings.
func (r *Registry) Metrics(id string) (models.ServerMetrics, error) {
	if _, err := r.Get(id); err != nil {
		return models.ServerMetrics{}, err
	}

	return models.ServerMetrics{
		CPUPercent:    42.5,
		MemoryPercent: 67.2,
		DiskPercent:   55.8,
		NetworkIn:     1024 * 512,
		NetworkOut:    1024 * 256,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func validate(server models.Server) error {
	if server.Name == "" {
		return errors.New("server name is required")
	}
	if server.Host == "" {
		return errors.New("server host is required")
	}
	if server.Port < 1 || server.Port > 65535 {
		return fmt.Errorf("invalid port %d", server.Port)
	}
	switch server.Type {
	case models.ServerTypeSSH, models.ServerTypeAPI, models.ServerTypeSNMP:
	default:
		return fmt.Errorf("unknown server type %q", server.Type)
	}
	return nil
}
