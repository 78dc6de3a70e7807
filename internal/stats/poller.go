package stats

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aiostudio/console/internal/models"
	"github.com/aiostudio/console/internal/poll"
	"github.com/aiostudio/console/internal/upstream"
)

// Snapshot is the display state produced by one poll cycle.
type Snapshot struct {
	Stats         models.SystemStats `json:"stats"`
	BackendOnline bool               `json:"backend_online"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Poller assembles a dashboard snapshot from five independent orchestrator
// endpoints. Each source settles on its own: a failed request falls back to
// its default value and never aborts the rest of the batch.
type Poller struct {
	client *upstream.Client
	logger *zap.Logger
	runner *poll.Runner

	mu       sync.RWMutex
	snapshot Snapshot
	ready    bool
}

func New(client *upstream.Client, logger *zap.Logger, interval time.Duration) *Poller {
	p := &Poller{
		client: client,
		logger: logger,
	}
	p.runner = poll.NewRunner(interval, p.refresh)
	return p
}

func (p *Poller) Start(ctx context.Context) {
	p.runner.Start(ctx)
}

func (p *Poller) Stop() {
	p.runner.Stop()
}

func (p *Poller) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready
}

func (p *Poller) Snapshot() (Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.ready {
		return Snapshot{}, false
	}
	return p.snapshot, true
}

func (p *Poller) refresh(ctx context.Context) {
	var (
		wg sync.WaitGroup

		healthErr error

		agentCount int
		agentsErr  error

		credentialCount int
		credsErr        error

		tlsEnabled bool
		certsErr   error

		toolCount int
		toolsErr  error
	)

	// Fan out, settle all. Each goroutine writes only its own pair.
	wg.Add(5)
	go func() {
		defer wg.Done()
		healthErr = p.client.CheckHealth(ctx)
	}()
	go func() {
		defer wg.Done()
		agentCount, agentsErr = p.client.AgentCount(ctx)
	}()
	go func() {
		defer wg.Done()
		credentialCount, credsErr = p.client.CredentialCount(ctx)
	}()
	go func() {
		defer wg.Done()
		tlsEnabled, certsErr = p.client.TLSEnabled(ctx)
	}()
	go func() {
		defer wg.Done()
		toolCount, toolsErr = p.client.ToolCount(ctx)
	}()
	wg.Wait()

	for _, e := range []struct {
		source string
		err    error
	}{
		{"health", healthErr},
		{"agents", agentsErr},
		{"credentials", credsErr},
		{"certs", certsErr},
		{"tools", toolsErr},
	} {
		if e.err != nil {
			p.logger.Warn("stats source unavailable, using default",
				zap.String("source", e.source),
				zap.Error(e.err))
		}
	}

	stats := synthesizeSystemMetrics()
	stats.AgentCount = agentCount
	stats.CredentialCount = credentialCount
	stats.ToolCount = toolCount
	stats.TLSEnabled = tlsEnabled
	if certsErr != nil {
		stats.TLSEnabled = false
	}

	p.mu.Lock()
	p.snapshot = Snapshot{
		Stats:         stats,
		BackendOnline: healthErr == nil,
		UpdatedAt:     time.Now().UTC(),
	}
	p.ready = true
	p.mu.Unlock()
}

// synthesizeSystemMetrics fills the metrics that have no orchestrator
// endpoint yet with fresh pseudo-random values.
func synthesizeSystemMetrics() models.SystemStats {
	return models.SystemStats{
		CPUUsage:          20 + rand.Float64()*60,
		MemoryUsage:       30 + rand.Float64()*55,
		DiskUsage:         40 + rand.Float64()*30,
		ActiveConnections: 50 + rand.Intn(200),
		RequestsPerMinute: 100 + rand.Intn(1000),
		CacheHitRate:      85 + rand.Float64()*14,
	}
}
