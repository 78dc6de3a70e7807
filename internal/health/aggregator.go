package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aiostudio/console/internal/models"
	"github.com/aiostudio/console/internal/poll"
	"github.com/aiostudio/console/internal/upstream"
)

const fetchErrorMessage = "failed to load node status"

// Snapshot is the derived node-health view produced by one refresh.
type Snapshot struct {
	Nodes     []models.ServerNode `json:"nodes"`
	Summary   models.NodesSummary `json:"summary"`
	UpdatedAt time.Time           `json:"updated_at"`
	Stale     bool                `json:"stale"`
	Error     string              `json:"error,omitempty"`
}

// Aggregator converts the orchestrator connectivity report into a uniform
// list of health-classified nodes. On a failed fetch the previous list is
// retained and marked stale rather than cleared.
type Aggregator struct {
	client *upstream.Client
	logger *zap.Logger
	runner *poll.Runner

	mu       sync.RWMutex
	snapshot Snapshot
	ready    bool
}

func New(client *upstream.Client, logger *zap.Logger, interval time.Duration) *Aggregator {
	a := &Aggregator{
		client: client,
		logger: logger,
	}
	a.runner = poll.NewRunner(interval, a.refresh)
	return a
}

func (a *Aggregator) Start(ctx context.Context) {
	a.runner.Start(ctx)
}

func (a *Aggregator) Stop() {
	a.runner.Stop()
}

func (a *Aggregator) Ready() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ready
}

func (a *Aggregator) Snapshot() (Snapshot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.ready {
		return Snapshot{}, false
	}

	out := a.snapshot
	out.Nodes = append([]models.ServerNode(nil), a.snapshot.Nodes...)
	return out, true
}

func (a *Aggregator) refresh(ctx context.Context) {
	report, err := a.client.Connectivity(ctx)
	if err != nil {
		a.logger.Warn("connectivity fetch failed, keeping previous node list", zap.Error(err))

		a.mu.Lock()
		a.snapshot.Stale = true
		a.snapshot.Error = fetchErrorMessage
		a.ready = true
		a.mu.Unlock()
		return
	}

	nodes := DeriveNodes(report, time.Now().UTC())

	a.mu.Lock()
	a.snapshot = Snapshot{
		Nodes:     nodes,
		Summary:   Tally(nodes),
		UpdatedAt: time.Now().UTC(),
	}
	a.ready = true
	a.mu.Unlock()
}

// DeriveNodes maps a connectivity report to the ordered node list shown on
// the dashboard: orchestrator, LLM service, external agents group, data
// sources group. Absent sections produce no entry; an empty group mapping is
// treated as absent.
func DeriveNodes(report models.ConnectivityReport, now time.Time) []models.ServerNode {
	heartbeat := parseHeartbeat(report.Timestamp, now)

	orchestratorStatus := models.NodeOnline
	if report.Summary.Unreachable > 0 {
		orchestratorStatus = models.NodeDegraded
	}

	nodes := []models.ServerNode{
		{
			ID:            "orchestrator",
			Name:          "Orchestrator",
			Role:          "control-plane",
			Status:        orchestratorStatus,
			LastHeartbeat: &heartbeat,
		},
	}

	if llm := report.Services.LLM; llm != nil {
		// Single-instance service: binary classification, no degraded state.
		status := models.NodeOffline
		if llm.Reachable {
			status = models.NodeOnline
		}
		nodes = append(nodes, models.ServerNode{
			ID:            "llm",
			Name:          "LLM Service",
			Role:          "inference",
			Status:        status,
			LastHeartbeat: &heartbeat,
		})
	}

	if len(report.Services.Agents) > 0 {
		nodes = append(nodes, groupNode("agents", "External Agents", "agents", report.Services.Agents, heartbeat))
	}

	if len(report.Services.Datasources) > 0 {
		nodes = append(nodes, groupNode("datasources", "Data Sources", "data", report.Services.Datasources, heartbeat))
	}

	return nodes
}

func groupNode(id, label, role string, probes map[string]models.ServiceProbe, heartbeat time.Time) models.ServerNode {
	reachable := 0
	for _, probe := range probes {
		if probe.Reachable {
			reachable++
		}
	}

	var status models.NodeStatus
	switch {
	case reachable == len(probes):
		status = models.NodeOnline
	case reachable == 0:
		status = models.NodeOffline
	default:
		status = models.NodeDegraded
	}

	return models.ServerNode{
		ID:            id,
		Name:          fmt.Sprintf("%s (%d)", label, len(probes)),
		Role:          role,
		Status:        status,
		LastHeartbeat: &heartbeat,
	}
}

// Tally counts node statuses. Total always equals len(nodes).
func Tally(nodes []models.ServerNode) models.NodesSummary {
	summary := models.NodesSummary{Total: len(nodes)}
	for _, node := range nodes {
		switch node.Status {
		case models.NodeOnline:
			summary.Online++
		case models.NodeDegraded:
			summary.Degraded++
		case models.NodeOffline:
			summary.Offline++
		}
	}
	return summary
}

func parseHeartbeat(value string, now time.Time) time.Time {
	if value == "" {
		return now
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return now
	}
	return parsed.UTC()
}
