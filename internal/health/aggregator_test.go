package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aiostudio/console/internal/models"
	"github.com/aiostudio/console/internal/upstream"
)

func TestDeriveNodesOrchestratorOnly(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	nodes := DeriveNodes(models.ConnectivityReport{}, now)

	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(nodes))
	}
	if nodes[0].ID != "orchestrator" {
		t.Errorf("Expected orchestrator node, got %s", nodes[0].ID)
	}
	if nodes[0].Status != models.NodeOnline {
		t.Errorf("Expected online, got %s", nodes[0].Status)
	}
	if nodes[0].LastHeartbeat == nil || !nodes[0].LastHeartbeat.Equal(now) {
		t.Errorf("Expected heartbeat fallback to now, got %v", nodes[0].LastHeartbeat)
	}
}

func TestDeriveNodesOrchestratorDegraded(t *testing.T) {
	report := models.ConnectivityReport{
		Summary: models.ConnectivitySummary{Unreachable: 3},
	}

	nodes := DeriveNodes(report, time.Now())

	if nodes[0].Status != models.NodeDegraded {
		t.Errorf("Expected degraded orchestrator, got %s", nodes[0].Status)
	}
}

func TestDeriveNodesLLMBinary(t *testing.T) {
	for _, tc := range []struct {
		reachable bool
		want      models.NodeStatus
	}{
		{true, models.NodeOnline},
		{false, models.NodeOffline},
	} {
		report := models.ConnectivityReport{
			Services: models.ConnectivityServices{
				LLM: &models.ServiceProbe{Reachable: tc.reachable},
			},
		}

		nodes := DeriveNodes(report, time.Now())
		if len(nodes) != 2 {
			t.Fatalf("Expected 2 nodes, got %d", len(nodes))
		}
		if nodes[1].ID != "llm" {
			t.Errorf("Expected llm node, got %s", nodes[1].ID)
		}
		if nodes[1].Status != tc.want {
			t.Errorf("reachable=%v: expected %s, got %s", tc.reachable, tc.want, nodes[1].Status)
		}
	}
}

func TestDeriveNodesAgentsPartiallyReachable(t *testing.T) {
	report := models.ConnectivityReport{
		Services: models.ConnectivityServices{
			Agents: map[string]models.ServiceProbe{
				"a": {Reachable: true},
				"b": {Reachable: false},
			},
		},
		Summary: models.ConnectivitySummary{Unreachable: 1},
	}

	nodes := DeriveNodes(report, time.Now())

	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}

	agents := nodes[1]
	if agents.Status != models.NodeDegraded {
		t.Errorf("Expected degraded agents node, got %s", agents.Status)
	}
	if agents.Name != "External Agents (2)" {
		t.Errorf("Expected label 'External Agents (2)', got %q", agents.Name)
	}
}

func TestDeriveNodesGroupStatuses(t *testing.T) {
	tests := []struct {
		name   string
		probes map[string]models.ServiceProbe
		want   models.NodeStatus
	}{
		{"all reachable", map[string]models.ServiceProbe{"a": {Reachable: true}, "b": {Reachable: true}}, models.NodeOnline},
		{"none reachable", map[string]models.ServiceProbe{"a": {}, "b": {}}, models.NodeOffline},
		{"mixed", map[string]models.ServiceProbe{"a": {Reachable: true}, "b": {}, "c": {Reachable: true}}, models.NodeDegraded},
	}

	for _, tc := range tests {
		report := models.ConnectivityReport{
			Services: models.ConnectivityServices{Datasources: tc.probes},
		}

		nodes := DeriveNodes(report, time.Now())
		if len(nodes) != 2 {
			t.Fatalf("%s: expected 2 nodes, got %d", tc.name, len(nodes))
		}
		if nodes[1].Status != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, nodes[1].Status)
		}
	}
}

func TestDeriveNodesEmptyGroupsOmitted(t *testing.T) {
	report := models.ConnectivityReport{
		Services: models.ConnectivityServices{
			Agents:      map[string]models.ServiceProbe{},
			Datasources: map[string]models.ServiceProbe{},
		},
	}

	nodes := DeriveNodes(report, time.Now())

	if len(nodes) != 1 {
		t.Fatalf("Expected empty groups to be omitted, got %d nodes", len(nodes))
	}
}

func TestDeriveNodesUsesReportTimestamp(t *testing.T) {
	report := models.ConnectivityReport{Timestamp: "2026-08-01T10:30:00Z"}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	nodes := DeriveNodes(report, now)

	want := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	if !nodes[0].LastHeartbeat.Equal(want) {
		t.Errorf("Expected heartbeat %v, got %v", want, nodes[0].LastHeartbeat)
	}
}

func TestTallyMatchesNodeList(t *testing.T) {
	report := models.ConnectivityReport{
		Services: models.ConnectivityServices{
			LLM: &models.ServiceProbe{Reachable: false},
			Agents: map[string]models.ServiceProbe{
				"a": {Reachable: true},
				"b": {Reachable: false},
			},
			Datasources: map[string]models.ServiceProbe{
				"pg": {Reachable: true},
			},
		},
		Summary: models.ConnectivitySummary{Unreachable: 2},
	}

	nodes := DeriveNodes(report, time.Now())
	summary := Tally(nodes)

	if summary.Total != len(nodes) {
		t.Errorf("Expected total %d, got %d", len(nodes), summary.Total)
	}
	if summary.Online+summary.Degraded+summary.Offline != summary.Total {
		t.Errorf("Status counts %d+%d+%d do not sum to total %d",
			summary.Online, summary.Degraded, summary.Offline, summary.Total)
	}

	// orchestrator degraded, llm offline, agents degraded, datasources online
	want := models.NodesSummary{Total: 4, Online: 1, Degraded: 2, Offline: 1}
	if summary != want {
		t.Errorf("Expected summary %+v, got %+v", want, summary)
	}
}

func TestDeriveNodesIdempotent(t *testing.T) {
	report := models.ConnectivityReport{
		Services: models.ConnectivityServices{
			LLM: &models.ServiceProbe{Reachable: true},
			Agents: map[string]models.ServiceProbe{
				"a": {Reachable: true},
				"b": {Reachable: false},
			},
		},
		Summary:   models.ConnectivitySummary{Unreachable: 1},
		Timestamp: "2026-08-01T10:30:00Z",
	}

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	first := DeriveNodes(report, now)
	second := DeriveNodes(report, now)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical node lists for identical input")
	}
	if Tally(first) != Tally(second) {
		t.Errorf("Expected identical summaries for identical input")
	}
}

func TestRefreshDerivesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/monitoring/connectivity" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"services": {
				"llm": {"reachable": true},
				"agents": {"search": {"reachable": true}, "code": {"reachable": true}},
				"datasources": {"pg": {"reachable": false}}
			},
			"summary": {"unreachable": 1},
			"timestamp": "2026-08-01T10:30:00Z"
		}`))
	}))
	defer server.Close()

	client := upstream.NewClient(server.URL, 2*time.Second)
	a := New(client, zap.NewNop(), 15*time.Second)
	a.refresh(context.Background())

	snapshot, ok := a.Snapshot()
	if !ok {
		t.Fatalf("Expected snapshot to be available")
	}
	if snapshot.Stale {
		t.Errorf("Expected fresh snapshot")
	}
	if snapshot.Error != "" {
		t.Errorf("Unexpected error: %s", snapshot.Error)
	}
	if len(snapshot.Nodes) != 4 {
		t.Fatalf("Expected 4 nodes, got %d", len(snapshot.Nodes))
	}
	if snapshot.Summary.Total != 4 {
		t.Errorf("Expected total 4, got %d", snapshot.Summary.Total)
	}
}

func TestRefreshFailureRetainsPreviousNodes(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"services": {"llm": {"reachable": true}}, "summary": {"unreachable": 0}, "timestamp": "2026-08-01T10:30:00Z"}`))
	}))
	defer server.Close()

	client := upstream.NewClient(server.URL, 2*time.Second)
	a := New(client, zap.NewNop(), 15*time.Second)

	a.refresh(context.Background())
	fail.Store(true)
	a.refresh(context.Background())

	snapshot, ok := a.Snapshot()
	if !ok {
		t.Fatalf("Expected snapshot to be available after failure")
	}
	if len(snapshot.Nodes) != 2 {
		t.Errorf("Expected previous node list to be retained, got %d nodes", len(snapshot.Nodes))
	}
	if !snapshot.Stale {
		t.Errorf("Expected snapshot to be marked stale")
	}
	if snapshot.Error == "" {
		t.Errorf("Expected error message to be surfaced")
	}
}
