package sim

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aiostudio/console/internal/models"
)

// Backend is a development stand-in for the orchestrator API. It serves the
// endpoints the console polls, with synthetic payloads whose reachability
// flags drift over time so the dashboard has something to show.
type Backend struct {
	startedAt time.Time

	mu   sync.Mutex
	tick int
}

func NewBackend() *Backend {
	return &Backend{startedAt: time.Now().UTC()}
}

func (b *Backend) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", b.handleHealth)
	mux.HandleFunc("/api/agents", b.handleAgents)
	mux.HandleFunc("/api/credentials", b.handleCredentials)
	mux.HandleFunc("/api/certs", b.handleCerts)
	mux.HandleFunc("/api/tools", b.handleTools)
	mux.HandleFunc("/api/monitoring/connectivity", b.handleConnectivity)
}

func (b *Backend) nextTick() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tick++
	return b.tick
}

func (b *Backend) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload := map[string]interface{}{
		"status": "ok",
		"uptime": int64(time.Since(b.startedAt).Seconds()),
	}

	// Host facts are best effort; the console only checks reachability.
	if info, err := host.Info(); err == nil {
		payload["hostname"] = info.Hostname
		payload["os"] = info.OS
		payload["platform"] = info.Platform
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		payload["memory_total_bytes"] = vm.Total
		payload["memory_used_percent"] = vm.UsedPercent
	}

	respondJSON(w, http.StatusOK, payload)
}

func (b *Backend) handleAgents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, http.StatusOK, []map[string]interface{}{
		{"id": "agent-search", "name": "search", "transport": "http"},
		{"id": "agent-code", "name": "code-runner", "transport": "http"},
		{"id": "agent-browser", "name": "browser", "transport": "websocket"},
	})
}

func (b *Backend) handleCredentials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"credentials": []map[string]interface{}{
			{"id": "cred-openai", "provider": "openai"},
			{"id": "cred-postgres", "provider": "postgres"},
		},
	})
}

func (b *Backend) handleCerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"enabled": true,
		"issuer":  "studio-dev-ca",
	})
}

func (b *Backend) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, http.StatusOK, []map[string]interface{}{
		{"name": "web_search"},
		{"name": "sql_query"},
		{"name": "file_read"},
		{"name": "shell_exec"},
	})
}

func (b *Backend) handleConnectivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, http.StatusOK, buildConnectivity(b.nextTick(), time.Now().UTC()))
}

// buildConnectivity scripts reachability over ticks: every fourth report one
// agent drops out, every seventh the vector datasource does.
func buildConnectivity(tick int, now time.Time) models.ConnectivityReport {
	agentDown := tick%4 == 0
	datasourceDown := tick%7 == 0

	report := models.ConnectivityReport{
		Services: models.ConnectivityServices{
			LLM: &models.ServiceProbe{Reachable: true},
			Agents: map[string]models.ServiceProbe{
				"search":      {Reachable: true},
				"code-runner": {Reachable: !agentDown},
				"browser":     {Reachable: true},
			},
			Datasources: map[string]models.ServiceProbe{
				"postgres": {Reachable: true},
				"vector":   {Reachable: !datasourceDown},
			},
		},
		Timestamp: now.Format(time.RFC3339),
	}

	unreachable := 0
	for _, probe := range report.Services.Agents {
		if !probe.Reachable {
			unreachable++
		}
	}
	for _, probe := range report.Services.Datasources {
		if !probe.Reachable {
			unreachable++
		}
	}
	report.Summary.Unreachable = unreachable

	return report
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
