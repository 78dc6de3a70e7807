package models

// ConnectivityReport is the document served by the orchestrator at
// /api/monitoring/connectivity. All service sections are optional.
type ConnectivityReport struct {
	Services  ConnectivityServices `json:"services"`
	Summary   ConnectivitySummary  `json:"summary"`
	Timestamp string               `json:"timestamp"`
}

type ConnectivityServices struct {
	LLM         *ServiceProbe           `json:"llm,omitempty"`
	Agents      map[string]ServiceProbe `json:"agents,omitempty"`
	Datasources map[string]ServiceProbe `json:"datasources,omitempty"`
}

type ServiceProbe struct {
	Reachable bool `json:"reachable"`
}

type ConnectivitySummary struct {
	Unreachable int `json:"unreachable"`
}
