package models

import "time"

type NodeStatus string

const (
	NodeOnline   NodeStatus = "online"
	NodeDegraded NodeStatus = "degraded"
	NodeOffline  NodeStatus = "offline"
)

// ServerNode is one health-classified entry on the dashboard: a single
// service (orchestrator, LLM) or a group of instances (agents, data sources).
type ServerNode struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	Status        NodeStatus `json:"status"`
	LastHeartbeat *time.Time `json:"last_heartbeat,omitempty"`
}

// NodesSummary is a pure fold over a node list. It is recomputed on every
// refresh, never stored independently.
type NodesSummary struct {
	Total    int `json:"total"`
	Online   int `json:"online"`
	Degraded int `json:"degraded"`
	Offline  int `json:"offline"`
}
