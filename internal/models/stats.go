package models

// SystemStats is the merged dashboard snapshot assembled on every stats poll.
// Counts come from the orchestrator API; the system metrics have no backend
// endpoint yet and are synthesized locally.
type SystemStats struct {
	CPUUsage          float64 `json:"cpu_usage"`
	MemoryUsage       float64 `json:"memory_usage"`
	DiskUsage         float64 `json:"disk_usage"`
	ActiveConnections int     `json:"active_connections"`
	RequestsPerMinute int     `json:"requests_per_minute"`
	CacheHitRate      float64 `json:"cache_hit_rate"`
	AgentCount        int     `json:"agent_count"`
	CredentialCount   int     `json:"credential_count"`
	ToolCount         int     `json:"tool_count"`
	TLSEnabled        bool    `json:"tls_enabled"`
}
