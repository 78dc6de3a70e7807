package models

import "time"

type ServerType string

const (
	ServerTypeSSH  ServerType = "ssh"
	ServerTypeAPI  ServerType = "api"
	ServerTypeSNMP ServerType = "snmp"
)

type ServerStatus string

const (
	ServerConnected    ServerStatus = "connected"
	ServerDisconnected ServerStatus = "disconnected"
)

// Server is a monitored-server descriptor in the registry. Registry state is
// process-local only; a restart resets it to the seed entry.
type Server struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Host        string             `json:"host"`
	Port        int                `json:"port"`
	Type        ServerType         `json:"type"`
	Status      ServerStatus       `json:"status"`
	Credentials *ServerCredentials `json:"credentials,omitempty"`
	AddedAt     time.Time          `json:"added_at"`
}

type ServerCredentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

// ServerMetrics carries placeholder telemetry for a registered server.
type ServerMetrics struct {
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	DiskPercent   float64   `json:"disk_percent"`
	NetworkIn     int64     `json:"network_in"`
	NetworkOut    int64     `json:"network_out"`
	Timestamp     time.Time `json:"timestamp"`
}
