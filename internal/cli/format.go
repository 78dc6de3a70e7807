package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"
)

func FormatJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func FormatDashboard(data map[string]interface{}) error {
	stats, ok := data["stats"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid dashboard data")
	}

	fmt.Println("System Overview:")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	if inner, ok := stats["stats"].(map[string]interface{}); ok {
		fmt.Fprintf(w, "CPU Usage:\t%s%%\n", formatFloat(inner["cpu_usage"]))
		fmt.Fprintf(w, "Memory Usage:\t%s%%\n", formatFloat(inner["memory_usage"]))
		fmt.Fprintf(w, "Disk Usage:\t%s%%\n", formatFloat(inner["disk_usage"]))
		fmt.Fprintf(w, "Active Connections:\t%s\n", formatNumber(inner["active_connections"]))
		fmt.Fprintf(w, "Requests/min:\t%s\n", formatNumber(inner["requests_per_minute"]))
		fmt.Fprintf(w, "Cache Hit Rate:\t%s%%\n", formatFloat(inner["cache_hit_rate"]))
		fmt.Fprintf(w, "Agents:\t%s\n", formatNumber(inner["agent_count"]))
		fmt.Fprintf(w, "Credentials:\t%s\n", formatNumber(inner["credential_count"]))
		fmt.Fprintf(w, "Tools:\t%s\n", formatNumber(inner["tool_count"]))
		fmt.Fprintf(w, "TLS Enabled:\t%v\n", inner["tls_enabled"] == true)
	}
	fmt.Fprintf(w, "Backend Online:\t%v\n", stats["backend_online"] == true)

	if err := w.Flush(); err != nil {
		return err
	}

	nodes, ok := data["nodes"].(map[string]interface{})
	if !ok {
		return nil
	}

	fmt.Println()
	return FormatNodesTable(nodes)
}

func FormatNodesTable(data map[string]interface{}) error {
	nodes, ok := data["nodes"].([]interface{})
	if !ok {
		return fmt.Errorf("invalid nodes data")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tROLE\tSTATUS\tLAST HEARTBEAT")

	for _, n := range nodes {
		node := n.(map[string]interface{})
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			getString(node["name"]),
			getString(node["role"]),
			getString(node["status"]),
			formatTime(node["last_heartbeat"]),
		)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if summary, ok := data["summary"].(map[string]interface{}); ok {
		fmt.Printf("\n%s total, %s online, %s degraded, %s offline\n",
			formatNumber(summary["total"]),
			formatNumber(summary["online"]),
			formatNumber(summary["degraded"]),
			formatNumber(summary["offline"]),
		)
	}

	if errMsg := getString(data["error"]); errMsg != "" {
		fmt.Printf("Warning: %s (showing last known state)\n", errMsg)
	}

	return nil
}

func FormatServersTable(data map[string]interface{}) error {
	servers, ok := data["servers"].([]interface{})
	if !ok {
		return fmt.Errorf("invalid servers data")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tHOST\tPORT\tTYPE\tSTATUS")

	for _, s := range servers {
		server := s.(map[string]interface{})
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			getString(server["id"]),
			getString(server["name"]),
			getString(server["host"]),
			formatNumber(server["port"]),
			getString(server["type"]),
			getString(server["status"]),
		)
	}

	return w.Flush()
}

func FormatServerMetrics(data map[string]interface{}) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "CPU:\t%s%%\n", formatFloat(data["cpu_percent"]))
	fmt.Fprintf(w, "Memory:\t%s%%\n", formatFloat(data["memory_percent"]))
	fmt.Fprintf(w, "Disk:\t%s%%\n", formatFloat(data["disk_percent"]))
	fmt.Fprintf(w, "Network In:\t%s\n", formatBytes(data["network_in"]))
	fmt.Fprintf(w, "Network Out:\t%s\n", formatBytes(data["network_out"]))
	fmt.Fprintf(w, "Sampled At:\t%s\n", formatTime(data["timestamp"]))

	return w.Flush()
}

func getString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func formatNumber(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	default:
		return "0"
	}
}

func formatFloat(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.1f", f)
	}
	return "0.0"
}

func formatBytes(v interface{}) string {
	var bytes float64
	switch n := v.(type) {
	case float64:
		bytes = n
	case int64:
		bytes = float64(n)
	case int:
		bytes = float64(n)
	default:
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	i := 0
	for bytes >= 1024 && i < len(units)-1 {
		bytes /= 1024
		i++
	}

	return fmt.Sprintf("%.1f %s", bytes, units[i])
}

func formatTime(v interface{}) string {
	if s, ok := v.(string); ok {
		t, err := time.Parse(time.RFC3339, s)
		if err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
		return s
	}
	return ""
}
