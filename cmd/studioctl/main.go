package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aiostudio/console/internal/cli"
)

var (
	serverURL  string
	outputJSON bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "studioctl",
	Short: "CLI for the AI Orchestrator Studio console",
	Long: `studioctl is a command-line interface for the AI Orchestrator Studio console API.

It provides commands to inspect the dashboard snapshot, node health, and the
monitored-server registry.`,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check console service health",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := cli.NewClient(serverURL)
		data, err := client.Health()
		if err != nil {
			return err
		}

		if outputJSON {
			return cli.FormatJSON(data)
		}

		fmt.Println("Console: ok")
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := cli.NewClient(serverURL)
		data, err := client.Dashboard()
		if err != nil {
			return err
		}

		if outputJSON {
			return cli.FormatJSON(data)
		}

		return cli.FormatDashboard(data)
	},
}

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Show node health",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := cli.NewClient(serverURL)
		data, err := client.Nodes()
		if err != nil {
			return err
		}

		if outputJSON {
			return cli.FormatJSON(data)
		}

		return cli.FormatNodesTable(data)
	},
}

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "Manage the monitored-server registry",
}

var listServersCmd = &cobra.Command{
	Use:   "list",
	Short: "List monitored servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := cli.NewClient(serverURL)
		data, err := client.ListServers()
		if err != nil {
			return err
		}

		if outputJSON {
			return cli.FormatJSON(data)
		}

		return cli.FormatServersTable(data)
	},
}

var addServerCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a monitored server",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		serverType, _ := cmd.Flags().GetString("type")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		apiKey, _ := cmd.Flags().GetString("api-key")

		payload := map[string]interface{}{
			"name": name,
			"host": host,
			"port": port,
			"type": strings.ToLower(serverType),
		}
		if username != "" || password != "" || apiKey != "" {
			payload["credentials"] = map[string]interface{}{
				"username": username,
				"password": password,
				"api_key":  apiKey,
			}
		}

		client := cli.NewClient(serverURL)
		data, err := client.AddServer(payload)
		if err != nil {
			return err
		}

		if outputJSON {
			return cli.FormatJSON(data)
		}

		fmt.Printf("Added server %s (%s)\n", data["name"], data["id"])
		return nil
	},
}

var removeServerCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a monitored server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := cli.NewClient(serverURL)
		if err := client.RemoveServer(args[0]); err != nil {
			return err
		}

		fmt.Printf("Removed server %s\n", args[0])
		return nil
	},
}

var testServerCmd = &cobra.Command{
	Use:   "test [id]",
	Short: "Run a simulated connection test against a server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := cli.NewClient(serverURL)
		data, err := client.TestServer(args[0])
		if err != nil {
			return err
		}

		if outputJSON {
			return cli.FormatJSON(data)
		}

		fmt.Println(data["message"])
		return nil
	},
}

var serverMetricsCmd = &cobra.Command{
	Use:   "metrics [id]",
	Short: "Show placeholder metrics for a server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := cli.NewClient(serverURL)
		data, err := client.ServerMetrics(args[0])
		if err != nil {
			return err
		}

		if outputJSON {
			return cli.FormatJSON(data)
		}

		return cli.FormatServerMetrics(data)
	},
}

func init() {
	// Check for environment variable, fallback to default
	defaultServerURL := os.Getenv("CONSOLE_URL")
	if defaultServerURL == "" {
		defaultServerURL = "http://localhost:8080"
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultServerURL, "Console server URL")
	rootCmd.PersistentFlags().BoolVarP(&outputJSON, "json", "j", false, "Output in JSON format")

	addServerCmd.Flags().String("name", "", "Server display name")
	addServerCmd.Flags().String("host", "", "Server host or IP")
	addServerCmd.Flags().Int("port", 22, "Server port")
	addServerCmd.Flags().String("type", "ssh", "Server type (ssh, api, snmp)")
	addServerCmd.Flags().String("username", "", "Credential username")
	addServerCmd.Flags().String("password", "", "Credential password")
	addServerCmd.Flags().String("api-key", "", "Credential API key")
	addServerCmd.MarkFlagRequired("name")
	addServerCmd.MarkFlagRequired("host")

	serversCmd.AddCommand(listServersCmd)
	serversCmd.AddCommand(addServerCmd)
	serversCmd.AddCommand(removeServerCmd)
	serversCmd.AddCommand(testServerCmd)
	serversCmd.AddCommand(serverMetricsCmd)

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(serversCmd)
}
