package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientDashboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/dashboard" {
			t.Errorf("Expected path /api/v1/dashboard, got %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"stats": map[string]interface{}{"backend_online": true},
			"nodes": map[string]interface{}{"summary": map[string]interface{}{"total": 2}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	data, err := client.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}

	stats := data["stats"].(map[string]interface{})
	if stats["backend_online"] != true {
		t.Errorf("Expected backend_online true, got %v", stats["backend_online"])
	}
}

func TestClientAddServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/servers" {
			t.Errorf("Expected path /api/v1/servers, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %s", ct)
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if payload["name"] != "edge-1" {
			t.Errorf("Expected name edge-1, got %v", payload["name"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":   "abc-123",
			"name": "edge-1",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	data, err := client.AddServer(map[string]interface{}{
		"name": "edge-1",
		"host": "10.0.0.9",
		"port": 22,
		"type": "ssh",
	})
	if err != nil {
		t.Fatalf("AddServer() error: %v", err)
	}

	if data["id"] != "abc-123" {
		t.Errorf("Expected id abc-123, got %v", data["id"])
	}
}

func TestClientRemoveServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected DELETE, got %s", r.Method)
		}
		if r.URL.Path != "/api/v1/servers/abc-123" {
			t.Errorf("Expected path /api/v1/servers/abc-123, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.RemoveServer("abc-123"); err != nil {
		t.Fatalf("RemoveServer() error: %v", err)
	}
}

func TestClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "server not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.TestServer("missing"); err == nil {
		t.Fatalf("Expected error for 404 response")
	}
}
