package clients

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	ws "debt-ledger/internal/transport/websocket"
)

func connectHub(t *testing.T) (*ws.Hub, *websocket.Conn) {
	t.Helper()
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[4:], nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(time.Second)
	for hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ws.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	var received ws.Event
	if err := conn.ReadJSON(&received); err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	return received
}

func TestWebSocketClient_NotifyExportProgress(t *testing.T) {
	hub, conn := connectHub(t)
	client := NewWebSocketClient(hub)

	if err := client.NotifyExportProgress(context.Background(), "export-123", 50.5, "generating"); err != nil {
		t.Fatalf("Failed to notify progress: %v", err)
	}

	received := readMessage(t, conn)
	if received.Type != ws.ExportProgress {
		t.Errorf("Expected type 'export_progress', got '%s'", received.Type)
	}
	if received.ExportID != "export-123" {
		t.Errorf("Expected export_id 'export-123', got '%s'", received.ExportID)
	}

	data, ok := received.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data %T", received.Data)
	}
	if data["id"] != "export-123" {
		t.Errorf("Expected id 'export-123', got '%v'", data["id"])
	}
	if data["progress"].(float64) != 50.5 {
		t.Errorf("Expected progress 50.5, got %v", data["progress"])
	}
	if data["stage"] != "generating" {
		t.Errorf("Expected stage 'generating', got '%v'", data["stage"])
	}
}

func TestWebSocketClient_NotifyExportCompleteAndFailed(t *testing.T) {
	hub, conn := connectHub(t)
	client := NewWebSocketClient(hub)

	if err := client.NotifyExportComplete(context.Background(), "export-1", "/files/a.xlsx", "debtors.xlsx"); err != nil {
		t.Fatalf("Failed to notify complete: %v", err)
	}
	received := readMessage(t, conn)
	if received.Type != ws.ExportComplete {
		t.Errorf("Expected type 'export_complete', got '%s'", received.Type)
	}
	data := received.Data.(map[string]interface{})
	if data["url"] != "/files/a.xlsx" || data["filename"] != "debtors.xlsx" {
		t.Errorf("unexpected payload %v", data)
	}

	if err := client.NotifyExportFailed(context.Background(), "export-2", "boom"); err != nil {
		t.Fatalf("Failed to notify failure: %v", err)
	}
	received = readMessage(t, conn)
	if received.Type != ws.ExportFailed {
		t.Errorf("Expected type 'export_failed', got '%s'", received.Type)
	}
	if received.Data.(map[string]interface{})["message"] != "boom" {
		t.Errorf("unexpected payload %v", received.Data)
	}
}

func TestWebSocketClient_NilHub(t *testing.T) {
	client := NewWebSocketClient(nil)
	if err := client.NotifyExportProgress(context.Background(), "x", 1, ""); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
