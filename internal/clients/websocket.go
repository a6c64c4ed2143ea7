package clients

import (
	"context"

	ws "debt-ledger/internal/transport/websocket"
)

// WebSocketClient reports export lifecycle events to connected browsers.
type WebSocketClient struct {
	hub *ws.Hub
}

func NewWebSocketClient(hub *ws.Hub) *WebSocketClient {
	return &WebSocketClient{hub: hub}
}

func (c *WebSocketClient) publish(kind ws.EventKind, exportID string, data map[string]any) {
	if c.hub == nil {
		return
	}
	data["id"] = exportID
	c.hub.Publish(ws.Event{Type: kind, ExportID: exportID, Data: data})
}

func (c *WebSocketClient) NotifyExportProgress(ctx context.Context, exportID string, progress float64, stage string) error {
	data := map[string]any{"progress": progress}
	if stage != "" {
		data["stage"] = stage
	}
	c.publish(ws.ExportProgress, exportID, data)
	return nil
}

func (c *WebSocketClient) NotifyExportComplete(ctx context.Context, exportID, url, filename string) error {
	c.publish(ws.ExportComplete, exportID, map[string]any{
		"url":      url,
		"filename": filename,
	})
	return nil
}

func (c *WebSocketClient) NotifyExportFailed(ctx context.Context, exportID, errMsg string) error {
	c.publish(ws.ExportFailed, exportID, map[string]any{"message": errMsg})
	return nil
}
