package websocket

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[4:]+query, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.Clients() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected %d subscribers, got %d", want, hub.Clients())
}

func readEvent(t *testing.T, conn *websocket.Conn, wait time.Duration) (Event, error) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(wait))
	var ev Event
	err := conn.ReadJSON(&ev)
	return ev, err
}

func TestHub_JoinAndLeave(t *testing.T) {
	hub, server := startHub(t)

	conn := dial(t, server, "")
	waitClients(t, hub, 1)

	conn.Close()
	waitClients(t, hub, 0)
}

func TestHub_PublishReachesEverySubscriber(t *testing.T) {
	hub, server := startHub(t)

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		conns = append(conns, dial(t, server, ""))
	}
	waitClients(t, hub, 3)

	hub.Publish(Event{Type: ExportProgress, ExportID: "e1", Data: map[string]any{"progress": 10}})

	var wg sync.WaitGroup
	for i, conn := range conns {
		wg.Add(1)
		go func(idx int, c *websocket.Conn) {
			defer wg.Done()
			ev, err := readEvent(t, c, time.Second)
			if err != nil {
				t.Errorf("Subscriber %d failed to read event: %v", idx, err)
				return
			}
			if ev.Type != ExportProgress || ev.ExportID != "e1" {
				t.Errorf("Subscriber %d: unexpected event %+v", idx, ev)
			}
		}(i, conn)
	}
	wg.Wait()
}

func TestHub_ExportFilter(t *testing.T) {
	hub, server := startHub(t)
	mine := dial(t, server, "?export_id=e2")
	all := dial(t, server, "")
	waitClients(t, hub, 2)

	hub.Publish(Event{Type: ExportProgress, ExportID: "e1"})
	hub.Publish(Event{Type: ExportComplete, ExportID: "e2"})

	ev, err := readEvent(t, mine, time.Second)
	if err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if ev.ExportID != "e2" || ev.Type != ExportComplete {
		t.Errorf("Expected e2 completion, got %+v", ev)
	}

	for _, want := range []string{"e1", "e2"} {
		ev, err := readEvent(t, all, time.Second)
		if err != nil {
			t.Fatalf("Failed to read event: %v", err)
		}
		if ev.ExportID != want {
			t.Errorf("Expected %s, got %s", want, ev.ExportID)
		}
	}

	if ev, err := readEvent(t, mine, 100*time.Millisecond); err == nil {
		t.Errorf("Filtered subscriber got unexpected event %+v", ev)
	}
}

func TestHub_ShutdownClosesConnections(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	server := httptest.NewServer(hub)
	defer server.Close()
	conn := dial(t, server, "")
	waitClients(t, hub, 1)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	if _, err := readEvent(t, conn, time.Second); err == nil {
		t.Fatal("expected read error after hub shutdown")
	}
}
