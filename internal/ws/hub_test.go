package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxlens/internal/domain"
	"rxlens/internal/port"
)

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.HandleUpgrade))
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn, func() {
		_ = conn.Close()
		server.Close()
	}
}

func TestHubBroadcastReachesClient(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	id := uuid.New()
	// Registration races the broadcast; retry until the event lands.
	deadline := time.Now().Add(2 * time.Second)
	got := make(chan []byte, 1)
	go func() {
		_, payload, err := conn.ReadMessage()
		if err == nil {
			got <- payload
		}
	}()

	var payload []byte
	for {
		hub.Broadcast(port.Event{
			Type:           port.EventCompleted,
			PrescriptionID: id,
			Status:         domain.StatusCompleted,
			Timestamp:      time.Now().UTC(),
		})
		select {
		case payload = <-got:
		case <-time.After(20 * time.Millisecond):
			if time.Now().Before(deadline) {
				continue
			}
			t.Fatal("client never received the broadcast event")
		}
		break
	}

	var event port.Event
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, port.EventCompleted, event.Type)
	assert.Equal(t, id, event.PrescriptionID)
	assert.Equal(t, domain.StatusCompleted, event.Status)
}

func TestHubBroadcastNeverBlocksWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	// No Run loop draining events: Broadcast must still return.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Broadcast(port.Event{Type: port.EventUpdated, PrescriptionID: uuid.New()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked")
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	// Give the registration a moment to land, then shut down.
	time.Sleep(50 * time.Millisecond)
	cancel()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHubConnectAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	server := httptest.NewServer(http.HandlerFunc(hub.HandleUpgrade))
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	// The upgrade still succeeds but the hub refuses the registration and
	// closes the connection instead of parking the handler goroutine.
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, readErr := conn.ReadMessage()
	assert.Error(t, readErr)
}

func TestHubDisconnectAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	conn, cleanup := dialHub(t, hub)
	defer cleanup()
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-stopped

	// Closing the client drives readPump's unregister path with nobody
	// draining the channel; it must still return promptly.
	_ = conn.Close()

	done := make(chan struct{})
	go func() {
		c := &client{conn: nil, send: make(chan []byte, 1)}
		select {
		case hub.unregister <- c:
		case <-hub.done:
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after shutdown")
	}
}
