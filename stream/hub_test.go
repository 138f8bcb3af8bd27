package stream

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/bounce/engine"
	"github.com/lixenwraith/bounce/vmath"
)

func dial(t *testing.T, srvURL string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srvURL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// readUntilStep reads snapshots until one with the given step arrives
func readUntilStep(t *testing.T, conn *websocket.Conn, step uint64) engine.Snapshot {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("failed to read snapshot %d: %v", step, err)
		}
		var snap engine.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			t.Fatalf("failed to decode snapshot: %v", err)
		}
		if snap.Step == step {
			return snap
		}
	}
}

func testSnapshot(step uint64) engine.Snapshot {
	return engine.Snapshot{
		Step:    step,
		Elapsed: float64(step) * 0.01,
		Bodies: []engine.BodyView{{
			ID:       7,
			Position: vmath.V2(100, 200),
			Velocity: vmath.V2(-3, 4),
			Radius:   10,
			Tag:      "#F16745",
		}},
		Boundaries: []engine.BoundaryView{{Normal: vmath.V2(1, 0), Limit: 1000}},
	}
}

func TestHubSendsLatestOnConnect(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)

	if err := hub.Broadcast(testSnapshot(1)); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	conn := dial(t, srv.URL)
	snap := readUntilStep(t, conn, 1)

	if len(snap.Bodies) != 1 || snap.Bodies[0].ID != 7 {
		t.Fatalf("Expected body 7, got %+v", snap.Bodies)
	}
	if snap.Bodies[0].Velocity != vmath.V2(-3, 4) || snap.Bodies[0].Tag != "#F16745" {
		t.Errorf("Unexpected body view %+v", snap.Bodies[0])
	}
	if len(snap.Boundaries) != 1 || snap.Boundaries[0].Limit != 1000 {
		t.Errorf("Unexpected boundaries %+v", snap.Boundaries)
	}
}

func TestHubBroadcastAndDisconnect(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)

	first := dial(t, srv.URL)
	second := dial(t, srv.URL)
	waitFor(t, "two viewers", func() bool { return hub.Clients() == 2 })

	if err := hub.Broadcast(testSnapshot(5)); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	readUntilStep(t, first, 5)
	readUntilStep(t, second, 5)

	first.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	first.Close()
	waitFor(t, "one viewer", func() bool { return hub.Clients() == 1 })

	if err := hub.Broadcast(testSnapshot(6)); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	readUntilStep(t, second, 6)
}

func TestHubClose(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	conn := dial(t, srv.URL)
	waitFor(t, "viewer", func() bool { return hub.Clients() == 1 })

	hub.Close()
	if hub.Clients() != 0 {
		t.Errorf("Expected no viewers after close, got %d", hub.Clients())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Errorf("Expected normal closure, got %v", err)
			}
			break
		}
	}

	if err := hub.Broadcast(testSnapshot(1)); !errors.Is(err, ErrHubClosed) {
		t.Errorf("Expected ErrHubClosed, got %v", err)
	}
}
