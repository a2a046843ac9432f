package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"HealthPulse/internal/usecase"

	"github.com/gorilla/websocket"
)

func dialViewSocket(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/view"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected upgrade, got %d", resp.StatusCode)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) usecase.Snapshot {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snap usecase.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	return snap
}

func TestViewSocketSendsSnapshotOnConnect(t *testing.T) {
	e, _ := newTestServer(t, &fakeSource{})
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn := dialViewSocket(t, srv)

	snap := readSnapshot(t, conn)
	if snap.State.PrimaryCountry != usecase.GlobalSelector {
		t.Fatalf("unexpected initial snapshot %+v", snap.State)
	}
	if snap.State.Metric != "life_expectancy" {
		t.Fatalf("unexpected initial metric %q", snap.State.Metric)
	}
}

func TestViewSocketStreamsSelectionChanges(t *testing.T) {
	e, view := newTestServer(t, &fakeSource{})
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn := dialViewSocket(t, srv)
	readSnapshot(t, conn) // initial

	view.SetPrimary("BRA")

	// The loading snapshot arrives first, then the loaded one.
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := readSnapshot(t, conn)
		if snap.State.PrimaryCountry == "BRA" && !snap.State.PrimaryLoading {
			if got := snap.Primary["life_expectancy"]; len(got) == 0 || got[0].Value != 70.1 {
				t.Fatalf("unexpected bundle in pushed snapshot %+v", got)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("loaded snapshot never arrived")
		}
	}
}

func TestViewSocketClientClose(t *testing.T) {
	e, view := newTestServer(t, &fakeSource{})
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn := dialViewSocket(t, srv)
	readSnapshot(t, conn)
	_ = conn.Close()

	// The handler must notice the close and unsubscribe; broadcasts after
	// that point go nowhere instead of blocking the controller.
	view.SetPrimary("BRA")
	waitUntilAPI(t, func() bool { return !view.Snapshot().State.PrimaryLoading })
}

func waitUntilAPI(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
