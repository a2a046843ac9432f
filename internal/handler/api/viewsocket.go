package api

import (
	"net/http"
	"time"

	xlogger "HealthPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API is CORS-open; the socket follows suit.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteTimeout = 5 * time.Second
	wsPingInterval = 30 * time.Second
)

// ViewSocket streams view-state snapshots to a dashboard client. The
// current snapshot is sent on connect, then every applied change.
func (h *DashboardHandler) ViewSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	snapshots, cancel := h.view.Subscribe()
	defer cancel()

	// Drain client frames to detect close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.writeSnapshot(conn, h.view.Snapshot()); err != nil {
		return nil
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			if err := h.writeSnapshot(conn, snap); err != nil {
				h.logger.Debug("view socket write failed", xlogger.Error(err))
				return nil
			}
		}
	}
}

func (h *DashboardHandler) writeSnapshot(conn *websocket.Conn, snap interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(snap)
}
