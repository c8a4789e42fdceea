// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pdiddy/nexus/internal/view"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type wsInbound struct {
	Type string `json:"type"`
}

type wsOutbound struct {
	Type    string     `json:"type"`
	Surface string     `json:"surface,omitempty"`
	Phase   view.Phase `json:"phase"`
	Error   string     `json:"error,omitempty"`
}

func eventOut(ev view.Event) wsOutbound {
	return wsOutbound{Type: "state", Surface: ev.Surface, Phase: ev.Phase, Error: ev.Error}
}

// handleWS streams surface transitions. The current state of both
// surfaces is sent on connect.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		s.logger.Warn("websocket set read deadline failed", "error", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	searchEvents, stopSearch := s.search.Subscribe()
	defer stopSearch()
	simEvents, stopSim := s.simulation.Subscribe()
	defer stopSim()

	writeCh := make(chan wsOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	search := s.search.Snapshot()
	pushWS(writeCh, wsOutbound{Type: "state", Surface: view.SurfaceSearch, Phase: search.Phase, Error: search.Message})
	sim := s.simulation.Snapshot()
	pushWS(writeCh, wsOutbound{Type: "state", Surface: view.SurfaceSimulation, Phase: sim.Phase, Error: sim.Message})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-searchEvents:
				if !ok {
					return
				}
				pushWS(writeCh, eventOut(ev))
			case ev, ok := <-simEvents:
				if !ok {
					return
				}
				pushWS(writeCh, eventOut(ev))
			}
		}
	}()

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushWS(writeCh, wsOutbound{Type: "pong"})
		default:
			pushWS(writeCh, wsOutbound{Type: "error", Error: "unsupported type: " + in.Type})
		}
	}
}

// pushWS queues out, dropping the oldest queued message when full.
func pushWS(writeCh chan wsOutbound, out wsOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
