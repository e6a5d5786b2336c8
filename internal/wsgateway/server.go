/* SPDX-License-Identifier: GPL-3.0-or-later
 *
 * QAnotherRTSP
 * Copyright (C) 2025 e1z0 <e1z0@icloud.com>
 *
 * This file is part of QAnotherRTSP.
 *
 * QAnotherRTSP is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * QAnotherRTSP is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with QAnotherRTSP.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package wsgateway is the WebSocket ingress endpoint: it upgrades an
// incoming HTTP request, parses the url/width/height query parameters,
// and hands a connection-backed pipeline.Sink to the per-session
// orchestrator, draining and discarding client frames while a ping
// ticker keeps the connection alive.
package wsgateway

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/e1z0/mediagw/internal/gwlog"
	"github.com/e1z0/mediagw/internal/pipeline"
	"github.com/e1z0/mediagw/internal/ytdl"
)

// pingInterval is how often the gateway pings an idle connection to keep
// it alive. This loop is deliberately not part of the core's testable
// surface; it only guards a live network connection.
const pingInterval = 30 * time.Second

const pongWait = pingInterval + 10*time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 65536,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// connSink adapts a *websocket.Conn to pipeline.Sink. writes are confined
// to one goroutine (the session's egress task), so no locking is needed
// beyond what gorilla/websocket itself requires per connection.
type connSink struct {
	conn *websocket.Conn
}

func (s *connSink) Send(data []byte) error {
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *connSink) Close(reason string) {
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
		time.Now().Add(time.Second),
	)
	_ = s.conn.Close()
}

// Handler serves the ingress endpoint: GET with query parameters url,
// width, height; upgrades to a WebSocket and runs one pipeline session
// per connection until it ends.
func Handler(resolver pipeline.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawURL := r.URL.Query().Get("url")
		width, werr := strconv.Atoi(r.URL.Query().Get("width"))
		height, herr := strconv.Atoi(r.URL.Query().Get("height"))
		if rawURL == "" || werr != nil || herr != nil || width <= 0 || height <= 0 {
			http.Error(w, "expected query parameters url, width>0, height>0", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			gwlog.Warnf("wsgateway: upgrade failed: %v", err)
			return
		}

		sink := &connSink{conn: conn}
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go keepAlive(ctx, conn, cancel)
		drainIncoming(ctx, conn, cancel)

		if err := pipeline.Start(ctx, resolver, rawURL, width, height, sink); err != nil {
			gwlog.Errorf("wsgateway: session for %q ended: %v", rawURL, err)
		}
	}
}

// NewYtDlpHandler is a convenience constructor wiring the production
// yt-dlp-backed resolver (internal/ytdl) into Handler.
func NewYtDlpHandler() http.HandlerFunc {
	return Handler(ytdl.Resolver{})
}

// drainIncoming reads and discards every client-sent frame (pong replies,
// close frames) on its own goroutine; a WebSocket connection that is
// never read from will never observe a close or error. It cancels ctx
// once the connection reports an error so the session's worker and
// egress task both stop promptly.
func drainIncoming(ctx context.Context, conn *websocket.Conn, cancel func()) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func keepAlive(ctx context.Context, conn *websocket.Conn, cancel func()) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				cancel()
				return
			}
		}
	}
}
