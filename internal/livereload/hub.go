// Package livereload pushes rebuild notifications to browsers over socket.io,
// the transport browser-sync speaks, and provides the snippet the dev server
// injects into every served page.
package livereload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/notify"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/zishang520/socket.io/v2/socket"
)

// Path is the URL prefix the hub is mounted under.
const Path = "/socket.io/"

// Browser-side event names.
const (
	EventReload = "reload"
	EventError  = "build-error"
)

// Hub is a socket.io server broadcasting pipeline events. It implements
// notify.Notifier.
type Hub struct {
	server  *socket.Server
	handler http.Handler
	clients atomic.Int32
}

// New creates a hub. The returned hub must be closed.
func New(ctx context.Context) *Hub {
	logger := ctxlog.FromContext(ctx)

	opts := socket.DefaultServerOptions()
	opts.SetServeClient(true)

	h := &Hub{server: socket.NewServer(nil, nil)}
	h.server.On("connection", func(args ...any) {
		client, ok := args[0].(*socket.Socket)
		if !ok {
			return
		}
		h.clients.Add(1)
		logger.Debug("Live-reload client connected.", "sid", client.Id())
		client.On("disconnect", func(...any) {
			h.clients.Add(-1)
			logger.Debug("Live-reload client disconnected.", "sid", client.Id())
		})
	})
	h.handler = h.server.ServeHandler(opts)
	return h
}

// Handler serves the socket.io protocol and client script under Path.
func (h *Hub) Handler() http.Handler { return h.handler }

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int { return int(h.clients.Load()) }

// Notify broadcasts reload requests, build failures and minifier warnings;
// other events are ignored.
func (h *Hub) Notify(ctx context.Context, ev notify.Event) {
	name, ok := eventName(ev)
	if !ok {
		return
	}
	if err := h.Broadcast(name, ev); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to broadcast live-reload event.", "event", name, "error", err)
	}
}

// eventName picks the browser-side event for ev.
func eventName(ev notify.Event) (string, bool) {
	switch ev.Kind {
	case notify.KindReload:
		return EventReload, true
	case notify.KindFailed:
		return EventError, true
	case notify.KindWarning:
		var taskErr *task.Error
		if errors.As(ev.Err, &taskErr) && taskErr.Kind == task.KindMinify {
			return EventError, true
		}
	}
	return "", false
}

// Broadcast sends ev, wrapped as a CloudEvent, to every connected browser.
func (h *Hub) Broadcast(name string, ev notify.Event) error {
	payload, err := envelope(ev)
	if err != nil {
		return err
	}
	h.server.Emit(name, payload)
	return nil
}

// Close disconnects every client and stops the server.
func (h *Hub) Close() {
	h.server.Close(nil)
}

// envelope renders ev in the CloudEvents JSON format as a generic map, which
// the socket.io encoder sends as a plain object.
func envelope(ev notify.Event) (map[string]any, error) {
	ce, err := notify.ToCloudEvent(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to build cloudevent: %w", err)
	}
	raw, err := json.Marshal(ce)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cloudevent: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode cloudevent: %w", err)
	}
	return out, nil
}
