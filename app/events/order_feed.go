// Package events bridges the in-process event dispatcher to the WebSocket
// order feed the admin dashboard subscribes to.
package events

import (
	"encoding/json"
	"net/http"

	"github.com/andreimonforte/malocozz/pkg/event"
	"github.com/andreimonforte/malocozz/pkg/logger"
	"github.com/andreimonforte/malocozz/pkg/ws"
)

// OrderFeed pushes order lifecycle events to every connected dashboard.
type OrderFeed struct {
	hub *ws.Hub
}

// NewOrderFeed starts the hub and subscribes to the order events the
// services fire.
func NewOrderFeed() *OrderFeed {
	f := &OrderFeed{hub: ws.NewHub()}
	go f.hub.Run()

	event.Listen("order.placed", f.forward("order.placed"))
	event.Listen("order.updated", f.forward("order.updated"))
	return f
}

func (f *OrderFeed) forward(name string) event.Handler {
	return func(payload interface{}) {
		msg, err := json.Marshal(map[string]interface{}{
			"event": name,
			"data":  payload,
		})
		if err != nil {
			logger.Error("order feed: marshal", "event", name, "error", err)
			return
		}
		f.hub.Broadcast <- msg
	}
}

// Handler upgrades the connection and attaches it to the feed.
func (f *OrderFeed) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, f.hub)
	}
}
