// Package handler runs the channel hub: clients subscribe to named
// channels and every message published on a channel fans out to its
// subscribers. The settlement publisher is just another client.
package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go-stakehouse/internal/event"
	"go-stakehouse/internal/lib/logger/sl"
	"golang.org/x/exp/slog"
)

type Subscription struct {
	Conn    *websocket.Conn
	Channel string
}

type Hub struct {
	Channels    map[string]map[*websocket.Conn]bool
	Broadcast   chan event.Message
	Subscribe   chan Subscription
	Unsubscribe chan *websocket.Conn
	log         *slog.Logger
	mutex       sync.RWMutex
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		Channels:    make(map[string]map[*websocket.Conn]bool),
		Broadcast:   make(chan event.Message),
		Subscribe:   make(chan Subscription),
		Unsubscribe: make(chan *websocket.Conn),
		log:         log,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (hub *Hub) run() {
	for {
		select {
		case sub := <-hub.Subscribe:
			hub.mutex.Lock()
			if hub.Channels[sub.Channel] == nil {
				hub.Channels[sub.Channel] = make(map[*websocket.Conn]bool)
			}
			hub.Channels[sub.Channel][sub.Conn] = true
			hub.mutex.Unlock()

		case conn := <-hub.Unsubscribe:
			hub.mutex.Lock()
			for channel, receivers := range hub.Channels {
				delete(receivers, conn)
				if len(receivers) == 0 {
					delete(hub.Channels, channel)
				}
			}
			hub.mutex.Unlock()

		case message := <-hub.Broadcast:
			hub.mutex.RLock()
			receivers, ok := hub.Channels[message.Channel]
			hub.mutex.RUnlock()

			if !ok {
				continue
			}

			data, err := json.Marshal(message)
			if err != nil {
				hub.log.Error("failed to marshal message", sl.Err(err))

				continue
			}

			hub.log.Debug("broadcasting message",
				sl.String("channel", message.Channel),
				sl.String("event", message.Event),
			)

			for conn := range receivers {
				if err = conn.WriteMessage(websocket.TextMessage, data); err != nil {
					hub.log.Error("failed to write message", sl.Err(err))
				}
			}
		}
	}
}

func (hub *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error("failed to upgrade connection", sl.Err(err))

		return
	}
	defer func() {
		hub.Unsubscribe <- ws

		if err = ws.Close(); err != nil {
			hub.log.Error("failed to close connection", sl.Err(err))
		}
	}()

	for {
		_, p, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var message event.Message

		if err = json.Unmarshal(p, &message); err != nil {
			hub.log.Error("failed to unmarshal message", sl.Err(err))

			continue
		}

		hub.log.Debug("incoming message",
			sl.String("channel", message.Channel),
			sl.String("event", message.Event),
		)

		// A bare channel name with no event is a subscription request;
		// anything else is published to the channel's subscribers.
		if message.Event == "" {
			hub.Subscribe <- Subscription{Conn: ws, Channel: message.Channel}

			continue
		}

		hub.Broadcast <- message
	}
}

func (hub *Hub) RunServer() {
	go hub.run()
}
