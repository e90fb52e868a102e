// Package event pushes settlement messages to the websocket hub and
// adapts the ledger's Reporter hook onto that transport.
package event

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go-stakehouse/internal/lib/logger/sl"
	"golang.org/x/exp/slog"
)

type Message struct {
	Channel string                 `json:"channel"`
	Event   string                 `json:"event"`
	Data    map[string]interface{} `json:"data"`
}

// Publisher writes messages to one hub connection. Writes are
// serialized; gorilla connections allow a single concurrent writer.
type Publisher struct {
	log  *slog.Logger
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewPublisher(log *slog.Logger, conn *websocket.Conn) *Publisher {
	return &Publisher{
		log:  log,
		conn: conn,
	}
}

func (p *Publisher) TriggerEvent(m Message) error {
	const op = "event.Publisher.TriggerEvent"

	msg, err := json.Marshal(m)
	if err != nil {
		p.log.Error("failed to marshal message", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err = p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		p.log.Error("failed to trigger event", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Debug("event triggered",
		sl.String("channel", m.Channel),
		sl.String("event", m.Event),
	)

	return nil
}
