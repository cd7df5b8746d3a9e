package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

const requestSubjectPrefix = "relay."

// wire message types for the request/event/eose exchange.
const (
	msgTypeEvent = "event"
	msgTypeEOSE  = "eose"
)

type queryRequest struct {
	Filter Filter `json:"filter"`
	Inbox  string `json:"inbox"`
}

type wireMessage struct {
	Type  string           `json:"type"`
	Event *models.RawEvent `json:"event,omitempty"`
}

func requestSubject(name string) string {
	return requestSubjectPrefix + name + ".req"
}

// NATSRelay is a relay client speaking a REQ/event/EOSE exchange over NATS.
// A query publishes a request carrying a private inbox subject; the relay
// streams matching events to the inbox and terminates the stream with an
// EOSE marker.
type NATSRelay struct {
	conn *nats.Conn
	name string
}

// NewNATSRelay creates a client for the named relay on an existing
// connection. The connection is shared and not owned by the client.
func NewNATSRelay(conn *nats.Conn, name string) *NATSRelay {
	return &NATSRelay{conn: conn, name: name}
}

// Name returns the relay's name.
func (r *NATSRelay) Name() string {
	return r.name
}

// Query implements Client. Events that arrived before ctx expired are
// returned alongside the context error, so a timed-out query still
// contributes its partial results.
func (r *NATSRelay) Query(ctx context.Context, f Filter) ([]models.RawEvent, error) {
	inbox := nats.NewInbox()
	sub, err := r.conn.SubscribeSync(inbox)
	if err != nil {
		return nil, fmt.Errorf("subscribe inbox: %w", err)
	}
	defer sub.Unsubscribe()

	req, err := json.Marshal(queryRequest{Filter: f, Inbox: inbox})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	if err := r.conn.Publish(requestSubject(r.name), req); err != nil {
		return nil, fmt.Errorf("publish query: %w", err)
	}

	var events []models.RawEvent
	for {
		msg, err := sub.NextMsgWithContext(ctx)
		if err != nil {
			return events, err
		}

		var wm wireMessage
		if err := json.Unmarshal(msg.Data, &wm); err != nil {
			// Malformed relay responses are tolerated, not fatal.
			continue
		}

		switch wm.Type {
		case msgTypeEOSE:
			return events, nil
		case msgTypeEvent:
			if wm.Event != nil {
				events = append(events, *wm.Event)
			}
		}

		if f.Limit > 0 && len(events) >= f.Limit {
			return events, nil
		}
	}
}
