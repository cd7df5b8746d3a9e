package relay

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// Server serves relay queries from an in-memory event store. It backs the
// event seeder and integration tests; production relays are external and
// only need to speak the same request/event/EOSE exchange.
type Server struct {
	conn *nats.Conn
	name string

	mu     sync.RWMutex
	events []models.RawEvent
	byID   map[string]struct{}

	sub *nats.Subscription
}

// NewServer creates a relay server with the given name on an existing
// connection.
func NewServer(conn *nats.Conn, name string) *Server {
	return &Server{
		conn: conn,
		name: name,
		byID: make(map[string]struct{}),
	}
}

// Name returns the relay's name.
func (s *Server) Name() string {
	return s.name
}

// Add stores events, ignoring any whose id is already present. Relays are
// content-addressed, so a second copy of the same event is a no-op.
func (s *Server) Add(events ...models.RawEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		if ev.ID == "" {
			continue
		}
		if _, ok := s.byID[ev.ID]; ok {
			continue
		}
		s.byID[ev.ID] = struct{}{}
		s.events = append(s.events, ev)
	}
}

// Len returns the number of stored events.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Start begins serving queries on the relay's request subject.
func (s *Server) Start() error {
	sub, err := s.conn.Subscribe(requestSubject(s.name), s.handleRequest)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", requestSubject(s.name), err)
	}
	s.sub = sub
	return nil
}

// Stop stops serving queries.
func (s *Server) Stop() {
	if s.sub != nil {
		s.sub.Unsubscribe()
		s.sub = nil
	}
}

func (s *Server) handleRequest(msg *nats.Msg) {
	var req queryRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Inbox == "" {
		return
	}

	matched := s.match(req.Filter)
	for i := range matched {
		data, err := json.Marshal(wireMessage{Type: msgTypeEvent, Event: &matched[i]})
		if err != nil {
			continue
		}
		if err := s.conn.Publish(req.Inbox, data); err != nil {
			return
		}
	}

	eose, _ := json.Marshal(wireMessage{Type: msgTypeEOSE})
	s.conn.Publish(req.Inbox, eose)
}

// match returns matching events, newest first, truncated to the filter's
// limit.
func (s *Server) match(f Filter) []models.RawEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.RawEvent
	for i := range s.events {
		if f.Matches(&s.events[i]) {
			matched = append(matched, s.events[i])
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt > matched[j].CreatedAt
	})

	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched
}
