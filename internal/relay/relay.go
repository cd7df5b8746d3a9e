// Package relay defines the capability interface the pipeline uses to talk
// to workout-event relays, together with a NATS-backed implementation of
// both sides of the exchange. No single relay is authoritative; any client
// satisfying the interface is interchangeable.
package relay

import (
	"context"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
)

// Filter selects events from a relay. Zero fields are unset. Since and
// Until are inclusive unix-second bounds on the event's created_at.
type Filter struct {
	Kinds   []int    `json:"kinds,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Since   int64    `json:"since,omitempty"`
	Until   int64    `json:"until,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// Matches reports whether the event satisfies the filter, ignoring Limit.
func (f Filter) Matches(ev *models.RawEvent) bool {
	if len(f.Kinds) > 0 {
		found := false
		for _, k := range f.Kinds {
			if ev.Kind == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Authors) > 0 {
		found := false
		for _, a := range f.Authors {
			if ev.Pubkey == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Since > 0 && ev.CreatedAt < f.Since {
		return false
	}
	if f.Until > 0 && ev.CreatedAt > f.Until {
		return false
	}
	return true
}

// Client is a capability handle to one relay. Query streams matching events
// until the relay signals end-of-stream, the limit is reached, or ctx is
// done. On abnormal termination the events received so far are returned
// together with the error; a timeout is a normal way for a query with more
// data than time to end, and its partial results are still usable.
type Client interface {
	Name() string
	Query(ctx context.Context, f Filter) ([]models.RawEvent, error)
}
