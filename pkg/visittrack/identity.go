package visittrack

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	visitorIDKey = "visitor_id"
	lastVisitKey = "last_visit"

	// Window mirrors the server-side suppression window. Matching it here
	// avoids pointless requests that the server would refuse anyway.
	Window = 30 * time.Minute
)

// Identity manages the durable visitor ID and the last-visit marker.
type Identity struct {
	store Store
}

// NewIdentity creates an identity bound to the given store.
func NewIdentity(store Store) *Identity {
	return &Identity{store: store}
}

// VisitorID returns the stored visitor ID, creating one on first use. It
// never fails: when the store cannot persist the new ID, a transient ID is
// returned and a fresh one is minted next run.
func (i *Identity) VisitorID() string {
	if id, ok := i.store.Get(visitorIDKey); ok {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	_ = i.store.Set(visitorIDKey, id)
	return id
}

// ShouldRecord reports whether enough time has passed since the last
// recorded visit. Missing or unparsable markers count as "record now".
func (i *Identity) ShouldRecord(now time.Time) bool {
	raw, ok := i.store.Get(lastVisitKey)
	if !ok {
		return true
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	last := time.UnixMilli(millis)
	return now.Sub(last) >= Window
}

// setLastVisit persists the marker as epoch milliseconds.
func (i *Identity) setLastVisit(t time.Time) error {
	return i.store.Set(lastVisitKey, strconv.FormatInt(t.UnixMilli(), 10))
}
