package wm

import (
	"time"

	"github.com/footron/foowm/internal/platform"
	"github.com/footron/foowm/internal/policy"
)

// Client is one managed top-level window.
type Client struct {
	// Target is the client's own window; Wrapper is the window the manager
	// created around it. They share a lifetime.
	Target  platform.WindowID
	Wrapper platform.WindowID

	// Geometry is the authoritative rectangle. Desired is what the client
	// last asked for, either by a configure request or its size hints.
	Geometry platform.Rect
	Desired  platform.Rect

	Title    string
	Type     policy.ClientType
	Floating bool

	CreatedAt time.Time

	// IgnoreUnmaps counts unmap events caused by the manager itself that
	// must not be treated as the client going away.
	IgnoreUnmaps int

	// InViewport is set while the wrapper is a child of the experience
	// viewport rather than the root.
	InViewport bool
}

// Registry tracks managed clients, their wrappers, and the placard and
// loader roles. It is owned by the event loop and is not safe for
// concurrent use.
type Registry struct {
	clients  map[platform.WindowID]*Client
	order    []platform.WindowID
	wrappers map[platform.WindowID]platform.WindowID
	placard  *Client
	loader   *Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients:  make(map[platform.WindowID]*Client),
		wrappers: make(map[platform.WindowID]platform.WindowID),
	}
}

// Add inserts c, keyed by its target window.
func (r *Registry) Add(c *Client) {
	if _, exists := r.clients[c.Target]; !exists {
		r.order = append(r.order, c.Target)
	}
	r.clients[c.Target] = c
	r.wrappers[c.Wrapper] = c.Target
}

// TrackWrapper records w as a manager-owned wrapper before its client is
// fully constructed.
func (r *Registry) TrackWrapper(w platform.WindowID) {
	if _, ok := r.wrappers[w]; !ok {
		r.wrappers[w] = 0
	}
}

// UntrackWrapper forgets a wrapper that never became part of a client.
func (r *Registry) UntrackWrapper(w platform.WindowID) {
	delete(r.wrappers, w)
}

// Remove deletes the client for target and drops any role it held.
func (r *Registry) Remove(target platform.WindowID) (*Client, bool) {
	c, ok := r.clients[target]
	if !ok {
		return nil, false
	}
	delete(r.clients, target)
	delete(r.wrappers, c.Wrapper)
	for i, id := range r.order {
		if id == target {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.ClearRole(c)
	return c, true
}

// Get returns the client managing target.
func (r *Registry) Get(target platform.WindowID) (*Client, bool) {
	c, ok := r.clients[target]
	return c, ok
}

// IsWrapper reports whether w is a manager-owned wrapper window.
func (r *Registry) IsWrapper(w platform.WindowID) bool {
	_, ok := r.wrappers[w]
	return ok
}

// Clients returns every client in the order it was managed.
func (r *Registry) Clients() []*Client {
	out := make([]*Client, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.clients[id])
	}
	return out
}

// Targets returns the target window of every client in managed order.
func (r *Registry) Targets() []platform.WindowID {
	out := make([]platform.WindowID, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of managed clients.
func (r *Registry) Len() int {
	return len(r.clients)
}

// Placard returns the tracked placard, if any.
func (r *Registry) Placard() *Client {
	return r.placard
}

// Loader returns the tracked loader, if any.
func (r *Registry) Loader() *Client {
	return r.loader
}

// SetRole makes c the tracked placard or loader according to its type.
// The most recent client wins; a previous holder keeps its type but is no
// longer tracked.
func (r *Registry) SetRole(c *Client) {
	switch c.Type {
	case policy.TypePlacard:
		r.placard = c
	case policy.TypeLoader:
		r.loader = c
	}
}

// ClearRole drops whichever role c currently holds.
func (r *Registry) ClearRole(c *Client) {
	if r.placard == c {
		r.placard = nil
	}
	if r.loader == c {
		r.loader = nil
	}
}
