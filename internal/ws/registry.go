// File: internal/ws/registry.go
package ws

import "sync"

// Registry is an explicit room-membership table, decoupled from the
// transport's own bookkeeping so the broadcast engine is testable without
// real sockets. Reads tolerate a few milliseconds of staleness; nothing
// consistency-critical hangs off a presence snapshot.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Client // room -> client id -> client
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[string]*Client)}
}

// Join adds client to room. Idempotent.
func (r *Registry) Join(room string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]*Client)
	}
	r.rooms[room][client.ID] = client
}

// Leave removes client from room, reporting whether it was present. Empty
// rooms are dropped.
func (r *Registry) Leave(room string, client *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, present := clients[client.ID]; !present {
		return false
	}
	delete(clients, client.ID)
	if len(clients) == 0 {
		delete(r.rooms, room)
	}
	return true
}

// LeaveAll removes client from every room and returns the rooms it was in.
func (r *Registry) LeaveAll(client *Client) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var left []string
	for room, clients := range r.rooms {
		if _, present := clients[client.ID]; present {
			delete(clients, client.ID)
			left = append(left, room)
			if len(clients) == 0 {
				delete(r.rooms, room)
			}
		}
	}
	return left
}

// Contains reports whether client is currently in room.
func (r *Registry) Contains(room string, client *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, present := r.rooms[room][client.ID]
	return present
}

// Clients returns a snapshot of room's occupants.
func (r *Registry) Clients(room string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.rooms[room]))
	for _, c := range r.rooms[room] {
		clients = append(clients, c)
	}
	return clients
}

// UserIDs returns the de-duplicated user ids of room's occupants. One user
// may hold several connections.
func (r *Registry) UserIDs(room string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int]bool)
	ids := make([]int, 0, len(r.rooms[room]))
	for _, c := range r.rooms[room] {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}
	return ids
}
