// Package hub fans newly ingested log entries out to live viewer
// connections. Delivery is fire-and-forget: no acknowledgement, no retry,
// and no replay for peers that connect later.
package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/logpulse/logpulse/internal/model"
)

// EnvelopeTypeNewLog tags broadcast envelopes carrying a freshly stored entry.
const EnvelopeTypeNewLog = "new-log"

// Peer is a live bidirectional connection the hub can push to.
type Peer interface {
	ID() string
	Send(data []byte) error
}

// Envelope is the tagged wrapper sent over the real-time channel.
type Envelope struct {
	Type string          `json:"type"`
	Data *model.LogEntry `json:"data"`
}

// Hub is the registry of connected peers. The peer set is guarded by a
// mutex; sends happen outside the lock so one slow peer cannot stall
// registration churn.
type Hub struct {
	mu    sync.Mutex
	peers map[Peer]struct{}
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{peers: make(map[Peer]struct{})}
}

// Add registers a peer for future broadcasts.
func (h *Hub) Add(p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p] = struct{}{}
}

// Remove deregisters a peer. Removing an unknown peer is a no-op.
func (h *Hub) Remove(p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, p)
}

// Count returns the number of registered peers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Broadcast serializes entry into a new-log envelope and delivers it to
// every registered peer. A peer whose send fails is dropped from the
// registry; failures never propagate to the caller.
func (h *Hub) Broadcast(entry *model.LogEntry) {
	payload, err := json.Marshal(Envelope{Type: EnvelopeTypeNewLog, Data: entry})
	if err != nil {
		log.Printf("hub: marshal broadcast envelope: %v", err)
		return
	}

	h.mu.Lock()
	peers := make([]Peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		if err := p.Send(payload); err != nil {
			log.Printf("hub: send to peer %s failed, dropping: %v", p.ID(), err)
			h.Remove(p)
		}
	}
}
