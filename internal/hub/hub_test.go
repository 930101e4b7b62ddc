package hub

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/logpulse/logpulse/internal/model"
)

// fakePeer records everything sent to it and can be made to fail.
type fakePeer struct {
	id   string
	mu   sync.Mutex
	sent [][]byte
	fail bool
}

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) Send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("connection gone")
	}
	p.sent = append(p.sent, data)
	return nil
}

func (p *fakePeer) received() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func TestBroadcast_DeliversEnvelopeToAllPeers(t *testing.T) {
	h := New()
	a := &fakePeer{id: "a"}
	b := &fakePeer{id: "b"}
	h.Add(a)
	h.Add(b)

	entry := &model.LogEntry{ID: 7, Message: "boom", Level: "ERROR", Timestamp: 1700000000000}
	h.Broadcast(entry)

	for _, p := range []*fakePeer{a, b} {
		if got := p.received(); got != 1 {
			t.Fatalf("peer %s received %d messages, want 1", p.id, got)
		}
		var env Envelope
		if err := json.Unmarshal(p.sent[0], &env); err != nil {
			t.Fatalf("peer %s envelope unmarshal: %v", p.id, err)
		}
		if env.Type != EnvelopeTypeNewLog {
			t.Errorf("envelope type = %q, want %q", env.Type, EnvelopeTypeNewLog)
		}
		if env.Data == nil || env.Data.ID != 7 || env.Data.Message != "boom" {
			t.Errorf("envelope data = %+v, want stored entry", env.Data)
		}
	}
}

func TestBroadcast_FailingPeerIsDroppedOthersStillDelivered(t *testing.T) {
	h := New()
	bad := &fakePeer{id: "bad", fail: true}
	good := &fakePeer{id: "good"}
	h.Add(bad)
	h.Add(good)

	h.Broadcast(&model.LogEntry{ID: 1, Message: "one"})

	if got := good.received(); got != 1 {
		t.Errorf("good peer received %d, want 1", got)
	}
	if got := h.Count(); got != 1 {
		t.Errorf("Count after failed send = %d, want 1", got)
	}

	// Dropped peer gets nothing further.
	h.Broadcast(&model.LogEntry{ID: 2, Message: "two"})
	if got := good.received(); got != 2 {
		t.Errorf("good peer received %d, want 2", got)
	}
}

func TestRemove_UnknownPeerIsNoop(t *testing.T) {
	h := New()
	h.Remove(&fakePeer{id: "ghost"})
	if got := h.Count(); got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
}

func TestHub_ConcurrentChurnAndBroadcast(t *testing.T) {
	h := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			p := &fakePeer{id: "p"}
			h.Add(p)
			h.Broadcast(&model.LogEntry{ID: int64(n), Message: "churn"})
			h.Remove(p)
		}(i)
	}
	wg.Wait()

	if got := h.Count(); got != 0 {
		t.Errorf("Count after churn = %d, want 0", got)
	}
}
