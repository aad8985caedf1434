package hub

import (
	"context"
	"testing"
	"time"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := New("test")
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

// attach registers a connection-less client.
func attach(h *Hub, buffer int, kinds ...string) *Client {
	c := &Client{hub: h, send: make(chan Message, buffer)}
	for _, k := range kinds {
		if c.kinds == nil {
			c.kinds = make(map[string]bool)
		}
		c.kinds[k] = true
	}
	h.register <- c
	return c
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case m, ok := <-c.send:
		if !ok {
			t.Fatal("client channel closed")
		}
		return m
	case <-time.After(time.Second):
		t.Fatal("no message")
	}
	return Message{}
}

func TestBroadcastReachesClients(t *testing.T) {
	h, _ := startHub(t)
	a := attach(h, 4)
	b := attach(h, 4)

	if err := h.BroadcastJSON("pattern", map[string]string{"to": "hour"}); err != nil {
		t.Fatalf("BroadcastJSON() error = %v", err)
	}

	for _, c := range []*Client{a, b} {
		m := receive(t, c)
		if m.Kind != "pattern" || string(m.Data) != `{"to":"hour"}` {
			t.Errorf("message = %s %s", m.Kind, m.Data)
		}
	}
	if h.ClientCount() != 2 {
		t.Errorf("ClientCount = %d, want 2", h.ClientCount())
	}
}

func TestKindFilter(t *testing.T) {
	h, _ := startHub(t)
	crossings := attach(h, 4, "crossing")

	h.Broadcast(NewJSONMessage("pattern", []byte(`1`)))
	h.Broadcast(NewJSONMessage("crossing", []byte(`2`)))
	h.Broadcast(NewJSONMessage("", []byte(`3`)))

	if m := receive(t, crossings); string(m.Data) != "2" {
		t.Errorf("first message = %s, want 2", m.Data)
	}
	if m := receive(t, crossings); string(m.Data) != "3" {
		t.Errorf("second message = %s, want 3", m.Data)
	}
}

func TestSlowClientDropped(t *testing.T) {
	h, _ := startHub(t)
	slow := attach(h, 1)

	h.Broadcast(NewJSONMessage("", []byte(`1`)))
	h.Broadcast(NewJSONMessage("", []byte(`2`)))

	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.ClientCount() != 0 {
		t.Fatal("slow client should have been dropped")
	}

	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Error("slow client channel should be closed")
	}
}

func TestUnregister(t *testing.T) {
	h, _ := startHub(t)
	c := attach(h, 1)
	h.unregister <- c

	if _, ok := <-c.send; ok {
		t.Error("unregistered client channel should be closed")
	}
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", h.ClientCount())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h, cancel := startHub(t)
	c := attach(h, 1)

	if !h.IsRunning() {
		t.Error("hub should be running")
	}
	cancel()

	select {
	case <-h.done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel should be closed on shutdown")
	}
	if h.IsRunning() {
		t.Error("hub should not be running")
	}
}

func TestBroadcastJSONError(t *testing.T) {
	h := New("test")
	if err := h.BroadcastJSON("bad", make(chan int)); err == nil {
		t.Error("BroadcastJSON should fail for unmarshalable values")
	}
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := New("idle")
	for i := 0; i < cap(h.broadcast)+3; i++ {
		h.Broadcast(NewJSONMessage("", nil))
	}
	if h.Dropped() != 3 {
		t.Errorf("Dropped = %d, want 3", h.Dropped())
	}
}
