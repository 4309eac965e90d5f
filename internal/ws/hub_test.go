package ws

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeConn struct {
	received chan []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{received: make(chan []byte, 8)}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.received <- data
	return nil
}

func (c *fakeConn) Close() error { return nil }

func newTestHub() *Hub {
	log := logrus.New()
	log.SetOutput(io.Discard)
	hub := NewHub(log)
	go hub.Run()
	return hub
}

func next(t *testing.T, name string, conn *fakeConn) Event {
	t.Helper()
	select {
	case raw := <-conn.received:
		var got Event
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		return got
	case <-time.After(time.Second):
		t.Fatalf("%s: no event delivered", name)
	}
	return Event{}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEventsStayWithinStore(t *testing.T) {
	hub := newTestHub()

	storeA, storeB, super := newFakeConn(), newFakeConn(), newFakeConn()
	hub.Register <- &Client{Conn: storeA, StoreID: "store-a"}
	hub.Register <- &Client{Conn: storeB, StoreID: "store-b"}
	hub.Register <- &Client{Conn: super, AllStores: true}
	waitForClients(t, hub, 3)

	hub.Publish(Event{Type: "stock_update", Action: "stock_received", StoreID: "store-b", Message: "received"})
	if got := next(t, "store b", storeB); got.StoreID != "store-b" {
		t.Fatalf("unexpected event %+v", got)
	}
	if got := next(t, "super admin", super); got.StoreID != "store-b" {
		t.Fatalf("unexpected event %+v", got)
	}

	// Messages are fanned out one at a time, so store A's first delivery
	// shows whether it saw store B's event.
	hub.Publish(Event{Type: "stock_update", Action: "stock_issued", StoreID: "store-a", Message: "issued"})
	if got := next(t, "store a", storeA); got.StoreID != "store-a" || got.Action != "stock_issued" {
		t.Fatalf("store a received another store's event: %+v", got)
	}
}

func TestEventWithoutStoreOnlyReachesAllStoreClients(t *testing.T) {
	c := &Client{StoreID: "store-a"}
	if c.wants("") {
		t.Fatalf("store client must not receive unscoped events")
	}
	if !(&Client{AllStores: true}).wants("") {
		t.Fatalf("all-store client should receive every event")
	}
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub := newTestHub()
	client := &Client{Conn: newFakeConn(), StoreID: "store-a"}
	hub.Register <- client
	waitForClients(t, hub, 1)
	hub.Unregister <- client
	waitForClients(t, hub, 0)
}
