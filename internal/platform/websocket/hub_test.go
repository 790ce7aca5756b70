package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(id string, topics ...string) *Client {
	return &Client{
		ID:     id,
		Topics: topics,
		Send:   make(chan []byte, 256),
	}
}

func TestHub_RegisterClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient("client-1", "queue")

	hub.Register(client)

	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.ClientCount())
	}
	if hub.TopicCount("queue") != 1 {
		t.Fatalf("expected 1 client on queue, got %d", hub.TopicCount("queue"))
	}
}

func TestHub_UnregisterClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient("client-1", "queue")

	hub.Register(client)
	hub.Unregister(client)

	if hub.ClientCount() != 0 {
		t.Fatalf("expected 0 clients, got %d", hub.ClientCount())
	}
	if hub.TopicCount("queue") != 0 {
		t.Fatalf("expected 0 clients on queue, got %d", hub.TopicCount("queue"))
	}
	if _, open := <-client.Send; open {
		t.Error("expected Send channel to be closed")
	}

	// Unregistering twice must not panic or double-close.
	hub.Unregister(client)
}

func TestHub_BroadcastToTopic(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	subscribed := newTestClient("client-1", "queue")
	other := newTestClient("client-2", "patient:abc")
	hub.Register(subscribed)
	hub.Register(other)

	hub.Broadcast("queue", Event{
		Type:      "queue.updated",
		Topic:     "queue",
		Timestamp: time.Now(),
		Data:      json.RawMessage(`{"total":0}`),
	})

	select {
	case raw := <-subscribed.Send:
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("invalid event payload: %v", err)
		}
		if ev.Type != "queue.updated" || ev.Topic != "queue" {
			t.Errorf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("subscribed client received nothing")
	}

	select {
	case <-other.Send:
		t.Fatal("client on another topic received the event")
	default:
	}
}

func TestHub_BroadcastSkipsFullBuffers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	slow := &Client{ID: "slow", Topics: []string{"queue"}, Send: make(chan []byte, 1)}
	hub.Register(slow)

	// Fill the buffer, then broadcast twice more; the hub must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			hub.Broadcast("queue", Event{Type: "queue.updated", Topic: "queue"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client buffer")
	}
}

func TestHub_SubscribeUnsubscribe(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient("client-1")
	hub.Register(client)

	hub.ProcessMessage(client, ClientMessage{Action: "subscribe", Topics: []string{"queue", "patient:abc"}})
	if hub.TopicCount("queue") != 1 || hub.TopicCount("patient:abc") != 1 {
		t.Fatal("expected client subscribed to both topics")
	}

	hub.ProcessMessage(client, ClientMessage{Action: "unsubscribe", Topics: []string{"queue"}})
	if hub.TopicCount("queue") != 0 {
		t.Error("expected client removed from queue topic")
	}
	if hub.TopicCount("patient:abc") != 1 {
		t.Error("expected remaining subscription to survive")
	}
	if len(client.Topics) != 1 || client.Topics[0] != "patient:abc" {
		t.Errorf("expected client topics [patient:abc], got %v", client.Topics)
	}
}

func TestHub_ProcessMessageIgnoresUnknownAction(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestClient("client-1")
	hub.Register(client)

	hub.ProcessMessage(client, ClientMessage{Action: "ping", Topics: []string{"queue"}})
	if hub.TopicCount("queue") != 0 {
		t.Error("unknown action must not change subscriptions")
	}
}

func TestSplitTopics(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"queue", []string{"queue"}},
		{"queue, patient:abc", []string{"queue", "patient:abc"}},
		{" , queue , ", []string{"queue"}},
	}

	for _, tt := range tests {
		got := splitTopics(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("splitTopics(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("splitTopics(%q) = %v, want %v", tt.raw, got, tt.want)
				break
			}
		}
	}
}
