package queue

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/opdq/opdq/internal/domain/patient"
	"github.com/opdq/opdq/internal/platform/websocket"
)

func drain(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case raw := <-ch:
		return raw
	default:
		t.Fatal("expected a delivered event")
		return nil
	}
}

func TestBroadcaster_PublishesQueueSnapshots(t *testing.T) {
	a := makePatient("A", 1, patient.CriticalNormal, patient.StatusWaiting)
	store := &fakeStore{}
	store.set(a)
	listener := &fakeListener{}
	proj := newTestProjection(t, store, listener)

	hub := websocket.NewHub(zerolog.Nop())
	dashboard := &websocket.Client{ID: "dash", Topics: []string{TopicQueue}, Send: make(chan []byte, 16)}
	hub.Register(dashboard)

	detach := NewBroadcaster(hub, zerolog.Nop()).Attach(proj)
	defer detach()

	// Attach pushes the current snapshot immediately.
	var ev websocket.Event
	if err := json.Unmarshal(drain(t, dashboard.Send), &ev); err != nil {
		t.Fatalf("invalid event: %v", err)
	}
	if ev.Type != "queue.updated" || ev.Topic != TopicQueue {
		t.Fatalf("unexpected event: %+v", ev)
	}
	var snap queueResponse
	if err := json.Unmarshal(ev.Data, &snap); err != nil {
		t.Fatalf("invalid snapshot payload: %v", err)
	}
	if snap.Total != 1 || snap.Patients[0].Name != "A" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	// A change notification produces a fresh snapshot event.
	b := makePatient("B", 2, patient.CriticalEmergency, patient.StatusWaiting)
	store.set(a, b)
	listener.onChange()

	if err := json.Unmarshal(drain(t, dashboard.Send), &ev); err != nil {
		t.Fatalf("invalid event: %v", err)
	}
	if err := json.Unmarshal(ev.Data, &snap); err != nil {
		t.Fatalf("invalid snapshot payload: %v", err)
	}
	if snap.Total != 2 || snap.Patients[0].Name != "B" {
		t.Errorf("expected emergency first after change, got %+v", snap)
	}
}

func TestBroadcaster_PublishesPatientTopics(t *testing.T) {
	a := makePatient("A", 1, patient.CriticalNormal, patient.StatusWaiting)
	b := makePatient("B", 2, patient.CriticalNormal, patient.StatusWaiting)
	store := &fakeStore{}
	store.set(a, b)
	listener := &fakeListener{}
	proj := newTestProjection(t, store, listener)

	hub := websocket.NewHub(zerolog.Nop())
	statusPage := &websocket.Client{ID: "page", Topics: []string{patientTopic(b)}, Send: make(chan []byte, 16)}
	hub.Register(statusPage)

	detach := NewBroadcaster(hub, zerolog.Nop()).Attach(proj)
	defer detach()

	var ev websocket.Event
	if err := json.Unmarshal(drain(t, statusPage.Send), &ev); err != nil {
		t.Fatalf("invalid event: %v", err)
	}
	if ev.Type != "patient.updated" || ev.Topic != patientTopic(b) {
		t.Fatalf("unexpected event: %+v", ev)
	}
	var upd patientUpdate
	if err := json.Unmarshal(ev.Data, &upd); err != nil {
		t.Fatalf("invalid update payload: %v", err)
	}
	if !upd.Active || upd.Position != 2 {
		t.Errorf("expected active position 2, got %+v", upd)
	}

	// When A completes, B moves to position 1.
	a2 := *a
	a2.Status = patient.StatusCompleted
	store.set(&a2, b)
	listener.onChange()

	if err := json.Unmarshal(drain(t, statusPage.Send), &ev); err != nil {
		t.Fatalf("invalid event: %v", err)
	}
	if err := json.Unmarshal(ev.Data, &upd); err != nil {
		t.Fatalf("invalid update payload: %v", err)
	}
	if !upd.Active || upd.Position != 1 {
		t.Errorf("expected active position 1 after reorder, got %+v", upd)
	}
}
