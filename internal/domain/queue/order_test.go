package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/opdq/opdq/internal/domain/patient"
)

func makePatient(name string, queueNumber int, level patient.CriticalLevel, status patient.Status) *patient.Patient {
	return &patient.Patient{
		ID:            uuid.New(),
		Name:          name,
		Age:           30,
		Symptom:       patient.SymptomFever,
		CriticalLevel: level,
		QueueNumber:   queueNumber,
		Status:        status,
	}
}

func names(ordered []*patient.Patient) []string {
	out := make([]string, len(ordered))
	for i, p := range ordered {
		out[i] = p.Name
	}
	return out
}

func assertOrder(t *testing.T, ordered []*patient.Patient, want ...string) {
	t.Helper()
	got := names(ordered)
	if len(got) != len(want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestOrder_EmergencyBeforeNormal(t *testing.T) {
	a := makePatient("A", 1, patient.CriticalNormal, patient.StatusWaiting)
	b := makePatient("B", 2, patient.CriticalNormal, patient.StatusWaiting)
	c := makePatient("C", 3, patient.CriticalEmergency, patient.StatusWaiting)

	assertOrder(t, Order([]*patient.Patient{a, b, c}), "C", "A", "B")
}

func TestOrder_CompletedSinksToBottom(t *testing.T) {
	a := makePatient("A", 1, patient.CriticalNormal, patient.StatusCompleted)
	b := makePatient("B", 2, patient.CriticalNormal, patient.StatusWaiting)
	c := makePatient("C", 3, patient.CriticalEmergency, patient.StatusWaiting)

	// Completed A drops below every active patient, even emergencies stay
	// above waiting normals.
	assertOrder(t, Order([]*patient.Patient{a, b, c}), "C", "B", "A")
}

func TestOrder_CompletedEmergencyBelowActiveNormal(t *testing.T) {
	a := makePatient("A", 1, patient.CriticalEmergency, patient.StatusCompleted)
	b := makePatient("B", 2, patient.CriticalNormal, patient.StatusWaiting)

	assertOrder(t, Order([]*patient.Patient{a, b}), "B", "A")
}

func TestOrder_QueueNumberBreaksTies(t *testing.T) {
	a := makePatient("A", 7, patient.CriticalEmergency, patient.StatusWaiting)
	b := makePatient("B", 2, patient.CriticalEmergency, patient.StatusWaiting)
	c := makePatient("C", 5, patient.CriticalNormal, patient.StatusWaiting)
	d := makePatient("D", 1, patient.CriticalNormal, patient.StatusWaiting)

	assertOrder(t, Order([]*patient.Patient{a, b, c, d}), "B", "A", "D", "C")
}

func TestOrder_InConsultationCountsAsActive(t *testing.T) {
	a := makePatient("A", 1, patient.CriticalNormal, patient.StatusInConsultation)
	b := makePatient("B", 2, patient.CriticalNormal, patient.StatusWaiting)

	assertOrder(t, Order([]*patient.Patient{a, b}), "A", "B")
}

func TestOrder_StableForEqualRecords(t *testing.T) {
	// Records comparing equal (same activity, criticality, and queue number)
	// keep their relative input order, whichever permutation arrives.
	a := makePatient("A", 5, patient.CriticalNormal, patient.StatusWaiting)
	b := makePatient("B", 5, patient.CriticalNormal, patient.StatusWaiting)
	c := makePatient("C", 5, patient.CriticalEmergency, patient.StatusWaiting)
	d := makePatient("D", 5, patient.CriticalEmergency, patient.StatusWaiting)

	assertOrder(t, Order([]*patient.Patient{a, b, c, d}), "C", "D", "A", "B")
	assertOrder(t, Order([]*patient.Patient{b, a, d, c}), "D", "C", "B", "A")
	// Permuting only records that compare unequal leaves each equal group's
	// internal order untouched.
	assertOrder(t, Order([]*patient.Patient{c, a, d, b}), "C", "D", "A", "B")
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	a := makePatient("A", 1, patient.CriticalNormal, patient.StatusWaiting)
	b := makePatient("B", 2, patient.CriticalEmergency, patient.StatusWaiting)
	in := []*patient.Patient{a, b}

	_ = Order(in)
	if in[0] != a || in[1] != b {
		t.Error("input slice must not be reordered")
	}
}

func TestOrder_EmptyAndSingle(t *testing.T) {
	if got := Order(nil); len(got) != 0 {
		t.Errorf("expected empty order, got %d records", len(got))
	}
	a := makePatient("A", 1, patient.CriticalNormal, patient.StatusWaiting)
	assertOrder(t, Order([]*patient.Patient{a}), "A")
}

func TestRank(t *testing.T) {
	a := makePatient("A", 1, patient.CriticalNormal, patient.StatusCompleted)
	b := makePatient("B", 2, patient.CriticalNormal, patient.StatusWaiting)
	c := makePatient("C", 3, patient.CriticalEmergency, patient.StatusWaiting)
	ordered := Order([]*patient.Patient{a, b, c}) // C, B, A

	if pos, ok := Rank(ordered, c.ID); !ok || pos != 1 {
		t.Errorf("expected C at position 1, got %d ok=%v", pos, ok)
	}
	if pos, ok := Rank(ordered, b.ID); !ok || pos != 2 {
		t.Errorf("expected B at position 2, got %d ok=%v", pos, ok)
	}
	// Completed patients hold no active slot.
	if _, ok := Rank(ordered, a.ID); ok {
		t.Error("completed patient should have no position")
	}
	if _, ok := Rank(ordered, uuid.New()); ok {
		t.Error("absent patient should have no position")
	}
}

func TestPriorityScore(t *testing.T) {
	at := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	later := at.Add(time.Minute)

	// An emergency outranks a normal that arrived earlier, within the base
	// window.
	if PriorityScore(patient.CriticalEmergency, later) >= PriorityScore(patient.CriticalNormal, at) {
		t.Error("emergency must score lower than normal")
	}
	// FIFO within a tier.
	if PriorityScore(patient.CriticalNormal, at) >= PriorityScore(patient.CriticalNormal, later) {
		t.Error("earlier arrival must score lower within a tier")
	}
	if PriorityScore(patient.CriticalEmergency, at) >= PriorityScore(patient.CriticalEmergency, later) {
		t.Error("earlier arrival must score lower within a tier")
	}
}
