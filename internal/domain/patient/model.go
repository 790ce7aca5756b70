package patient

import (
	"time"

	"github.com/google/uuid"
)

// Status is a patient's place in the consultation lifecycle.
type Status string

const (
	StatusWaiting        Status = "waiting"
	StatusInConsultation Status = "in_consultation"
	StatusCompleted      Status = "completed"
)

// Valid reports whether s is a recognized status value.
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusInConsultation, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal forward
// step. Same-state writes are allowed so repeated updates stay idempotent;
// skipping and reverting are not.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusWaiting:
		return next == StatusInConsultation
	case StatusInConsultation:
		return next == StatusCompleted
	}
	return false
}

// CriticalLevel governs queue priority.
type CriticalLevel string

const (
	CriticalEmergency CriticalLevel = "emergency"
	CriticalNormal    CriticalLevel = "normal"
)

// Valid reports whether l is a recognized criticality level.
func (l CriticalLevel) Valid() bool {
	return l == CriticalEmergency || l == CriticalNormal
}

// Symptom is one of the fixed intake options.
type Symptom string

const (
	SymptomCold           Symptom = "cold"
	SymptomFever          Symptom = "fever"
	SymptomHeadache       Symptom = "headache"
	SymptomGeneralCheckup Symptom = "general_checkup"
)

// Valid reports whether s is a recognized symptom value.
func (s Symptom) Valid() bool {
	switch s {
	case SymptomCold, SymptomFever, SymptomHeadache, SymptomGeneralCheckup:
		return true
	}
	return false
}

// Patient maps to the patient table. QueueNumber is assigned once at
// creation from a per-day counter and never changes; created_at is
// immutable and updated_at is set by every mutation.
type Patient struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Age           int           `db:"age" json:"age"`
	Symptom       Symptom       `db:"symptom" json:"symptom"`
	CriticalLevel CriticalLevel `db:"critical_level" json:"critical_level"`
	QueueNumber   int           `db:"queue_number" json:"queue_number"`
	Status        Status        `db:"status" json:"status"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// Active reports whether the patient still occupies a slot in the live
// queue, i.e. is waiting or in consultation.
func (p *Patient) Active() bool {
	return p.Status != StatusCompleted
}
