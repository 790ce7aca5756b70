// Package queue derives ordered, live views over the day's patient records.
// The ordering engine is pure; the projection glues it to the store's change
// stream.
package queue

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/opdq/opdq/internal/domain/patient"
)

// Order returns the records sorted for display and for "who is seen next":
// completed records sink to the bottom; among the rest, emergencies come
// before normal patients; ties fall back to ascending queue number. The sort
// is stable and never mutates its input, which is expected to arrive in
// creation order.
func Order(records []*patient.Patient) []*patient.Patient {
	ordered := make([]*patient.Patient, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})
	return ordered
}

func less(a, b *patient.Patient) bool {
	if a.Active() != b.Active() {
		return a.Active()
	}
	if a.CriticalLevel != b.CriticalLevel {
		return a.CriticalLevel == patient.CriticalEmergency
	}
	return a.QueueNumber < b.QueueNumber
}

// Rank returns the 1-based position of id among the active patients of an
// already ordered sequence. ok is false when the patient is completed or not
// present at all.
func Rank(ordered []*patient.Patient, id uuid.UUID) (pos int, ok bool) {
	for _, p := range ordered {
		if !p.Active() {
			continue
		}
		pos++
		if p.ID == id {
			return pos, true
		}
	}
	return 0, false
}

const normalPriorityBase = 1_000_000

// PriorityScore is the numeric variant of the comparator: lower scores are
// seen first, and the creation timestamp keeps FIFO within a criticality
// tier. The emergency-before-normal guarantee only holds for arrivals
// within the base window (about 16 minutes at millisecond resolution), and
// the completed-sinks-to-bottom rule is not modeled at all, so live queue
// views must use Order.
func PriorityScore(level patient.CriticalLevel, createdAt time.Time) int64 {
	base := int64(normalPriorityBase)
	if level == patient.CriticalEmergency {
		base = 0
	}
	return base + createdAt.UnixMilli()
}
