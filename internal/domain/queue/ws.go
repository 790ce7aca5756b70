package queue

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/opdq/opdq/internal/domain/patient"
	"github.com/opdq/opdq/internal/platform/websocket"
)

// TopicQueue carries the full ordered queue for the doctor and admin
// dashboards. Per-patient topics are "patient:<id>".
const TopicQueue = "queue"

func patientTopic(p *patient.Patient) string {
	return "patient:" + p.ID.String()
}

// Broadcaster pushes every ordered snapshot from the projection into the
// websocket hub. The queue topic gets the whole sequence; each subscribed
// patient topic gets the record plus its rank among active patients, so a
// status page needs no second subscription.
type Broadcaster struct {
	hub    *websocket.Hub
	logger zerolog.Logger
}

func NewBroadcaster(hub *websocket.Hub, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{hub: hub, logger: logger}
}

// Attach registers the broadcaster on the projection. The returned cancel
// detaches it.
func (b *Broadcaster) Attach(proj *Projection) (cancel func()) {
	return proj.WatchQueue(func(ordered []*patient.Patient) {
		b.publishQueue(ordered)
		b.publishPatients(ordered)
	})
}

func (b *Broadcaster) publishQueue(ordered []*patient.Patient) {
	data, err := json.Marshal(queueResponse{Patients: ordered, Total: len(ordered)})
	if err != nil {
		b.logger.Error().Err(err).Msg("marshal queue snapshot")
		return
	}
	b.hub.Broadcast(TopicQueue, websocket.Event{
		Type:      "queue.updated",
		Topic:     TopicQueue,
		Timestamp: time.Now(),
		Data:      data,
	})
}

type patientUpdate struct {
	Patient  *patient.Patient `json:"patient"`
	Active   bool             `json:"active"`
	Position int              `json:"position,omitempty"`
}

func (b *Broadcaster) publishPatients(ordered []*patient.Patient) {
	for _, p := range ordered {
		topic := patientTopic(p)
		if b.hub.TopicCount(topic) == 0 {
			continue
		}
		pos, ok := Rank(ordered, p.ID)
		data, err := json.Marshal(patientUpdate{Patient: p, Active: ok, Position: pos})
		if err != nil {
			b.logger.Error().Err(err).Str("topic", topic).Msg("marshal patient update")
			continue
		}
		b.hub.Broadcast(topic, websocket.Event{
			Type:      "patient.updated",
			Topic:     topic,
			Timestamp: time.Now(),
			Data:      data,
		})
	}
}
