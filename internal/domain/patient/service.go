package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrIllegalTransition is returned when a status write would skip or revert
// a step of the waiting -> in_consultation -> completed lifecycle.
var ErrIllegalTransition = errors.New("illegal status transition")

// RegistrationInput is the intake form payload.
type RegistrationInput struct {
	Name    string  `json:"name"`
	Age     int     `json:"age"`
	Symptom Symptom `json:"symptom"`
	Notes   string  `json:"notes"`
}

// Service validates intake data and applies the two permitted mutations,
// status transition and criticality escalation. It never retries store
// errors; retry policy belongs to the caller.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register classifies the intake data and creates the record with status
// waiting. Validation failures never reach the store, so no queue number is
// consumed for a rejected registration.
func (s *Service) Register(ctx context.Context, in RegistrationInput) (*Patient, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.Age < 0 || in.Age > 150 {
		return nil, fmt.Errorf("age must be between 0 and 150")
	}
	if !in.Symptom.Valid() {
		return nil, fmt.Errorf("unknown symptom %q", in.Symptom)
	}

	p := &Patient{
		Name:          name,
		Age:           in.Age,
		Symptom:       in.Symptom,
		CriticalLevel: Classify(in.Age, in.Symptom, in.Notes),
		Status:        StatusWaiting,
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		p.Notes = &notes
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// SetStatus applies a single forward step of the status lifecycle. Writing
// the current status again is an idempotent no-op. Concurrent writes on the
// same id are last-write-wins at the store.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur.Status == status {
		return nil
	}
	if !cur.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, cur.Status, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// EscalateToEmergency raises the patient's criticality. Escalating an
// already-emergency patient yields the same observable result. There is no
// de-escalation path.
func (s *Service) EscalateToEmergency(ctx context.Context, id uuid.UUID) error {
	return s.repo.EscalateCriticality(ctx, id)
}

// History lists registrations across all days, newest first.
func (s *Service) History(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}
