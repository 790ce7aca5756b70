package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no patient exists for the given id.
var ErrNotFound = errors.New("patient not found")

// Repository is the persistence boundary for patient records. The store is
// the sole writer of persisted state; observers see writes only through the
// change stream, never through a side channel.
type Repository interface {
	// Create persists a new record, assigning its id, timestamps, and the
	// next queue number for the record's local day.
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// UpdateStatus writes status and updated_at on a single record.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	// EscalateCriticality raises critical_level to emergency. Records
	// already at emergency are left untouched.
	EscalateCriticality(ctx context.Context, id uuid.UUID) error
	// ListSince returns records created at or after since, in creation
	// order (created_at ascending).
	ListSince(ctx context.Context, since time.Time) ([]*Patient, error)
	// List returns records across all days, newest first, with the total
	// count for pagination.
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
